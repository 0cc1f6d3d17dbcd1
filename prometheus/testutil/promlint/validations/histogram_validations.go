// Copyright 2020 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validations

import (
	"errors"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// LintHistogramReserved detects when other types of metrics use names or
// labels reserved for use by histograms.
func LintHistogramReserved(mf *dto.MetricFamily) []error {
	if mf.GetType() == dto.MetricType_HISTOGRAM {
		// These names are only valid for histograms, so skip checks.
		return nil
	}

	var problems []error

	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "le" {
				problems = append(problems, errors.New(`non-histogram metrics should not have "le" label`))
			}
		}
	}

	n := mf.GetName()
	if strings.HasSuffix(n, "_bucket") {
		problems = append(problems, errors.New(`non-histogram metrics should not have "_bucket" suffix`))
	}
	if strings.HasSuffix(n, "_count") {
		problems = append(problems, errors.New(`non-histogram metrics should not have "_count" suffix`))
	}
	if strings.HasSuffix(n, "_sum") {
		problems = append(problems, errors.New(`non-histogram metrics should not have "_sum" suffix`))
	}

	return problems
}
