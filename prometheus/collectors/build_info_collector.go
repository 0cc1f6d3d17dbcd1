// Copyright 2021 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collectors

import "github.com/grings/promclient/prometheus"

// NewBuildInfoCollector returns a collector collecting a single metric
// "go_build_info" with the constant value 1 and three labels "path",
// "version", and "checksum". Their label values contain the main module path,
// version, and checksum, respectively. The labels will only have meaningful
// values if the binary is built with Go module support and from source code
// retrieved from the source repository (rather than the local file system).
// If built without Go module support, all label values will be "unknown".
func NewBuildInfoCollector() prometheus.Collector {
	//nolint:staticcheck // Ignore SA1019. Need to keep deprecated package for compatibility.
	return prometheus.NewBuildInfoCollector()
}
