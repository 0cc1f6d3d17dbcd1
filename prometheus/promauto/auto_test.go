// Copyright 2018 The Prometheus Authors
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

package promauto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grings/promclient/prometheus"
)

func TestNil(t *testing.T) {
	// A nil registerer should be treated as a no-op by promauto.
	c := With(nil).NewCounter(prometheus.CounterOpts{Name: "test"})
	c.Inc()
}

func TestWithRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	factory := With(reg)

	counter := factory.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "A counter created through a factory.",
	})
	counter.Inc()

	histogram := factory.NewHistogramVec(prometheus.HistogramOpts{
		Name: "test_duration_seconds",
		Help: "A histogram created through a factory.",
	}, []string{"path"})
	histogram.WithLabelValues("/").Observe(0.3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	require.ElementsMatch(t, []string{"test_counter_total", "test_duration_seconds"}, names)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	factory := With(reg)

	factory.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "help"})
	require.Panics(t, func() {
		factory.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "help"})
	})
}
