// Copyright 2014 The Prometheus Authors
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

// Package prometheus is the core instrumentation package. It provides metrics
// primitives to instrument code for monitoring, a registry for metrics, and
// ways of exposing registered metrics in the text-based exposition format.
//
// The most common metric types are Counter, Gauge, and Histogram. Partitioned
// versions of each exist as CounterVec, GaugeVec, and HistogramVec, managing
// one child metric per combination of label values.
//
// A basic usage example:
//
//	package main
//
//	import (
//		"log"
//		"net/http"
//
//		"github.com/grings/promclient/prometheus"
//		"github.com/grings/promclient/prometheus/promhttp"
//	)
//
//	var (
//		cpuTemp = prometheus.NewGauge(prometheus.GaugeOpts{
//			Name: "cpu_temperature_celsius",
//			Help: "Current temperature of the CPU.",
//		})
//		hdFailures = prometheus.NewCounterVec(
//			prometheus.CounterOpts{
//				Name: "hd_errors_total",
//				Help: "Number of hard-disk errors.",
//			},
//			[]string{"device"},
//		)
//	)
//
//	func init() {
//		prometheus.MustRegister(cpuTemp)
//		prometheus.MustRegister(hdFailures)
//	}
//
//	func main() {
//		cpuTemp.Set(65.3)
//		hdFailures.With(prometheus.Labels{"device": "/dev/sda"}).Inc()
//
//		http.Handle("/metrics", promhttp.Handler())
//		log.Fatal(http.ListenAndServe(":8080", nil))
//	}
//
// Metrics not tracked by the instrumented program itself, for example values
// maintained by another system, are exposed through custom collectors
// implementing the Collector interface, typically with NewConstMetric and
// NewConstHistogram creating the snapshots on the fly during collection.
//
// Everything exposed through the default registry must be registered first.
// The default registry starts out empty. Process and Go runtime metrics are
// available through the collectors sub-package and are registered in the same
// explicit way.
package prometheus
