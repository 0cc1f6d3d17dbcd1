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

// Package promauto provides alternative constructors for the fundamental
// Prometheus metric types and their …Vec and …Func variants. The difference to
// their counterparts in the prometheus package is that the promauto
// constructors register the Collectors with a registry before returning them.
// There are two sets of constructors. The constructors in the first set are
// top-level functions, while the constructors in the other set are methods of
// the Factory type. The top-level functions return Collectors registered with
// the global registry (prometheus.DefaultRegisterer), while the methods return
// Collectors registered with the registry the Factory was constructed with. All
// constructors panic if the registration fails.
//
// The following example is a complete program to create a histogram of normally
// distributed random numbers from the math/rand package:
//
//	package main
//
//	import (
//		"math/rand"
//		"net/http"
//
//		"github.com/grings/promclient/prometheus"
//		"github.com/grings/promclient/prometheus/promauto"
//		"github.com/grings/promclient/prometheus/promhttp"
//	)
//
//	var histogram = promauto.NewHistogram(prometheus.HistogramOpts{
//		Name:    "random_numbers",
//		Help:    "A histogram of normally distributed random numbers.",
//		Buckets: prometheus.LinearBuckets(-3, .1, 61),
//	})
//
//	func Random() {
//		for {
//			histogram.Observe(rand.NormFloat64())
//		}
//	}
//
//	func main() {
//		go Random()
//		http.Handle("/metrics", promhttp.Handler())
//		http.ListenAndServe(":1971", nil)
//	}
//
// Prometheus's version of a minimal hello-world program:
//
//	package main
//
//	import (
//		"fmt"
//		"net/http"
//
//		"github.com/grings/promclient/prometheus"
//		"github.com/grings/promclient/prometheus/promauto"
//		"github.com/grings/promclient/prometheus/promhttp"
//	)
//
//	func main() {
//		http.Handle("/", promhttp.Counter(
//			promauto.NewCounterVec(
//				prometheus.CounterOpts{
//					Name: "hello_requests_total",
//					Help: "Total number of hello-world requests by HTTP code.",
//				},
//				[]string{"code"},
//			),
//			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//				fmt.Fprint(w, "Hello, world!")
//			}),
//		))
//		http.ListenAndServe(":1971", nil)
//	}
//
// A Factory is created with the With(prometheus.Registerer) function, which
// enables two usage patterns. With(prometheus.Registerer) can be called once per
// line:
//
//	var (
//		reg           = prometheus.NewRegistry()
//		randomNumbers = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
//			Name:    "random_numbers",
//			Help:    "A histogram of normally distributed random numbers.",
//			Buckets: prometheus.LinearBuckets(-3, .1, 61),
//		})
//		requestCount = promauto.With(reg).NewCounterVec(
//			prometheus.CounterOpts{
//				Name: "http_requests_total",
//				Help: "Total number of HTTP requests by status code and method.",
//			},
//			[]string{"code", "method"},
//		)
//	)
//
// Or it can be used to create a Factory once to be used multiple times:
//
//	var (
//		reg           = prometheus.NewRegistry()
//		factory       = promauto.With(reg)
//		randomNumbers = factory.NewHistogram(prometheus.HistogramOpts{
//			Name:    "random_numbers",
//			Help:    "A histogram of normally distributed random numbers.",
//			Buckets: prometheus.LinearBuckets(-3, .1, 61),
//		})
//		requestCount = factory.NewCounterVec(
//			prometheus.CounterOpts{
//				Name: "http_requests_total",
//				Help: "Total number of HTTP requests by status code and method.",
//			},
//			[]string{"code", "method"},
//		)
//	)
//
// This appears very handy. So why are these constructors locked away in a
// separate package?
//
// The main problem is that registration may fail, e.g. if a metric inconsistent
// with or equal to the newly to be registered one is already registered.
// Therefore, the to-be-registered metric has to be created "on the spot" and
// cannot be passed around, and the registration has to happen synchronously,
// with a panic upon failure. These constraints make the promauto constructors
// ideal for metrics that are created once, in a global variable or during
// program initialization, but ill-suited for metrics created and deleted
// dynamically.
package promauto

import (
	"github.com/grings/promclient/prometheus"
)

// NewCounter works like the function of the same name in the prometheus
// package but it automatically registers the Counter with the
// prometheus.DefaultRegisterer. If the registration fails, NewCounter panics.
func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	return With(prometheus.DefaultRegisterer).NewCounter(opts)
}

// NewCounterVec works like the function of the same name in the prometheus
// package but it automatically registers the CounterVec with the
// prometheus.DefaultRegisterer. If the registration fails, NewCounterVec
// panics.
func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	return With(prometheus.DefaultRegisterer).NewCounterVec(opts, labelNames)
}

// NewCounterFunc works like the function of the same name in the prometheus
// package but it automatically registers the CounterFunc with the
// prometheus.DefaultRegisterer. If the registration fails, NewCounterFunc
// panics.
func NewCounterFunc(opts prometheus.CounterOpts, function func() float64) prometheus.CounterFunc {
	return With(prometheus.DefaultRegisterer).NewCounterFunc(opts, function)
}

// NewGauge works like the function of the same name in the prometheus package
// but it automatically registers the Gauge with the
// prometheus.DefaultRegisterer. If the registration fails, NewGauge panics.
func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	return With(prometheus.DefaultRegisterer).NewGauge(opts)
}

// NewGaugeVec works like the function of the same name in the prometheus
// package but it automatically registers the GaugeVec with the
// prometheus.DefaultRegisterer. If the registration fails, NewGaugeVec panics.
func NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	return With(prometheus.DefaultRegisterer).NewGaugeVec(opts, labelNames)
}

// NewGaugeFunc works like the function of the same name in the prometheus
// package but it automatically registers the GaugeFunc with the
// prometheus.DefaultRegisterer. If the registration fails, NewGaugeFunc panics.
func NewGaugeFunc(opts prometheus.GaugeOpts, function func() float64) prometheus.GaugeFunc {
	return With(prometheus.DefaultRegisterer).NewGaugeFunc(opts, function)
}

// NewHistogram works like the function of the same name in the prometheus
// package but it automatically registers the Histogram with the
// prometheus.DefaultRegisterer. If the registration fails, NewHistogram
// panics.
func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	return With(prometheus.DefaultRegisterer).NewHistogram(opts)
}

// NewHistogramVec works like the function of the same name in the prometheus
// package but it automatically registers the HistogramVec with the
// prometheus.DefaultRegisterer. If the registration fails, NewHistogramVec
// panics.
func NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	return With(prometheus.DefaultRegisterer).NewHistogramVec(opts, labelNames)
}

// NewUntypedFunc works like the function of the same name in the prometheus
// package but it automatically registers the UntypedFunc with the
// prometheus.DefaultRegisterer. If the registration fails, NewUntypedFunc
// panics.
func NewUntypedFunc(opts prometheus.UntypedOpts, function func() float64) prometheus.UntypedFunc {
	return With(prometheus.DefaultRegisterer).NewUntypedFunc(opts, function)
}

// Factory provides factory methods to create Collectors that are automatically
// registered with a Registerer. Users of this package should not create
// Factories directly but use the With function instead, which returns a
// Factory registering with the provided Registerer.
type Factory struct {
	r prometheus.Registerer
}

// With creates a Factory using the provided Registerer for registration of the
// created Collectors. If the provided Registerer is nil, the returned Factory
// creates metrics that are not registered with any Registerer. All returned
// Factories are functional.
func With(r prometheus.Registerer) Factory { return Factory{r} }

// NewCounter works like the function of the same name in the prometheus
// package but it automatically registers the Counter with the Factory's
// Registerer.
func (f Factory) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if f.r != nil {
		f.r.MustRegister(c)
	}
	return c
}

// NewCounterVec works like the function of the same name in the prometheus
// package but it automatically registers the CounterVec with the Factory's
// Registerer.
func (f Factory) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labelNames)
	if f.r != nil {
		f.r.MustRegister(c)
	}
	return c
}

// NewCounterFunc works like the function of the same name in the prometheus
// package but it automatically registers the CounterFunc with the Factory's
// Registerer.
func (f Factory) NewCounterFunc(opts prometheus.CounterOpts, function func() float64) prometheus.CounterFunc {
	c := prometheus.NewCounterFunc(opts, function)
	if f.r != nil {
		f.r.MustRegister(c)
	}
	return c
}

// NewGauge works like the function of the same name in the prometheus package
// but it automatically registers the Gauge with the Factory's Registerer.
func (f Factory) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	if f.r != nil {
		f.r.MustRegister(g)
	}
	return g
}

// NewGaugeVec works like the function of the same name in the prometheus
// package but it automatically registers the GaugeVec with the Factory's
// Registerer.
func (f Factory) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labelNames)
	if f.r != nil {
		f.r.MustRegister(g)
	}
	return g
}

// NewGaugeFunc works like the function of the same name in the prometheus
// package but it automatically registers the GaugeFunc with the Factory's
// Registerer.
func (f Factory) NewGaugeFunc(opts prometheus.GaugeOpts, function func() float64) prometheus.GaugeFunc {
	g := prometheus.NewGaugeFunc(opts, function)
	if f.r != nil {
		f.r.MustRegister(g)
	}
	return g
}

// NewHistogram works like the function of the same name in the prometheus
// package but it automatically registers the Histogram with the Factory's
// Registerer.
func (f Factory) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if f.r != nil {
		f.r.MustRegister(h)
	}
	return h
}

// NewHistogramVec works like the function of the same name in the prometheus
// package but it automatically registers the HistogramVec with the Factory's
// Registerer.
func (f Factory) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labelNames)
	if f.r != nil {
		f.r.MustRegister(h)
	}
	return h
}

// NewUntypedFunc works like the function of the same name in the prometheus
// package but it automatically registers the UntypedFunc with the Factory's
// Registerer.
func (f Factory) NewUntypedFunc(opts prometheus.UntypedOpts, function func() float64) prometheus.UntypedFunc {
	u := prometheus.NewUntypedFunc(opts, function)
	if f.r != nil {
		f.r.MustRegister(u)
	}
	return u
}
