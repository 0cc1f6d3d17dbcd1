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

// Package prometheus_test exists to avoid an import loop between tests and
// packages depending on the prometheus package.
package prometheus_test

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"

	"github.com/grings/promclient/prometheus"
)

// testCollector is a Collector with a fixed set of descriptors and metrics.
// With no descriptors, it acts as an unchecked Collector.
type testCollector struct {
	descs   []*prometheus.Desc
	metrics []prometheus.Metric
}

func (c *testCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

func (c *testCollector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		ch <- m
	}
}

func TestRegisterUnregisterCollector(t *testing.T) {
	collector := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "test_gauge_vec",
			Help: "gauge vec with many labels",
		},
		[]string{"labelA", "labelB"},
	)
	collector.WithLabelValues("1", "2").Set(42)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)
	if ok := registry.Unregister(collector); !ok {
		t.Fatal("registry failed to unregister collector")
	}

	mfs, err := registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(mfs) != 0 {
		t.Errorf("gathered %d metric families after unregistering, want 0", len(mfs))
	}
}

func TestAlreadyRegisteredError(t *testing.T) {
	reg := prometheus.NewRegistry()
	original := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_total",
			Help: "Total number of tasks.",
		},
	)
	equalButNotSame := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_total",
			Help: "Total number of tasks.",
		},
	)

	if err := reg.Register(original); err != nil {
		t.Fatal(err)
	}
	err := reg.Register(equalButNotSame)
	if err == nil {
		t.Fatal("expected error when registering an equal collector")
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		t.Fatalf("expected AlreadyRegisteredError, got %T", err)
	}
	if are.ExistingCollector != original {
		t.Error("expected original collector in AlreadyRegisteredError, got something else")
	}
	if are.NewCollector != equalButNotSame {
		t.Error("expected new collector in AlreadyRegisteredError, got something else")
	}
}

func TestRegisterDuplicateDescriptors(t *testing.T) {
	shared := prometheus.NewDesc("test_shared_value", "A shared descriptor.", nil, nil)
	other := prometheus.NewDesc("test_other_value", "Another descriptor.", nil, nil)

	r := prometheus.NewRegistry()
	if err := r.Register(&testCollector{descs: []*prometheus.Desc{shared}}); err != nil {
		t.Fatal(err)
	}
	// A different collector reporting an already registered descriptor must
	// be rejected, but not with an AlreadyRegisteredError as the collectors
	// are not equal.
	err := r.Register(&testCollector{descs: []*prometheus.Desc{shared, other}})
	if err == nil {
		t.Fatal("expected error when registering a collector with a duplicate descriptor")
	}
	if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
		t.Error("expected a plain error, got AlreadyRegisteredError")
	}
	if !strings.Contains(err.Error(), "already exists with the same fully-qualified name and const label values") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestRegisterInconsistentDescriptors(t *testing.T) {
	r := prometheus.NewRegistry()

	if err := r.Register(prometheus.NewCounter(
		prometheus.CounterOpts{Name: "test_total", Help: "First help."},
	)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(prometheus.NewCounter(
		prometheus.CounterOpts{Name: "test_total", Help: "Second help."},
	)); err == nil {
		t.Error("expected error when registering a descriptor with inconsistent help")
	}

	if err := r.Register(prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_labeled_total", Help: "Help."},
		[]string{"a"},
	)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_labeled_total", Help: "Help."},
		[]string{"b"},
	)); err == nil {
		t.Error("expected error when registering a descriptor with inconsistent label names")
	}
}

func TestRegisterInvalidDescriptor(t *testing.T) {
	r := prometheus.NewRegistry()
	err := r.Register(&testCollector{descs: []*prometheus.Desc{
		prometheus.NewDesc("invalid-name", "An invalid descriptor.", nil, nil),
	}})
	if err == nil {
		t.Fatal("expected error when registering an invalid descriptor")
	}
	if !strings.Contains(err.Error(), "is invalid") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestUncheckedCollector(t *testing.T) {
	c := &testCollector{
		metrics: []prometheus.Metric{
			prometheus.MustNewConstMetric(
				prometheus.NewDesc("unchecked_value", "An unchecked metric.", nil, nil),
				prometheus.GaugeValue, 42,
			),
		},
	}

	r := prometheus.NewRegistry()
	if err := r.Register(c); err != nil {
		t.Fatal(err)
	}

	mfs, err := r.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(mfs) != 1 || mfs[0].GetName() != "unchecked_value" {
		t.Errorf("unexpected gather result: %v", mfs)
	}

	// An unchecked Collector yields no descriptors and can therefore not be
	// unregistered.
	if r.Unregister(c) {
		t.Error("expected unregistering an unchecked collector to fail")
	}
}

func TestGatherDuplicateMetrics(t *testing.T) {
	desc := prometheus.NewDesc("dup_value", "A duplicated metric.", nil, nil)
	r := prometheus.NewRegistry()
	r.MustRegister(&testCollector{
		descs: []*prometheus.Desc{desc},
		metrics: []prometheus.Metric{
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1),
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 2),
		},
	})

	mfs, err := r.Gather()
	if err == nil {
		t.Fatal("expected error gathering duplicate metrics")
	}
	if !strings.Contains(err.Error(), "was collected before with the same name and label values") {
		t.Errorf("unexpected error: %s", err)
	}
	// The first occurrence must still be gathered.
	if len(mfs) != 1 || len(mfs[0].Metric) != 1 {
		t.Errorf("unexpected gather result: %v", mfs)
	}
}

func TestGatherInvalidLabel(t *testing.T) {
	desc := prometheus.NewDesc("labeled_value", "A labeled metric.", []string{"name"}, nil)
	r := prometheus.NewRegistry()
	r.MustRegister(&testCollector{
		descs: []*prometheus.Desc{desc},
		metrics: []prometheus.Metric{
			prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, "\x80"),
		},
	})

	if _, err := r.Gather(); err == nil {
		t.Error("expected error gathering metric with invalid utf8 label value")
	}
}

func TestPedanticRegistry(t *testing.T) {
	registeredDesc := prometheus.NewDesc("pedantic_value", "A described metric.", nil, nil)
	rogueDesc := prometheus.NewDesc("rogue_value", "Not described.", nil, nil)

	newCollector := func() *testCollector {
		return &testCollector{
			descs: []*prometheus.Desc{registeredDesc},
			metrics: []prometheus.Metric{
				prometheus.MustNewConstMetric(rogueDesc, prometheus.GaugeValue, 1),
			},
		}
	}

	pedantic := prometheus.NewPedanticRegistry()
	pedantic.MustRegister(newCollector())
	if _, err := pedantic.Gather(); err == nil {
		t.Error("expected pedantic registry to reject a metric with an unregistered descriptor")
	}

	// A vanilla registry tolerates the same collector as the union of the
	// collected metrics is still consistent.
	vanilla := prometheus.NewRegistry()
	vanilla.MustRegister(newCollector())
	if _, err := vanilla.Gather(); err != nil {
		t.Errorf("vanilla registry failed gathering: %s", err)
	}
}

func TestGatherManyCollectors(t *testing.T) {
	r := prometheus.NewRegistry()
	for i := 0; i < 100; i++ {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("test_%03d_total", i),
			Help: "A counter among many.",
		})
		c.Add(float64(i))
		r.MustRegister(c)
	}

	mfs, err := r.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(mfs) != 100 {
		t.Fatalf("gathered %d metric families, want 100", len(mfs))
	}
	if !sort.SliceIsSorted(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() }) {
		t.Error("gathered metric families are not sorted by name")
	}
}

func TestMultiError(t *testing.T) {
	var errs prometheus.MultiError
	if errs.MaybeUnwrap() != nil {
		t.Error("empty MultiError did not unwrap to nil")
	}

	errs.Append(nil)
	if len(errs) != 0 {
		t.Error("appending nil grew the MultiError")
	}

	err1 := errors.New("first")
	errs.Append(err1)
	if got := errs.MaybeUnwrap(); got != err1 {
		t.Errorf("single error did not unwrap to itself, got %v", got)
	}

	errs.Append(errors.New("second"))
	err := errs.MaybeUnwrap()
	if _, ok := err.(prometheus.MultiError); !ok {
		t.Fatalf("expected MultiError, got %T", err)
	}
	for _, want := range []string{"2 error(s) occurred:", "* first", "* second"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error message %q", want, err.Error())
		}
	}
}

func TestGatherers(t *testing.T) {
	gatherer := func(mfs ...*dto.MetricFamily) prometheus.Gatherer {
		return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
			return mfs, nil
		})
	}
	counterFamily := func(name, help string, labelValue string, value float64) *dto.MetricFamily {
		return &dto.MetricFamily{
			Name: proto.String(name),
			Help: proto.String(help),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{
				Label: []*dto.LabelPair{{
					Name:  proto.String("name"),
					Value: proto.String(labelValue),
				}},
				Counter: &dto.Counter{Value: proto.Float64(value)},
			}},
		}
	}

	t.Run("disjoint families are merged sorted", func(t *testing.T) {
		gs := prometheus.Gatherers{
			gatherer(counterFamily("zz_total", "Help.", "a", 1)),
			gatherer(counterFamily("aa_total", "Help.", "a", 1)),
		}
		mfs, err := gs.Gather()
		if err != nil {
			t.Fatal(err)
		}
		if len(mfs) != 2 || mfs[0].GetName() != "aa_total" || mfs[1].GetName() != "zz_total" {
			t.Errorf("unexpected gather result: %v", mfs)
		}
	})

	t.Run("consistent metrics of the same family are merged", func(t *testing.T) {
		gs := prometheus.Gatherers{
			gatherer(counterFamily("requests_total", "Help.", "a", 1)),
			gatherer(counterFamily("requests_total", "Help.", "b", 2)),
		}
		mfs, err := gs.Gather()
		if err != nil {
			t.Fatal(err)
		}
		if len(mfs) != 1 || len(mfs[0].Metric) != 2 {
			t.Errorf("unexpected gather result: %v", mfs)
		}
	})

	t.Run("duplicate metrics are dropped with an error", func(t *testing.T) {
		gs := prometheus.Gatherers{
			gatherer(counterFamily("requests_total", "Help.", "a", 1)),
			gatherer(counterFamily("requests_total", "Help.", "a", 2)),
		}
		mfs, err := gs.Gather()
		if err == nil {
			t.Fatal("expected error gathering duplicate metrics")
		}
		if !strings.Contains(err.Error(), "was collected before with the same name and label values") {
			t.Errorf("unexpected error: %s", err)
		}
		// First occurrence in slice order wins.
		if len(mfs) != 1 || len(mfs[0].Metric) != 1 || mfs[0].Metric[0].GetCounter().GetValue() != 1 {
			t.Errorf("unexpected gather result: %v", mfs)
		}
	})

	t.Run("inconsistent help", func(t *testing.T) {
		gs := prometheus.Gatherers{
			gatherer(counterFamily("requests_total", "Help.", "a", 1)),
			gatherer(counterFamily("requests_total", "Other help.", "b", 2)),
		}
		_, err := gs.Gather()
		if err == nil {
			t.Fatal("expected error gathering families with inconsistent help")
		}
		if !strings.Contains(err.Error(), "has help") {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("inconsistent type", func(t *testing.T) {
		gaugeFamily := counterFamily("requests_total", "Help.", "b", 2)
		gaugeFamily.Type = dto.MetricType_GAUGE.Enum()
		gaugeFamily.Metric[0].Gauge = &dto.Gauge{Value: proto.Float64(2)}
		gaugeFamily.Metric[0].Counter = nil
		gs := prometheus.Gatherers{
			gatherer(counterFamily("requests_total", "Help.", "a", 1)),
			gatherer(gaugeFamily),
		}
		_, err := gs.Gather()
		if err == nil {
			t.Fatal("expected error gathering families with inconsistent types")
		}
		if !strings.Contains(err.Error(), "has type") {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("failing gatherer is reported with its index", func(t *testing.T) {
		gs := prometheus.Gatherers{
			gatherer(counterFamily("requests_total", "Help.", "a", 1)),
			prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
				return nil, errors.New("gathering broke")
			}),
		}
		mfs, err := gs.Gather()
		if err == nil {
			t.Fatal("expected error from failing gatherer")
		}
		if !strings.Contains(err.Error(), "[from Gatherer #2] gathering broke") {
			t.Errorf("unexpected error: %s", err)
		}
		// The healthy gatherer is still collected.
		if len(mfs) != 1 {
			t.Errorf("unexpected gather result: %v", mfs)
		}
	})
}

func TestGathererSuffixCollisions(t *testing.T) {
	histogramFamily := func(name string) *dto.MetricFamily {
		return &dto.MetricFamily{
			Name: proto.String(name),
			Help: proto.String("A histogram."),
			Type: dto.MetricType_HISTOGRAM.Enum(),
			Metric: []*dto.Metric{{
				Histogram: &dto.Histogram{
					SampleCount: proto.Uint64(3),
					SampleSum:   proto.Float64(4.5),
					Bucket: []*dto.Bucket{
						{UpperBound: proto.Float64(1), CumulativeCount: proto.Uint64(2)},
					},
				},
			}},
		}
	}
	counterFamily := func(name string) *dto.MetricFamily {
		return &dto.MetricFamily{
			Name: proto.String(name),
			Help: proto.String("A counter."),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{
				Counter: &dto.Counter{Value: proto.Float64(1)},
			}},
		}
	}
	gatherer := func(mfs ...*dto.MetricFamily) prometheus.Gatherer {
		return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
			return mfs, nil
		})
	}

	// Histogram gathered after a metric claiming one of its flattened names.
	gs := prometheus.Gatherers{
		gatherer(counterFamily("test_duration_seconds_count")),
		gatherer(histogramFamily("test_duration_seconds")),
	}
	_, err := gs.Gather()
	if err == nil {
		t.Fatal("expected suffix collision error")
	}
	if !strings.Contains(err.Error(), "collides with previously collected metric named") {
		t.Errorf("unexpected error: %s", err)
	}

	// And the other way round.
	gs = prometheus.Gatherers{
		gatherer(histogramFamily("test_duration_seconds")),
		gatherer(counterFamily("test_duration_seconds_sum")),
	}
	_, err = gs.Gather()
	if err == nil {
		t.Fatal("expected suffix collision error")
	}
	if !strings.Contains(err.Error(), "collides with previously collected histogram named") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestWriteToTextfile(t *testing.T) {
	expectedOut := `# HELP test_counter test counter
# TYPE test_counter counter
test_counter{name="qux"} 1
# HELP test_gauge test gauge
# TYPE test_gauge gauge
test_gauge{name="baz"} 1.1
`

	registry := prometheus.NewRegistry()

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "test counter",
	}, []string{"name"})
	counter.WithLabelValues("qux").Inc()

	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "test gauge",
	}, []string{"name"})
	gauge.WithLabelValues("baz").Set(1.1)

	registry.MustRegister(counter)
	registry.MustRegister(gauge)

	tmpfile, err := os.CreateTemp("", "prom_registry_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if err := prometheus.WriteToTextfile(tmpfile.Name(), registry); err != nil {
		t.Fatal(err)
	}

	fileBytes, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}
	fileContents := string(fileBytes)

	if fileContents != expectedOut {
		t.Errorf(
			"files don't match, got:\n%s\nwant:\n%s",
			fileContents, expectedOut,
		)
	}
}

func TestHistogramVecRegisterGatherConcurrency(t *testing.T) {
	labelNames := make([]string, 16) // Need at least 13 to expose sparse desc handling.
	for i := range labelNames {
		labelNames[i] = fmt.Sprint("label_", i)
	}

	var (
		reg = prometheus.NewPedanticRegistry()
		hv  = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "test_histogram",
				Help:        "This helps testing.",
				ConstLabels: prometheus.Labels{"foo": "bar"},
			},
			labelNames,
		)
		quit = make(chan struct{})
		wg   sync.WaitGroup
	)

	reg.MustRegister(hv)

	// Seed one observation so gathering always sees the metric family.
	seed := make([]string, len(labelNames))
	for i := range seed {
		seed[i] = "0"
	}
	hv.WithLabelValues(seed...).Observe(.1)

	observe := func() {
		defer wg.Done()
		for {
			select {
			case <-quit:
				return
			default:
				obs := rand.NormFloat64()*.1 + .2
				values := make([]string, len(labelNames))
				for i := range values {
					values[i] = fmt.Sprint(rand.Intn(10))
				}
				hv.WithLabelValues(values...).Observe(obs)
			}
		}
	}

	gather := func() {
		defer wg.Done()
		for {
			select {
			case <-quit:
				return
			default:
				if g, err := reg.Gather(); err != nil {
					t.Error("Gather failed:", err)
				} else if len(g) != 1 {
					t.Error("Gathered unexpected number of metric families:", len(g))
				} else if len(g[0].Metric[0].Label) != len(labelNames)+1 {
					t.Error("Gathered unexpected number of label pairs:", len(g[0].Metric[0].Label))
				}
			}
		}
	}

	wg.Add(10)
	for i := 0; i < 5; i++ {
		go observe()
		go gather()
	}
	time.Sleep(time.Second)
	close(quit)
	wg.Wait()
}
