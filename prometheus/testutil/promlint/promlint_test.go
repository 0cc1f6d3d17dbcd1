// Copyright 2020 The Prometheus Authors
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

package promlint_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"

	dto "github.com/prometheus/client_model/go"

	"github.com/grings/promclient/prometheus/testutil/promlint"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		problems []promlint.Problem
	}{
		{
			name: "no problems",
			in: `
# HELP http_requests_total Total number of HTTP requests.
# TYPE http_requests_total counter
http_requests_total{method="get"} 3
`,
		},
		{
			name: "counter without _total suffix",
			in: `
# HELP x_requests Total number of requests.
# TYPE x_requests counter
x_requests 3
`,
			problems: []promlint.Problem{{
				Metric: "x_requests",
				Text:   `counter metrics should have "_total" suffix`,
			}},
		},
		{
			name: "gauge with _total suffix",
			in: `
# HELP x_bytes_total Number of bytes.
# TYPE x_bytes_total gauge
x_bytes_total 3
`,
			problems: []promlint.Problem{{
				Metric: "x_bytes_total",
				Text:   `non-counter metrics should not have "_total" suffix`,
			}},
		},
		{
			name: "histogram with _timestamp_seconds suffix",
			in: `
# HELP x_timestamp_seconds Last event time.
# TYPE x_timestamp_seconds histogram
x_timestamp_seconds_bucket{le="+Inf"} 1
x_timestamp_seconds_sum 3
x_timestamp_seconds_count 1
`,
			problems: []promlint.Problem{{
				Metric: "x_timestamp_seconds",
				Text:   `non-gauge metrics should not have "_timestamp_seconds" suffix`,
			}},
		},
		{
			name: "no help text",
			in: `
# TYPE x_bytes gauge
x_bytes 3
`,
			problems: []promlint.Problem{{
				Metric: "x_bytes",
				Text:   "no help text",
			}},
		},
		{
			name: "non-base unit",
			in: `
# HELP x_duration_milliseconds Duration of the last request.
# TYPE x_duration_milliseconds gauge
x_duration_milliseconds 3
`,
			problems: []promlint.Problem{{
				Metric: "x_duration_milliseconds",
				Text:   `use base unit "seconds" instead of "milliseconds"`,
			}},
		},
		{
			name: "abbreviated unit",
			in: `
# HELP x_latency_ms Latency of the last request.
# TYPE x_latency_ms gauge
x_latency_ms 3
`,
			problems: []promlint.Problem{{
				Metric: "x_latency_ms",
				Text:   "metric names should not contain abbreviated units",
			}},
		},
		{
			name: "metric type in name",
			in: `
# HELP x_gauge State of the thing.
# TYPE x_gauge gauge
x_gauge 3
`,
			problems: []promlint.Problem{{
				Metric: "x_gauge",
				Text:   `metric name should not include type 'gauge'`,
			}},
		},
		{
			name: "reserved colon",
			in: `
# HELP instance:x_bytes:rate5m Rate of bytes.
# TYPE instance:x_bytes:rate5m gauge
instance:x_bytes:rate5m 3
`,
			problems: []promlint.Problem{{
				Metric: "instance:x_bytes:rate5m",
				Text:   "metric names should not contain ':'",
			}},
		},
		{
			name: "camelCase metric name",
			in: `
# HELP x_requestsTotal Total number of requests.
# TYPE x_requestsTotal counter
x_requestsTotal 3
`,
			problems: []promlint.Problem{
				{
					Metric: "x_requestsTotal",
					Text:   `counter metrics should have "_total" suffix`,
				},
				{
					Metric: "x_requestsTotal",
					Text:   "metric names should be written in 'snake_case' not 'camelCase'",
				},
			},
		},
		{
			name: "camelCase label name",
			in: `
# HELP x_requests_total Total number of requests.
# TYPE x_requests_total counter
x_requests_total{someLabel="a"} 3
`,
			problems: []promlint.Problem{{
				Metric: "x_requests_total",
				Text:   "label names should be written in 'snake_case' not 'camelCase'",
			}},
		},
		{
			name: "le label on non-histogram",
			in: `
# HELP x_bytes Number of bytes.
# TYPE x_bytes gauge
x_bytes{le="1"} 3
`,
			problems: []promlint.Problem{{
				Metric: "x_bytes",
				Text:   `non-histogram metrics should not have "le" label`,
			}},
		},
		{
			name: "_bucket suffix on non-histogram",
			in: `
# HELP x_bytes_bucket Number of bytes.
# TYPE x_bytes_bucket untyped
x_bytes_bucket 3
`,
			problems: []promlint.Problem{{
				Metric: "x_bytes_bucket",
				Text:   `non-histogram metrics should not have "_bucket" suffix`,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := promlint.New(strings.NewReader(tt.in))
			problems, err := l.Lint()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if want, got := tt.problems, problems; !reflect.DeepEqual(want, got) {
				t.Fatalf("unexpected problems:\n- want: %v\n-  got: %v", want, got)
			}
		})
	}
}

func TestLintDuplicateMetric(t *testing.T) {
	mf := &dto.MetricFamily{
		Name: proto.String("x_bytes"),
		Help: proto.String("Number of bytes."),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{
				Label: []*dto.LabelPair{
					{Name: proto.String("label"), Value: proto.String("a")},
				},
				Gauge: &dto.Gauge{Value: proto.Float64(1)},
			},
			{
				Label: []*dto.LabelPair{
					{Name: proto.String("label"), Value: proto.String("a")},
				},
				Gauge: &dto.Gauge{Value: proto.Float64(2)},
			},
		},
	}

	problems, err := promlint.NewWithMetricFamilies([]*dto.MetricFamily{mf}).Lint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []promlint.Problem{{
		Metric: "x_bytes",
		Text:   "metric not unique",
	}}
	if !reflect.DeepEqual(want, problems) {
		t.Fatalf("unexpected problems:\n- want: %v\n-  got: %v", want, problems)
	}
}

func TestLintCustomValidations(t *testing.T) {
	in := `
# HELP x_bytes Number of bytes.
# TYPE x_bytes gauge
x_bytes 3
`
	l := promlint.New(strings.NewReader(in))
	l.AddCustomValidations(func(mf *dto.MetricFamily) []error {
		if !strings.HasPrefix(mf.GetName(), "myapp_") {
			return []error{errors.New(`metric names should start with "myapp_"`)}
		}
		return nil
	})

	problems, err := l.Lint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []promlint.Problem{{
		Metric: "x_bytes",
		Text:   `metric names should start with "myapp_"`,
	}}
	if !reflect.DeepEqual(want, problems) {
		t.Fatalf("unexpected problems:\n- want: %v\n-  got: %v", want, problems)
	}
}
