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

package prometheus

import (
	"runtime/debug"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestGoCollectorGoroutines(t *testing.T) {
	var (
		c      = NewGoCollector()
		ch     = make(chan Metric)
		waitc  = make(chan struct{})
		closec = make(chan struct{})
		donec  = make(chan struct{})
		old    = -1
	)
	defer close(closec)

	go func() {
		c.Collect(ch)
		go func(c <-chan struct{}) {
			<-c
		}(closec)
		<-waitc
		c.Collect(ch)
		close(donec)
	}()

	for {
		select {
		case metric := <-ch:
			if metric.Desc().fqName != "go_goroutines" {
				continue
			}
			pb := &dto.Metric{}
			if err := metric.Write(pb); err != nil {
				t.Fatal(err)
			}

			if old == -1 {
				old = int(pb.GetGauge().GetValue())
				close(waitc)
				continue
			}

			if diff := int(pb.GetGauge().GetValue()) - old; diff != 1 {
				// TODO: This is flaky in highly concurrent situations.
				t.Errorf("want 1 new goroutine, got %d", diff)
			}
		case <-donec:
			if old == -1 {
				t.Fatal("no goroutine metric collected")
			}
			return
		case <-time.After(1 * time.Second):
			t.Fatalf("expected collect timed out")
		}
	}
}

func TestGoCollectorGC(t *testing.T) {
	var (
		c       = NewGoCollector()
		ch      = make(chan Metric)
		waitc   = make(chan struct{})
		donec   = make(chan struct{})
		oldLast = -1.0
	)

	go func() {
		c.Collect(ch)
		// force GC
		debug.FreeOSMemory()
		<-waitc
		c.Collect(ch)
		close(donec)
	}()

	for {
		select {
		case metric := <-ch:
			if metric.Desc().fqName != "go_memstats_last_gc_time_seconds" {
				continue
			}
			pb := &dto.Metric{}
			if err := metric.Write(pb); err != nil {
				t.Fatal(err)
			}

			if oldLast < 0 {
				oldLast = pb.GetGauge().GetValue()
				close(waitc)
				continue
			}

			if got := pb.GetGauge().GetValue(); got <= oldLast {
				t.Errorf("want newer GC timestamp, got %f <= %f", got, oldLast)
			}
		case <-donec:
			if oldLast < 0 {
				t.Fatal("no last GC time metric collected")
			}
			return
		case <-time.After(1 * time.Second):
			t.Fatalf("expected collect timed out")
		}
	}
}

func TestGoCollectorMemStats(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(NewGoCollector())

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]struct{}{}
	for _, mf := range mfs {
		got[mf.GetName()] = struct{}{}
	}

	for _, want := range []string{
		"go_goroutines",
		"go_threads",
		"go_info",
		"go_memstats_alloc_bytes",
		"go_memstats_alloc_bytes_total",
		"go_memstats_heap_objects",
		"go_memstats_last_gc_time_seconds",
		"go_memstats_next_gc_bytes",
	} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing metric family %q", want)
		}
	}
}
