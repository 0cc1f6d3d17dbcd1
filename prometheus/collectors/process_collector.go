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

// ProcessCollectorOpts defines the behavior of a process metrics collector
// created with NewProcessCollector.
type ProcessCollectorOpts = prometheus.ProcessCollectorOpts

// NewProcessCollector returns a collector which exports the current state of
// process metrics including CPU, memory and file descriptor usage as well as
// the process start time. The detailed behavior is defined by the provided
// ProcessCollectorOpts. The zero value of ProcessCollectorOpts is a reasonable
// default collector for the current process.
//
// The collector only works on operating systems with a Linux-style proc
// filesystem. On other operating systems, it will not collect any metrics.
func NewProcessCollector(opts ProcessCollectorOpts) prometheus.Collector {
	//nolint:staticcheck // Ignore SA1019. Need to keep deprecated package for compatibility.
	return prometheus.NewProcessCollector(opts)
}
