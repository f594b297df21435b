// Copyright 2024 Dolthub, Inc.
//
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

package blob

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opLabel = "op"

	opCreate = "create"
	opOpen   = "open"
	opRead   = "read"
	opWrite  = "write"
	opInfo   = "info"
	opClose  = "close"
)

// Metrics counts blob traffic. A nil *Metrics records nothing.
type Metrics struct {
	Segments    *prometheus.CounterVec
	Bytes       *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	EmptyReads  prometheus.Counter
	OpenHandles prometheus.Gauge
}

// NewMetrics creates unregistered collectors under |namespace|.
func NewMetrics(namespace string, labels prometheus.Labels) *Metrics {
	return &Metrics{
		Segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blob",
			Name:        "segments_total",
			Help:        "Blob segments transferred, by operation.",
			ConstLabels: labels,
		}, []string{opLabel}),
		Bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blob",
			Name:        "bytes_total",
			Help:        "Blob bytes transferred, by operation.",
			ConstLabels: labels,
		}, []string{opLabel}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blob",
			Name:        "errors_total",
			Help:        "Failed blob protocol calls, by operation.",
			ConstLabels: labels,
		}, []string{opLabel}),
		EmptyReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "blob",
			Name:        "empty_segments_total",
			Help:        "Zero length segments received while more data was pending.",
			ConstLabels: labels,
		}),
		OpenHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "blob",
			Name:        "open_handles",
			Help:        "Blob handles currently open.",
			ConstLabels: labels,
		}),
	}
}

// Register registers every collector with |reg|.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Segments, m.Bytes, m.Errors, m.EmptyReads, m.OpenHandles} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) segment(op string, n int) {
	if m == nil {
		return
	}
	m.Segments.WithLabelValues(op).Inc()
	m.Bytes.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) failed(op string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(op).Inc()
}

func (m *Metrics) empty() {
	if m == nil {
		return
	}
	m.EmptyReads.Inc()
}

func (m *Metrics) opened() {
	if m == nil {
		return
	}
	m.OpenHandles.Inc()
}

func (m *Metrics) closed() {
	if m == nil {
		return
	}
	m.OpenHandles.Dec()
}
