// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package metrics exposes Prometheus instrumentation for task runs. The
// agent accepts a *Metrics optionally; a nil receiver disables recording so
// library users pay nothing when they do not scrape.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all media-agent series.
type Metrics struct {
	TasksTotal    *prometheus.CounterVec
	TaskDuration  prometheus.Histogram
	StepsTotal    *prometheus.CounterVec
	PhaseDuration *prometheus.HistogramVec
}

// New registers all series on the given registerer under the namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_total",
				Help:      "Task runs by outcome",
			},
			[]string{"outcome"},
		),
		TaskDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "End-to-end task run duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Plan steps by disposition",
			},
			[]string{"status"},
		),
		PhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Per-phase duration in seconds",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"phase"},
		),
	}
}

// ObserveTask records one finished task run.
func (m *Metrics) ObserveTask(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.TasksTotal.WithLabelValues(outcome).Inc()
	m.TaskDuration.Observe(d.Seconds())
}

// ObserveStep records one step disposition ("executed", "failed",
// "skipped").
func (m *Metrics) ObserveStep(status string) {
	if m == nil {
		return
	}
	m.StepsTotal.WithLabelValues(status).Inc()
}

// ObservePhase records one phase duration.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}
