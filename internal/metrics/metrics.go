// Package metrics defines the Prometheus collectors shared by the executor,
// the read cache and the reconciler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// External process metrics
	ExecTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirctl_exec_total",
			Help: "Total number of external command invocations by outcome",
		},
		[]string{"outcome"}, // success, nonzero_exit, timeout, not_found, dry_run, rejected_input
	)

	ExecDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dirctl_exec_duration_seconds",
			Help:    "Wall time of external command invocations",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	ExecInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dirctl_exec_in_flight",
			Help: "External processes currently running",
		},
	)

	// Read cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirctl_cache_lookups_total",
			Help: "Directory read cache lookups by result",
		},
		[]string{"result"}, // fresh, stale, miss
	)

	// Reconciliation metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dirctl_sync_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"entity", "status"}, // status: success or error
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dirctl_sync_duration_seconds",
			Help:    "Time taken by a complete reconciliation run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"entity"},
	)

	SyncEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dirctl_sync_entities",
			Help: "Entities seen and updated by the last reconciliation run",
		},
		[]string{"entity", "kind"}, // kind: total or updated
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
