// Package metrics exports an engine's run statistics as Prometheus gauges,
// counters and histograms, the same Registry-plus-promauto shape
// dd0wney-graphdb's pkg/metrics package uses (metrics.go/init_query.go):
// one struct field per collector, built once with promauto.With against a
// registry this package owns, so an embedder can mount it on its own
// HTTP handler rather than the global default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector the kernel reports. Construct one per
// process; every Engine started in that process records into it.
type Registry struct {
	registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec
	IterationsPerRun   prometheus.Histogram
	TimeToStability    prometheus.Histogram
	ComponentsUpdated  prometheus.Histogram
	PeakDirtyVNETs     prometheus.Histogram
	Warnings           *prometheus.CounterVec
	ActiveEngines      prometheus.Gauge
}

// NewRegistry builds a fresh collector set against its own prometheus
// registry (not the global default, so multiple engines in tests don't
// collide registering the same metric names twice).
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.RunsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaysim_runs_total",
			Help: "Total number of simulation runs, by outcome",
		},
		[]string{"outcome"}, // stable, oscillation, timeout
	)
	r.IterationsPerRun = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relaysim_run_iterations",
			Help:    "Run-loop iterations consumed reaching stability or aborting",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
	r.TimeToStability = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relaysim_time_to_stability_seconds",
			Help:    "Wall-clock time from start() to the first stable notification",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.ComponentsUpdated = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relaysim_components_updated",
			Help:    "Component Evaluate calls during a run, summed over iterations",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		},
	)
	r.PeakDirtyVNETs = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relaysim_peak_dirty_vnets",
			Help:    "Largest dirty-VNET set size observed during a run",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		},
	)
	r.Warnings = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaysim_warnings_total",
			Help: "WarningCondition occurrences, by kind",
		},
		[]string{"kind"},
	)
	r.ActiveEngines = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "relaysim_active_engines",
			Help: "Engines currently in the Running state",
		},
	)

	return r
}

// Gatherer exposes the underlying registry for mounting on an HTTP handler
// (promhttp.HandlerFor(reg.Gatherer(), ...)).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// RecordRun records one completed simulation run's final statistics.
func (r *Registry) RecordRun(outcome string, iterations int, elapsed time.Duration, componentsUpdated, peakDirty int) {
	r.RunsTotal.WithLabelValues(outcome).Inc()
	r.IterationsPerRun.Observe(float64(iterations))
	r.TimeToStability.Observe(elapsed.Seconds())
	r.ComponentsUpdated.Observe(float64(componentsUpdated))
	r.PeakDirtyVNETs.Observe(float64(peakDirty))
}

// RecordWarning increments the counter for a single WarningCondition kind.
func (r *Registry) RecordWarning(kind string) {
	r.Warnings.WithLabelValues(kind).Inc()
}

// EngineStarted/EngineStopped track the active-engine gauge across a
// process's lifetime.
func (r *Registry) EngineStarted() { r.ActiveEngines.Inc() }
func (r *Registry) EngineStopped() { r.ActiveEngines.Dec() }
