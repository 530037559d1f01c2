// Package metrics provides Prometheus metrics for deskwing.
//
// Metrics describe the launcher side only: worker lifecycle, readiness
// probing, and startup timing. The metrics endpoint is opt-in via the
// -metrics flag.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	deskwingInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deskwing_info",
			Help: "Information about this deskwing build (value always 1)",
		},
		[]string{"version"},
	)

	workerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deskwing_worker_state",
			Help: "Current worker state (0=idle 1=starting 2=running 3=stopping 4=stopped)",
		},
	)

	workerStartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deskwing_worker_starts_total",
			Help: "Total worker processes started",
		},
	)

	workerExitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskwing_worker_exits_total",
			Help: "Total worker exits by exit code",
		},
		[]string{"exit_code"},
	)

	probeAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deskwing_probe_attempts_total",
			Help: "Total readiness probe connection attempts",
		},
	)

	timeToReadySeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deskwing_time_to_ready_seconds",
			Help: "Seconds from worker spawn until the UI server accepted a connection",
		},
	)
)

var registerOnce sync.Once

// Collector is the handle through which the launcher records metrics.
// Creating one registers the metric set with the default registry.
type Collector struct{}

// NewCollector registers all metrics and returns a Collector. Registration
// happens once; subsequent calls reuse the registered set.
func NewCollector(version string) *Collector {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			deskwingInfo,
			workerState,
			workerStartsTotal,
			workerExitsTotal,
			probeAttemptsTotal,
			timeToReadySeconds,
		)
	})
	deskwingInfo.WithLabelValues(version).Set(1)
	return &Collector{}
}

// SetState records the worker lifecycle state as its ordinal.
func (c *Collector) SetState(state int) {
	workerState.Set(float64(state))
}

// IncWorkerStart counts a worker spawn.
func (c *Collector) IncWorkerStart() {
	workerStartsTotal.Inc()
}

// ObserveExit counts a worker exit under its exit code.
func (c *Collector) ObserveExit(exitCode int) {
	workerExitsTotal.WithLabelValues(strconv.Itoa(exitCode)).Inc()
}

// AddProbeAttempts adds the probe attempts from one readiness wait.
func (c *Collector) AddProbeAttempts(n int) {
	probeAttemptsTotal.Add(float64(n))
}

// SetTimeToReady records the spawn-to-ready duration.
func (c *Collector) SetTimeToReady(d time.Duration) {
	timeToReadySeconds.Set(d.Seconds())
}
