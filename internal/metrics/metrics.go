// Package metrics exposes the engine's Prometheus instrumentation,
// ported from the teacher's internal/service/metrics_service.go but
// scoped to what C2-C6 actually produce: solver run stats, conflict
// counts by severity, and SIS cache hit ratio.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// Metrics encapsulates every collector the engine registers. A nil
// *Metrics degrades every method to a no-op, the same "optional
// instrumentation" shape the teacher's MetricsService uses.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	solveDuration    *prometheus.HistogramVec
	solveIterations  *prometheus.HistogramVec
	solveOutcomes    *prometheus.CounterVec
	conflictsBySev   *prometheus.GaugeVec
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	httpRequestTotal *prometheus.CounterVec
	httpRequestSecs  *prometheus.HistogramVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// New builds and registers the engine's collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sched_solve_duration_seconds",
		Help:    "Duration of a C5 solve call, by algorithm",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"algorithm"})

	solveIterations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sched_solve_iterations",
		Help:    "Number of search iterations a solve performed, by algorithm",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"algorithm"})

	solveOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sched_solve_outcomes_total",
		Help: "Solve outcomes by result: feasible, infeasible, cancelled",
	}, []string{"outcome"})

	conflictsBySev := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sched_schedule_conflicts",
		Help: "Conflicts on the most recently validated schedule, by severity",
	}, []string{"severity"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sched_sis_cache_hit_ratio",
		Help: "Ratio of SIS cache hits to total SIS cache lookups",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sched_sis_cache_hits_total",
		Help: "Total SIS cache hits",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sched_sis_cache_misses_total",
		Help: "Total SIS cache misses",
	})

	httpRequestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sched_http_requests_total",
		Help: "Total HTTP requests handled by the engine's API",
	}, []string{"method", "path", "status"})
	httpRequestSecs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sched_http_request_duration_seconds",
		Help:    "Duration of HTTP requests handled by the engine's API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registry.MustRegister(
		solveDuration, solveIterations, solveOutcomes, conflictsBySev,
		cacheHitRatio, cacheHits, cacheMisses, httpRequestTotal, httpRequestSecs,
	)

	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solveDuration:    solveDuration,
		solveIterations:  solveIterations,
		solveOutcomes:    solveOutcomes,
		conflictsBySev:   conflictsBySev,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		httpRequestTotal: httpRequestTotal,
		httpRequestSecs:  httpRequestSecs,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveSolve records one C5 solve call's duration, iteration count, and
// outcome.
func (m *Metrics) ObserveSolve(algorithm string, duration time.Duration, iterations int, feasible, cancelled bool) {
	if m == nil {
		return
	}
	m.solveDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.solveIterations.WithLabelValues(algorithm).Observe(float64(iterations))

	outcome := "infeasible"
	switch {
	case cancelled:
		outcome = "cancelled"
	case feasible:
		outcome = "feasible"
	}
	m.solveOutcomes.WithLabelValues(outcome).Inc()
}

// SetConflictCounts publishes the latest validateSchedule severity
// breakdown as gauges, overwriting the previous snapshot.
func (m *Metrics) SetConflictCounts(counts map[domain.Severity]int) {
	if m == nil {
		return
	}
	for _, sev := range []domain.Severity{
		domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow, domain.SeverityInfo,
	} {
		m.conflictsBySev.WithLabelValues(string(sev)).Set(float64(counts[sev]))
	}
}

// RecordCacheLookup updates the SIS cache hit/miss counters and the
// derived hit ratio gauge.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveHTTPRequest records one handled request's outcome and latency.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.httpRequestTotal.WithLabelValues(method, path, labelStatus).Inc()
	m.httpRequestSecs.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
}
