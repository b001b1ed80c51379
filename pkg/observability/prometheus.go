package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "relocator"

// Outcome labels of relocator_solver_solves_total.
const (
	OutcomeOptimal = "optimal"
	OutcomeTimeout = "timeout"
	OutcomeCached  = "cached"
	OutcomeError   = "error"
)

// Prometheus records every hook event as Prometheus metrics.
type Prometheus struct {
	solves      *prometheus.CounterVec
	inFlight    prometheus.Gauge
	duration    prometheus.Histogram
	nodes       prometheus.Histogram
	relocations prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Histogram

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
}

// NewPrometheus creates the metrics and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "Finished solves by outcome",
		}, []string{"outcome"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "in_flight",
			Help:      "Solves currently running",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "duration_seconds",
			Help:      "Wall clock time of a solve",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		nodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "nodes",
			Help:      "Search nodes expanded per solve",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 10),
		}),
		relocations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "relocations",
			Help:      "Length of the returned relocation sequence",
			Buckets:   prometheus.LinearBuckets(0, 5, 12),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entry_bytes",
			Help:      "Size of written cache entries",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
}

// OnSolveStart implements SolverHooks.
func (p *Prometheus) OnSolveStart(context.Context, int, int, int) {
	p.inFlight.Inc()
}

// OnSolveComplete implements SolverHooks.
func (p *Prometheus) OnSolveComplete(_ context.Context, r SolveResult, err error) {
	p.inFlight.Dec()
	switch {
	case err != nil:
		p.solves.WithLabelValues(OutcomeError).Inc()
		return
	case r.Cached:
		p.solves.WithLabelValues(OutcomeCached).Inc()
		return
	case r.TimedOut:
		p.solves.WithLabelValues(OutcomeTimeout).Inc()
	default:
		p.solves.WithLabelValues(OutcomeOptimal).Inc()
	}
	p.duration.Observe(r.Duration.Seconds())
	p.nodes.Observe(float64(r.Nodes))
	p.relocations.Observe(float64(r.Relocations))
}

// OnCacheHit implements CacheHooks.
func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Observe(float64(size))
}

// OnRequest implements HTTPHooks.
func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.requestsActive.Inc()
}

// OnResponse implements HTTPHooks.
func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.requestsActive.Dec()
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var _ AllHooks = (*Prometheus)(nil)
