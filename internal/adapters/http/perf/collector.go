// Package perf records request and query timings as prometheus metrics.
package perf

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
	KindUpload
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // route pattern, query op, or bucket name
	Method     string // HTTP method (requests only)
	StatusCode int    // HTTP status (requests only)
	Failed     bool   // uploads only
	DurationMs float64
}

// Collector owns a private prometheus registry.
// INVARIANT: label values are bounded (route patterns, op names, bucket names)
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.HistogramVec
	queries  *prometheus.HistogramVec
	uploads  *prometheus.CounterVec
	count    int64
}

// NewCollector creates a collector with Go runtime and process collectors registered.
// POST: Returns a ready-to-use collector
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "directory",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "directory",
			Name:      "db_query_duration_seconds",
			Help:      "Database call latency by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "object_uploads_total",
			Help:      "Object store uploads by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
	}
	c.registry.MustRegister(
		c.requests, c.queries, c.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Record observes an entry. Safe for concurrent use; a nil collector ignores entries.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.count, 1)
	seconds := e.DurationMs / 1000
	switch e.Kind {
	case KindRequest:
		c.requests.WithLabelValues(e.Method, e.Path, strconv.Itoa(e.StatusCode)).Observe(seconds)
	case KindQuery:
		c.queries.WithLabelValues(e.Path).Observe(seconds)
	case KindUpload:
		outcome := "ok"
		if e.Failed {
			outcome = "error"
		}
		c.uploads.WithLabelValues(e.Path, outcome).Inc()
	}
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Registry exposes the underlying registry for tests and extra collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
