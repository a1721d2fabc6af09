// Package metrics exposes Prometheus metrics for timeline extraction, article fetching and
// the HTTP API. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/wikitime/internal/timeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wikitime"

// Extraction results.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
)

// Article fetch sources.
const (
	SourceCache     = "cache"
	SourceStorage   = "storage"
	SourceWikipedia = "wikipedia"
)

// Metrics holds the wikitime collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Extractions        *prometheus.CounterVec
	TimelineEvents     prometheus.Histogram
	ExtractionDuration prometheus.Histogram
	ScannerCandidates  *prometheus.CounterVec
	ScannerFailures    *prometheus.CounterVec
	ArticleFetches     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all collectors, plus Go runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Extractions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Timeline extractions by result (ok, empty)",
		}, []string{"result"}),
		TimelineEvents: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "timeline_events",
			Help:      "Number of events per extracted timeline",
			Buckets:   []float64{0, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time to extract a timeline from one article",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
		ScannerCandidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanner_candidates_total",
			Help:      "Candidate events emitted per scanner",
		}, []string{"scanner"}),
		ScannerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanner_failures_total",
			Help:      "Scanner runs aborted by a failure",
		}, []string{"scanner"}),
		ArticleFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_fetch_total",
			Help:      "Article loads by source (cache, storage, wikipedia)",
		}, []string{"source"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveExtraction records one extraction report.
func (m *Metrics) ObserveExtraction(report *timeline.Report) {
	if m == nil || report == nil || report.Dataset == nil {
		return
	}
	result := ResultOK
	if report.Dataset.IsEmpty() {
		result = ResultEmpty
	}
	m.Extractions.WithLabelValues(result).Inc()
	m.TimelineEvents.Observe(float64(len(report.Dataset.Events)))
	m.ExtractionDuration.Observe(report.Duration.Seconds())
	for name, n := range report.Candidates {
		m.ScannerCandidates.WithLabelValues(name).Add(float64(n))
	}
	for _, name := range report.Failed {
		m.ScannerFailures.WithLabelValues(name).Inc()
	}
}

// ArticleFetched records where an article was loaded from.
func (m *Metrics) ArticleFetched(source string) {
	if m == nil {
		return
	}
	m.ArticleFetches.WithLabelValues(source).Inc()
}

// Middleware records request counts and latency labeled by the matched chi route pattern,
// so /api/v1/timeline/{title} is one series regardless of title.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
