// Package metrics publishes Prometheus counters for the site backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests can construct recorders freely
// without colliding with the global default registerer. All record methods
// are safe on a nil Recorder.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codeteak",
		Subsystem: "contact",
		Name:      "submissions_total",
		Help:      "Contact-form submissions by outcome (stored, rejected, failed).",
	}, []string{"outcome"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codeteak",
		Subsystem: "notify",
		Name:      "dispatches_total",
		Help:      "Fire-and-forget notification attempts by kind and outcome.",
	}, []string{"kind", "outcome"})

	cacheRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codeteak",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Read-through cache lookups by cache name and result.",
	}, []string{"cache", "result"})

	reg.MustRegister(submissions, notifications, cacheRequests)

	return &Recorder{
		gatherer:      reg,
		handler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		submissions:   submissions,
		notifications: notifications,
		cacheRequests: cacheRequests,
	}
}

// Handler exposes the Prometheus scrape endpoint for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Submission records a contact-form submission outcome.
func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// Notification records one notification dispatch attempt.
func (r *Recorder) Notification(kind, outcome string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(kind, outcome).Inc()
}

// CacheRequest records one read-through cache lookup.
func (r *Recorder) CacheRequest(cache, result string) {
	if r == nil {
		return
	}
	r.cacheRequests.WithLabelValues(cache, result).Inc()
}
