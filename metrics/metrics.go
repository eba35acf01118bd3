// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	approvalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "approval",
		Name:      "decisions_total",
		Help:      "Approval decisions by outcome. Rejected races are counted as conflict.",
	}, []string{"status"})

	approvalSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "approval",
		Name:      "submissions_total",
		Help:      "Approval submissions, split into new requests and refreshes.",
	}, []string{"kind"})
)

func ObserveHTTP(route, method, code string, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, code).Inc()
	httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func RecordDecision(status string) {
	approvalDecisions.WithLabelValues(status).Inc()
}

func RecordSubmission(refreshed bool) {
	kind := "created"
	if refreshed {
		kind = "refreshed"
	}
	approvalSubmissions.WithLabelValues(kind).Inc()
}
