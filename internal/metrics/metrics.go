// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// submissionsTotal counts stored responses by section and consistency verdict
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_submissions_total",
		Help: "Stored AHP responses by section and consistency",
	}, []string{"section", "consistency"})

	// consistencyRatio tracks the CR of stored responses
	consistencyRatio = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ahp_consistency_ratio",
		Help:    "Consistency ratio of stored responses",
		Buckets: []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.2, 0.3, 0.5, 1},
	}, []string{"section"})

	// computationsTotal counts engine runs by outcome
	computationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_computations_total",
		Help: "AHP computations by outcome",
	}, []string{"result"})

	// httpRequestsTotal counts HTTP requests by route, method and status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// httpRequestDuration tracks request latency
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ahp_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"route"})
)

// ObserveSubmission records one stored response.
func ObserveSubmission(section string, cr float64, consistent bool) {
	verdict := "inconsistent"
	if consistent {
		verdict = "consistent"
	}
	submissionsTotal.WithLabelValues(section, verdict).Inc()
	consistencyRatio.WithLabelValues(section).Observe(cr)
}

// ObserveComputation records an engine run that succeeded (ok) or was rejected.
func ObserveComputation(ok bool) {
	if ok {
		computationsTotal.WithLabelValues("ok").Inc()
		return
	}
	computationsTotal.WithLabelValues("rejected").Inc()
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
