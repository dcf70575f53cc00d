package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(submissionsTotal.WithLabelValues("test-section", "consistent"))
	ObserveSubmission("test-section", 0.03, true)
	ObserveSubmission("test-section", 0.4, false)
	assert.Equal(t, before+1, testutil.ToFloat64(submissionsTotal.WithLabelValues("test-section", "consistent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(submissionsTotal.WithLabelValues("test-section", "inconsistent")))
}

func TestObserveComputation(t *testing.T) {
	ok := testutil.ToFloat64(computationsTotal.WithLabelValues("ok"))
	rejected := testutil.ToFloat64(computationsTotal.WithLabelValues("rejected"))
	ObserveComputation(true)
	ObserveComputation(false)
	ObserveComputation(false)
	assert.Equal(t, ok+1, testutil.ToFloat64(computationsTotal.WithLabelValues("ok")))
	assert.Equal(t, rejected+2, testutil.ToFloat64(computationsTotal.WithLabelValues("rejected")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest("/api/test", http.MethodGet, http.StatusOK, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ahp_http_requests_total{method="GET",route="/api/test",status="200"}`)
	assert.Contains(t, body, "ahp_http_request_duration_seconds_bucket")
}
