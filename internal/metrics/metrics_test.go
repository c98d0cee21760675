package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveSubmission("site", OutcomeAccepted)
	m.ObserveSubmission("site", OutcomeAccepted)
	m.ObserveSubmission("site", OutcomeInvalid)
	m.ObserveRateLimited()
	m.ObserveDelivery("webhook", nil, 10*time.Millisecond)
	m.ObserveDelivery("admin_email", errors.New("down"), time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("site", OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("site", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("webhook", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("admin_email", "failure")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission("site", OutcomeAccepted)
	m.ObserveRateLimited()
	m.ObserveDelivery("webhook", nil, time.Second)
	m.ObserveHTTP("GET", "/", "200", time.Second)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/:appId", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `formrelay_http_requests_total{method="POST",route="/:appId",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
