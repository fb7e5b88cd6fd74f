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

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/v1/semesters", "200"))
	RecordRequest("GET", "/api/v1/semesters", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/v1/semesters", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(ChatUpstreamRequests.WithLabelValues("chat", OutcomeTransport))
	RecordUpstream("chat", OutcomeTransport)
	assert.Equal(t, before+1, testutil.ToFloat64(ChatUpstreamRequests.WithLabelValues("chat", OutcomeTransport)))
}

func TestHandler(t *testing.T) {
	RecordRequest("GET", "/ping", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
