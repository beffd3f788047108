package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.QuoteSubmitted("created")
	c.QuoteSubmitted("created")
	c.QuoteSubmitted("rejected")
	c.ContentWritten()
	c.RoleDenied()
	c.RecordRateLimited()
	c.RecordRequest("POST", "/api/v1/quotes", 201, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.quoteSubmissions.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quoteSubmissions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.contentWrites))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.roleDenials))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/api/v1/quotes", "201")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).ContentWritten()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "site_content_writes_total 1")
}
