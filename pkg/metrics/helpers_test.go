package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPrometheusHandler_ServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", prometheusHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

func TestComputeApproximateRequestSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/questions", strings.NewReader("payload"))
	req.Header.Set("X-Request-ID", "abc")

	size := computeApproximateRequestSize(req)
	expected := len("/api/v1/questions") + len(http.MethodPost) + len(req.Proto) +
		len("X-Request-Id") + len("abc") + len("example.com") + len("payload")
	require.Equal(t, expected, size)
}

func TestComputeApproximateRequestSize_UnknownContentLength(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil)
	req.ContentLength = -1

	size := computeApproximateRequestSize(req)
	require.Equal(t, len("/healthz")+len(http.MethodGet)+len(req.Proto)+len("example.com"), size)
}

func TestMillisecondsSince(t *testing.T) {
	start := time.Now().Add(-250 * time.Millisecond)
	elapsed := MillisecondsSince(start)
	require.GreaterOrEqual(t, elapsed, 250.0)
	require.Less(t, elapsed, 5000.0)
}
