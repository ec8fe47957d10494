package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedEngine(t *testing.T, perMin int, trusted []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(trusted))
	r.Use(RateLimitMiddleware(perMin))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func request(r *gin.Engine, remote, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	r := limitedEngine(t, 2, nil)

	assert.Equal(t, http.StatusOK, request(r, "10.0.0.1:1000", ""))
	assert.Equal(t, http.StatusOK, request(r, "10.0.0.1:1001", ""))
	assert.Equal(t, http.StatusTooManyRequests, request(r, "10.0.0.1:1002", ""))
	assert.Equal(t, http.StatusOK, request(r, "10.0.0.2:1000", ""))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	r := limitedEngine(t, 2, nil)

	assert.Equal(t, http.StatusOK, request(r, "203.0.113.7:1000", "1.1.1.1"))
	assert.Equal(t, http.StatusOK, request(r, "203.0.113.7:1000", "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, request(r, "203.0.113.7:1000", "3.3.3.3"))
}

func TestRateLimitHonoursForwardedForFromTrustedProxy(t *testing.T) {
	r := limitedEngine(t, 1, []string{"10.0.0.0/8"})

	assert.Equal(t, http.StatusOK, request(r, "10.1.1.1:1000", "1.1.1.1"))
	assert.Equal(t, http.StatusOK, request(r, "10.1.1.1:1000", "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, request(r, "10.1.1.1:1000", "1.1.1.1"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))

	var got *zap.Logger
	r.GET("/api/slots", func(c *gin.Context) {
		l, ok := c.Get("logger")
		require.True(t, ok)
		got, _ = l.(*zap.Logger)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/slots", nil))

	assert.NotNil(t, got)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "/api/slots", fields["path"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), fields["requestId"])
}
