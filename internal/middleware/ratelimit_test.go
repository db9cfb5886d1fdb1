package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(rps rate.Limit, burst int) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimit(rps, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	r := rateLimitedRouter(rate.Limit(0), 3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234").Code)
	}

	w := hit(r, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "Too many requests.")
}

func TestRateLimit_TracksClientsSeparately(t *testing.T) {
	r := rateLimitedRouter(rate.Limit(0), 1)

	require.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:5678").Code, "same IP, different port shares one bucket")
	require.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1234").Code)
}

func TestRateLimit_SpawnsNoGoroutine(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 10; i++ {
		mw := RateLimit(rate.Limit(1), 1)
		_ = mw
	}

	require.LessOrEqual(t, runtime.NumGoroutine(), before, "constructing limiters must not leak goroutines")
}
