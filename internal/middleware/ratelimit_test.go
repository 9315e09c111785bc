package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/internal/middleware"
)

func serveFrom(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

// TestRateLimiter_BurstThenReject verifies that an IP may spend its burst and
// is then rejected with 429.
func TestRateLimiter_BurstThenReject(t *testing.T) {
	h := middleware.NewRateLimiter(3).Handler(trivialHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1234"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:5678"))
}

// TestRateLimiter_PerIP verifies that one noisy client does not throttle another.
func TestRateLimiter_PerIP(t *testing.T) {
	h := middleware.NewRateLimiter(1).Handler(trivialHandler)

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.0.0.1:2"))
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:1"))
}

// TestRateLimiter_Disabled verifies that a non-positive rate never rejects.
func TestRateLimiter_Disabled(t *testing.T) {
	h := middleware.NewRateLimiter(0).Handler(trivialHandler)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.1:1"))
	}
}
