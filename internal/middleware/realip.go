package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRealIP rewrites RemoteAddr from X-Forwarded-For / X-Real-IP only when
// trustProxy is set. Those headers are client-controlled, so without a
// trusted reverse proxy in front RemoteAddr is left as the TCP peer and the
// rate limiter keys on it.
func NewRealIP(trustProxy bool) func(http.Handler) http.Handler {
	if trustProxy {
		return chimiddleware.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}
