package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/haasp-labs/recall/internal/logger"
)

// requestIDHeader carries the request id on requests and responses.
const requestIDHeader = "X-Request-ID"

// requestIDMiddleware assigns each request an id (keeping one supplied
// by the caller) and logs the request when verbose mode is on.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s id=%s took=%s", r.Method, r.URL.Path, id, time.Since(start))
	})
}

// rateLimitMiddleware rejects requests over the configured budget with
// 429. A nil limiter disables limiting.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, apiError{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
