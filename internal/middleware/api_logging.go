package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"garage-backend/internal/auth"
)

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// APILogging writes one log line per API request with the signed-in user.
// The session is read after the handler chain ran, so it must wrap the
// router rather than sit behind Authenticate.
func APILogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		holder := &sessionHolder{}
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(withSessionHolder(r.Context(), holder)))

		user := "-"
		if holder.session != nil {
			user = holder.session.Username
		}
		log.Printf("[API] %s %s %d %dB %s user=%s ip=%s",
			r.Method, sanitizePath(r.URL.Path), wrapped.statusCode, wrapped.bytesWritten,
			time.Since(start).Round(time.Millisecond), user, ClientIP(r))
	})
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath truncates very long paths
func sanitizePath(path string) string {
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// sessionHolder lets Authenticate report the session back to APILogging
type sessionHolder struct {
	session *auth.Session
}

type holderKey struct{}

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

func recordSession(ctx context.Context, s *auth.Session) {
	if h, ok := ctx.Value(holderKey{}).(*sessionHolder); ok {
		h.session = s
	}
}
