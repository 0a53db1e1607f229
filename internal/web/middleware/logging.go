// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/logging"
)

// Logger is an HTTP middleware that logs one structured entry per request.
//
// The logger comes from the request context, so entries carry the request
// id set by chi's RequestID middleware. Responses with a 5xx status log
// at warn.
//
// Log fields:
//   - method: HTTP method
//   - path: Request URL path
//   - status: HTTP response status code
//   - bytes: Response body size
//   - duration_ms: Request processing time in milliseconds
//   - ip: Client IP (RemoteAddr, already rewritten by TrustedRealIP)
//   - user_agent: Client user agent string
//   - session: Grid session id, on routes with an {id} parameter
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code and size
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", remoteHost(r.RemoteAddr),
			"user_agent", r.UserAgent(),
		}
		// Route params are only known after routing ran
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if id := rctx.URLParam("id"); id != "" {
				args = append(args, "session", id)
			}
		}

		logger := logging.FromContext(r.Context())
		if ww.status >= http.StatusInternalServerError {
			logger.Warn("request", args...)
			return
		}
		logger.Info("request", args...)
	})
}

// remoteHost strips the port from addr, if any.
func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// body size. Only the first WriteHeader call takes effect.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
