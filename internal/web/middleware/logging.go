// Package middleware provides HTTP middleware for the dashboard server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/leadintake/internal/logging"
)

// Logger logs one line per request with chi's request id attached.
// Server errors log at error level, client errors at warn.
//
// Log fields:
//   - method, path, status
//   - duration_ms: time spent in the handler chain
//   - ip: client address after TrustedRealIP
//   - admin: the logged-in admin's email, when there is one
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		fields := &requestFields{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestFieldsKey{}, fields)))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
		}
		if fields.admin != "" {
			attrs = append(attrs, "admin", fields.admin)
		}

		level := slog.LevelInfo
		switch {
		case ww.status >= 500:
			level = slog.LevelError
		case ww.status >= 400:
			level = slog.LevelWarn
		}
		logging.FromContext(r.Context()).Log(r.Context(), level, "request", attrs...)
	})
}

// requestFields carries values set further down the chain back to Logger.
type requestFields struct {
	admin string
}

type requestFieldsKey struct{}

// annotateAdmin records the logged-in admin for the access log line.
func annotateAdmin(ctx context.Context, email string) {
	if f, ok := ctx.Value(requestFieldsKey{}).(*requestFields); ok {
		f.admin = email
	}
}

// responseWriter captures the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
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
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
