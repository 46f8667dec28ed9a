package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type statusCapturingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusCapturingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusCapturingResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// logFields collects attributes added by inner handlers so the access log
// line can carry them (session id, editor kind, ...).
type logFields struct {
	mu    sync.Mutex
	attrs []any
}

// AddLogAttrs attaches key/value pairs to the access log line of the current
// request. It is a no-op outside WithAccessLog.
func AddLogAttrs(ctx context.Context, args ...any) {
	f, _ := ctx.Value(ctxKeyLogFields).(*logFields)
	if f == nil {
		return
	}
	f.mu.Lock()
	f.attrs = append(f.attrs, args...)
	f.mu.Unlock()
}

func WithAccessLog(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusCapturingResponseWriter{ResponseWriter: w}
			fields := &logFields{}
			ctx := context.WithValue(r.Context(), ctxKeyLogFields, fields)

			next.ServeHTTP(sw, r.WithContext(ctx))

			args := []any{
				"request_id", RequestIDFromContext(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			fields.mu.Lock()
			args = append(args, fields.attrs...)
			fields.mu.Unlock()
			logger.Info("http request", args...)
		})
	}
}
