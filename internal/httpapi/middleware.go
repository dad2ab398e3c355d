package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// requestLogger records method, path, status and duration for every request.
func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	logger = logging.Ensure(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := r.Context()
			if id := middleware.GetReqID(ctx); id != "" {
				ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": id})
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry := logger.WithContext(ctx)
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				entry.Warn("http.request", args...)
				return
			}
			entry.Info("http.request", args...)
		})
	}
}
