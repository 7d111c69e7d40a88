package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger is a chi middleware that writes one access log line per
// request through logger.
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				}
				if reqID := middleware.GetReqID(r.Context()); reqID != "" {
					args = append(args, "request_id", reqID)
				}
				if status >= http.StatusInternalServerError {
					logger.Error(r.Context(), "request failed", args...)
					return
				}
				logger.Info(r.Context(), "request", args...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
