// Package server contains misc server utilities.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// Logger is a chi middleware which logs every request once it has been
// served, at info level for successes and warn level for errors
func Logger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"remote", r.RemoteAddr,
			}
			if status >= http.StatusBadRequest {
				log.Warnw("request failed", fields...)
				return
			}
			log.Infow("request", fields...)
		})
	}
}
