package middleware

import (
	"net/http"
	"time"

	"squad-backend/pkg/observability"

	"github.com/go-chi/chi/v5/middleware"
)

// Metrics records per-request CloudWatch metrics. A nil recorder turns the
// middleware into a pass-through.
func Metrics(m *observability.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.RecordRequest(r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
