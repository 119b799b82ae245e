package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func RequestLogger(log logger.Logger, metricsManager *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.With(
				"request_id", chimiddleware.GetReqID(r.Context()),
				"method", r.Method,
				"route", route,
				"status", status,
				"duration", elapsed,
			).Info("HTTP request handled")

			if metricsManager != nil {
				metricsManager.HTTPRequestLatency.
					WithLabelValues(route, strconv.Itoa(status)).
					Observe(elapsed.Seconds())
			}
		})
	}
}
