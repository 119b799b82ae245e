package http

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the cart routes. metricsManager may be nil, in which case
// /metrics is not mounted.
func NewRouter(h *CartHandler, log logger.Logger, metricsManager *metrics.MetricsManager) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(log, metricsManager))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metricsManager != nil {
		r.Handle("/metrics", metricsManager.Handler())
	}

	r.Get("/cart", h.HandleCartFragment)

	r.Get("/api/cart", h.HandleGetCart)
	r.Delete("/api/cart", h.HandleClearCart)
	r.Get("/api/cart/summary.txt", h.HandleSummary)
	r.Post("/api/cart/items", h.HandleAddItem)
	r.Post("/api/cart/items/{index}/increment", h.HandleIncrement)
	r.Post("/api/cart/items/{index}/decrement", h.HandleDecrement)

	r.Get("/api/catalog", h.HandleSearchCatalog)
	r.Post("/api/catalog/{id}/add", h.HandleAddCatalogProduct)

	return r
}
