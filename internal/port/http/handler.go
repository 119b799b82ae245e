package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/catalog"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/render"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/service"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	itemAddedMessage = "Item added to cart!"

	maxAddItemBodyBytes = 16 << 10
)

// Fragmenter exposes the last rendered cart markup.
type Fragmenter interface {
	HTML() string
}

type CartHandler struct {
	cartService service.CartService
	catalog     *catalog.Catalog
	fragments   Fragmenter
	symbol      string
	log         logger.Logger
}

func NewCartHandler(
	cartService service.CartService,
	productCatalog *catalog.Catalog,
	fragments Fragmenter,
	symbol string,
	log logger.Logger,
) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		catalog:     productCatalog,
		fragments:   fragments,
		symbol:      symbol,
		log:         log,
	}
}

type addItemRequest struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type cartResponse struct {
	render.CartView
	Message   string `json:"message,omitempty"`
	Warning   string `json:"warning,omitempty"`
	Persisted bool   `json:"persisted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, h.cartService.State(), nil, "")
}

func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAddItemBodyBytes)
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for AddItem: %v", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		h.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	price, err := catalog.ParsePrice(req.Price, h.symbol)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.cartService.AddItem(r.Context(), title, price, req.Image)
	h.writeCart(w, state, err, itemAddedMessage)
}

func (h *CartHandler) HandleIncrement(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartService.IncrementRaw(r.Context(), chi.URLParam(r, "index"))
	h.writeCart(w, state, err, "")
}

func (h *CartHandler) HandleDecrement(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartService.DecrementRaw(r.Context(), chi.URLParam(r, "index"))
	h.writeCart(w, state, err, "")
}

func (h *CartHandler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.cartService.ClearAll(r.Context())
	h.writeCart(w, state, err, "")
}

func (h *CartHandler) HandleCartFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.fragments.HTML()))
}

func (h *CartHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	state := h.cartService.State()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cart_summary.txt"`)
	_, _ = w.Write([]byte(render.TextSummary(h.symbol, state.Items, state.Totals)))
}

func (h *CartHandler) HandleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.Search(r.URL.Query().Get("q")))
}

func (h *CartHandler) HandleAddCatalogProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	price, err := catalog.ParsePrice(product.Price, h.symbol)
	if err != nil {
		h.log.Errorf("Catalog product %s has an unparsable price %q: %v", id, product.Price, err)
		h.writeError(w, http.StatusInternalServerError, "catalog price is invalid")
		return
	}

	state, err := h.cartService.AddItem(r.Context(), product.Title, price, product.Image)
	h.writeCart(w, state, err, itemAddedMessage)
}

// writeCart always answers with the state the operation produced. A
// persistence failure is logged and reported through the persisted flag and
// a warning.
func (h *CartHandler) writeCart(w http.ResponseWriter, state service.CartState, opErr error, message string) {
	resp := cartResponse{
		CartView:  render.NewCartView(h.symbol, state.Items, state.Totals),
		Message:   message,
		Persisted: opErr == nil,
	}
	if opErr != nil {
		h.log.Errorf("Cart operation was applied but not persisted: %v", opErr)
		resp.Warning = persistWarning(opErr)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func persistWarning(err error) string {
	switch {
	case errors.Is(err, repository.ErrSaveFailed):
		return "Your cart could not be saved and may be lost on reload."
	case errors.Is(err, repository.ErrDeleteFailed):
		return "Your cart was emptied but may reappear on reload."
	default:
		return "Your cart could not be stored."
	}
}

func (h *CartHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *CartHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
