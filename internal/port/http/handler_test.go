package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/memory"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/catalog"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/render"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router http.Handler
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNopLogger()
	store := memory.NewStore()
	renderer := render.NewHTMLRenderer("₱", log)
	m := metrics.NewMetricsManager("test")
	svc := service.NewCartService(
		context.Background(),
		memory.NewCartSnapshotRepository(store, "cart"),
		renderer,
		nats.NewNoopPublisher(),
		m,
		log,
		service.CartServiceConfig{Pricing: entity.DefaultPricing(), CurrencySymbol: "₱"},
	)
	cat, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)

	h := NewCartHandler(svc, cat, renderer, "₱", log)
	return &testServer{router: NewRouter(h, log, m), store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, cartResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp cartResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestCartHandler_AddIncrementDecrementFlow(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"₱100.00","image":"b.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item added to cart!", resp.Message)
	assert.True(t, resp.Persisted)

	s.do(t, http.MethodPost, "/api/cart/items", `{"title":"Fries","price":"50","image":"f.png"}`)
	_, resp = s.do(t, http.MethodPost, "/api/cart/items/0/increment", "")

	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "₱250.00", resp.Totals.Subtotal)
	assert.Equal(t, "₱6.25", resp.Totals.Tax)
	assert.Equal(t, "₱50.00", resp.Totals.Shipping)
	assert.Equal(t, "₱306.25", resp.Totals.GrandTotal)
	assert.Equal(t, 3, resp.Totals.ItemCount)

	_, resp = s.do(t, http.MethodPost, "/api/cart/items/1/decrement", "")
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Burger", resp.Items[0].Title)
}

func TestCartHandler_StaleAndNonNumericIndex(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"100"}`)

	for _, path := range []string{
		"/api/cart/items/7/increment",
		"/api/cart/items/-1/decrement",
		"/api/cart/items/abc/increment",
	} {
		rec, resp := s.do(t, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Len(t, resp.Items, 1, path)
		assert.Equal(t, 1, resp.Items[0].Quantity, path)
	}
}

func TestCartHandler_AddItemValidation(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{
		`{"title":"","price":"10"}`,
		`{"title":"Burger","price":"free"}`,
		`{"title":"Burger","price":"1e9"}`,
		`{"title":"Burger","price":"₱1e2000000000"}`,
		`{"title":"Burger","price":"1,000,000,000,000"}`,
		`{"title":"Burger","price":"0.000000001"}`,
		`not json`,
	} {
		rec, _ := s.do(t, http.MethodPost, "/api/cart/items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	_, resp := s.do(t, http.MethodGet, "/api/cart", "")
	assert.True(t, resp.Empty)
}

func TestCartHandler_AddItemRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)
	body := `{"title":"` + strings.Repeat("a", maxAddItemBodyBytes) + `","price":"10"}`

	rec, _ := s.do(t, http.MethodPost, "/api/cart/items", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, ok := s.store.Get("cart")
	assert.False(t, ok)
}

func TestCartHandler_ClearErasesSnapshot(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"100"}`)
	_, ok := s.store.Get("cart")
	require.True(t, ok)

	rec, resp := s.do(t, http.MethodDelete, "/api/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Empty)
	assert.Equal(t, "₱0.00", resp.Totals.GrandTotal)
	_, ok = s.store.Get("cart")
	assert.False(t, ok)
}

func TestCartHandler_FragmentAndSummary(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/catalog/ube-cake/add", "")

	rec, _ := s.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ube Cake")
	assert.Contains(t, rec.Body.String(), `<span class="cart-count">1</span>`)

	rec, _ = s.do(t, http.MethodGet, "/api/cart/summary.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "- Ube Cake (x1) @ ₱210.00 = ₱210.00")
}

func TestCartHandler_Catalog(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog?q=PANCIT", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "pancit-canton", products[0].ID)

	rec, _ = s.do(t, http.MethodPost, "/api/catalog/nope/add", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"100"}`)

	rec, _ := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_cart_mutations_total{operation="add"} 1`)
}

// fixedCartService answers AddItem and ClearAll with canned results and
// State with a different cart, standing in for a concurrent writer.
type fixedCartService struct {
	service.CartService
	result service.CartState
	err    error
	latest service.CartState
}

func (f *fixedCartService) AddItem(context.Context, string, decimal.Decimal, string) (service.CartState, error) {
	return f.result, f.err
}

func (f *fixedCartService) ClearAll(context.Context) (service.CartState, error) {
	return f.result, f.err
}

func (f *fixedCartService) State() service.CartState {
	return f.latest
}

func newFixedServer(t *testing.T, svc service.CartService) http.Handler {
	t.Helper()
	log := logger.NewNopLogger()
	cat, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	h := NewCartHandler(svc, cat, render.NewHTMLRenderer("₱", log), "₱", log)
	return NewRouter(h, log, nil)
}

func postJSON(t *testing.T, router http.Handler, method, path, body string) cartResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCartHandler_RespondsWithStateOfTheOperation(t *testing.T) {
	burger := entity.LineItem{Title: "Burger", UnitPrice: decimal.NewFromInt(100), Quantity: 1}
	fries := entity.LineItem{Title: "Fries", UnitPrice: decimal.NewFromInt(50), Quantity: 1}
	svc := &fixedCartService{
		result: service.CartState{
			Items:  []entity.LineItem{burger},
			Totals: entity.ComputeTotals([]entity.LineItem{burger}, entity.DefaultPricing()),
		},
		latest: service.CartState{
			Items:  []entity.LineItem{burger, fries},
			Totals: entity.ComputeTotals([]entity.LineItem{burger, fries}, entity.DefaultPricing()),
		},
	}

	resp := postJSON(t, newFixedServer(t, svc), http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"100"}`)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Burger", resp.Items[0].Title)
	assert.Equal(t, "₱152.50", resp.Totals.GrandTotal)
	assert.True(t, resp.Persisted)
	assert.Empty(t, resp.Warning)
}

func TestCartHandler_PersistenceWarnings(t *testing.T) {
	router := newFixedServer(t, &fixedCartService{
		err: fmt.Errorf("could not save cart: %w", repository.ErrSaveFailed),
	})
	resp := postJSON(t, router, http.MethodPost, "/api/cart/items", `{"title":"Burger","price":"100"}`)
	assert.False(t, resp.Persisted)
	assert.Contains(t, resp.Warning, "could not be saved")

	router = newFixedServer(t, &fixedCartService{
		err: fmt.Errorf("could not clear cart: %w", repository.ErrDeleteFailed),
	})
	resp = postJSON(t, router, http.MethodDelete, "/api/cart", "")
	assert.False(t, resp.Persisted)
	assert.Contains(t, resp.Warning, "may reappear")
}
