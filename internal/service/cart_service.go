package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/render"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	opAdd       = "add"
	opIncrement = "increment"
	opDecrement = "decrement"
	opClear     = "clear"

	itemAddedMessage = "Item added to cart!"
)

// CartService owns the single cart. Positional operations ignore stale
// indices. AddItem refuses a price outside entity.ValidateUnitPrice and
// leaves the cart untouched; every other error comes from the persistence
// channel, and then the in-memory mutation has been applied and rendered.
// Every mutation returns the state it produced.
type CartService interface {
	AddItem(ctx context.Context, title string, unitPrice decimal.Decimal, imageRef string) (CartState, error)
	Increment(ctx context.Context, index int) (CartState, error)
	Decrement(ctx context.Context, index int) (CartState, error)
	IncrementRaw(ctx context.Context, rawIndex string) (CartState, error)
	DecrementRaw(ctx context.Context, rawIndex string) (CartState, error)
	ClearAll(ctx context.Context) (CartState, error)
	Items() []entity.LineItem
	Totals() entity.Totals
	State() CartState
}

// CartState is the cart as observed inside a single critical section.
type CartState struct {
	Items  []entity.LineItem
	Totals entity.Totals
}

type CartServiceConfig struct {
	Pricing        entity.Pricing
	CurrencySymbol string
}

type cartService struct {
	mu   sync.Mutex
	cart *entity.Cart

	repo      repository.CartSnapshotRepository
	renderer  render.Renderer
	publisher nats.CartEventPublisher
	metrics   *metrics.MetricsManager
	log       logger.Logger
	pricing   entity.Pricing
	symbol    string
	now       func() time.Time
}

// NewCartService loads the persisted snapshot once. A missing or malformed
// snapshot yields an empty cart. metrics may be nil.
func NewCartService(
	ctx context.Context,
	repo repository.CartSnapshotRepository,
	renderer render.Renderer,
	publisher nats.CartEventPublisher,
	metricsManager *metrics.MetricsManager,
	log logger.Logger,
	cfg CartServiceConfig,
) CartService {
	s := &cartService{
		repo:      repo,
		renderer:  renderer,
		publisher: publisher,
		metrics:   metricsManager,
		log:       log,
		pricing:   cfg.Pricing,
		symbol:    cfg.CurrencySymbol,
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.cart = s.loadCart(ctx)

	state := s.current()
	s.renderer.Render(state.Items, state.Totals)
	s.observeState(state)
	return s
}

func (s *cartService) loadCart(ctx context.Context) *entity.Cart {
	items, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("No cart snapshot found, starting with an empty cart")
			s.countLoad("absent")
		} else {
			s.log.Warnf("Could not load cart snapshot, starting with an empty cart: %v", err)
			s.countLoad("malformed")
		}
		return entity.NewCart()
	}

	cart, err := entity.RestoreCart(items)
	if err != nil {
		s.log.Warnf("Discarding invalid cart snapshot, starting with an empty cart: %v", err)
		s.countLoad("malformed")
		return entity.NewCart()
	}
	s.log.Infof("Cart restored from snapshot with %d line items", cart.Len())
	s.countLoad("restored")
	return cart
}

func (s *cartService) AddItem(ctx context.Context, title string, unitPrice decimal.Decimal, imageRef string) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := entity.ValidateUnitPrice(unitPrice); err != nil {
		s.log.Warnf("Refusing to add %q: %v", title, err)
		return s.current(), fmt.Errorf("could not add %q: %w", title, err)
	}
	s.log.Debugf("Adding item to cart: Title=%s, UnitPrice=%s", title, unitPrice)
	s.cart.AddItem(title, unitPrice, imageRef)
	return s.commit(ctx, opAdd, entity.EventItemAdded, title, itemAddedMessage)
}

func (s *cartService) Increment(ctx context.Context, index int) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Increment(index) {
		s.ignoreStale(opIncrement, index)
		return s.current(), nil
	}
	return s.commit(ctx, opIncrement, entity.EventCartUpdated, s.cart.Items[index].Title, "")
}

func (s *cartService) Decrement(ctx context.Context, index int) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.cart.Len() {
		s.ignoreStale(opDecrement, index)
		return s.current(), nil
	}
	title := s.cart.Items[index].Title
	s.cart.Decrement(index)
	return s.commit(ctx, opDecrement, entity.EventCartUpdated, title, "")
}

// IncrementRaw accepts the index as the UI sends it. Anything that is not a
// plain base-10 integer is treated as a stale reference.
func (s *cartService) IncrementRaw(ctx context.Context, rawIndex string) (CartState, error) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		s.log.Debugf("Ignoring increment with non-numeric index %q", rawIndex)
		s.countStale(opIncrement)
		return s.State(), nil
	}
	return s.Increment(ctx, index)
}

func (s *cartService) DecrementRaw(ctx context.Context, rawIndex string) (CartState, error) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		s.log.Debugf("Ignoring decrement with non-numeric index %q", rawIndex)
		s.countStale(opDecrement)
		return s.State(), nil
	}
	return s.Decrement(ctx, index)
}

// ClearAll empties the cart and removes the persisted snapshot rather than
// saving an empty list.
func (s *cartService) ClearAll(ctx context.Context) (CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Clearing cart")
	s.cart.Clear()

	var result error
	if err := s.repo.Erase(ctx); err != nil {
		s.log.Errorf("Error erasing cart snapshot: %v", err)
		s.countPersistFailure(opClear)
		result = fmt.Errorf("could not clear cart: %w", err)
	}
	return s.afterMutation(ctx, opClear, entity.EventCartCleared, "", ""), result
}

func (s *cartService) Items() []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

func (s *cartService) Totals() entity.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals(s.pricing)
}

func (s *cartService) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// current copies the cart and its totals. Callers hold mu.
func (s *cartService) current() CartState {
	items := s.cart.Snapshot()
	return CartState{Items: items, Totals: entity.ComputeTotals(items, s.pricing)}
}

// commit persists the full list, then renders and notifies. Callers hold mu.
func (s *cartService) commit(ctx context.Context, op string, eventType entity.CartEventType, title, message string) (CartState, error) {
	var result error
	if err := s.repo.Save(ctx, s.cart.Snapshot()); err != nil {
		s.log.Errorf("Error saving cart snapshot after %s: %v", op, err)
		s.countPersistFailure(op)
		result = fmt.Errorf("could not save cart: %w", err)
	}
	return s.afterMutation(ctx, op, eventType, title, message), result
}

func (s *cartService) afterMutation(ctx context.Context, op string, eventType entity.CartEventType, title, message string) CartState {
	state := s.current()

	s.renderer.Render(state.Items, state.Totals)

	event := entity.CartEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Title:      title,
		Message:    message,
		LineCount:  len(state.Items),
		ItemCount:  state.Totals.ItemCount,
		GrandTotal: render.FormatMoney(s.symbol, state.Totals.GrandTotal),
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishCartEvent(ctx, event); err != nil {
		s.log.Warnf("Failed to publish cart event %s: %v", eventType, err)
	}

	if s.metrics != nil {
		s.metrics.MutationsTotal.WithLabelValues(op).Inc()
	}
	s.observeState(state)
	return state
}

func (s *cartService) ignoreStale(op string, index int) {
	s.log.Debugf("Ignoring %s for stale index %d (cart has %d line items)", op, index, s.cart.Len())
	s.countStale(op)
}

func (s *cartService) observeState(state CartState) {
	if s.metrics == nil {
		return
	}
	s.metrics.CartLines.Set(float64(len(state.Items)))
	s.metrics.CartItems.Set(float64(state.Totals.ItemCount))
}

func (s *cartService) countStale(op string) {
	if s.metrics != nil {
		s.metrics.StaleIndexTotal.WithLabelValues(op).Inc()
	}
}

func (s *cartService) countPersistFailure(op string) {
	if s.metrics != nil {
		s.metrics.PersistFailuresTotal.WithLabelValues(op).Inc()
	}
}

func (s *cartService) countLoad(outcome string) {
	if s.metrics != nil {
		s.metrics.SnapshotLoadsTotal.WithLabelValues(outcome).Inc()
	}
}
