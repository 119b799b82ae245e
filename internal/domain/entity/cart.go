package entity

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle      = errors.New("line item title cannot be empty")
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
	ErrNegativePrice   = errors.New("line item unit price cannot be negative")
	ErrPriceOutOfRange = errors.New("line item unit price is out of range")
	ErrDuplicateTitle  = errors.New("cart already holds a line item with this title")
)

const (
	// MaxPriceFractionDigits bounds the precision a unit price may carry.
	MaxPriceFractionDigits = 8
	maxPriceExponent       = 12
)

// MaxUnitPrice is the exclusive upper bound on a unit price.
var MaxUnitPrice = decimal.New(1, maxPriceExponent)

// LineItem is one product's presence in the cart. Title doubles as the
// de-duplication key.
type LineItem struct {
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

func NewLineItem(title string, unitPrice decimal.Decimal, imageRef string) LineItem {
	return LineItem{Title: title, UnitPrice: unitPrice, Quantity: 1, ImageRef: imageRef}
}

func (i LineItem) Validate() error {
	if i.Title == "" {
		return ErrEmptyTitle
	}
	if i.Quantity < 1 {
		return fmt.Errorf("%q: %w", i.Title, ErrInvalidQuantity)
	}
	if err := ValidateUnitPrice(i.UnitPrice); err != nil {
		return fmt.Errorf("%q: %w", i.Title, err)
	}
	return nil
}

// ValidateUnitPrice rejects negative prices, prices of MaxUnitPrice or more,
// and prices with more than MaxPriceFractionDigits decimals. The exponent is
// checked before any arithmetic touches the value.
func ValidateUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	exp := price.Exponent()
	if exp < -MaxPriceFractionDigits || exp > maxPriceExponent {
		return ErrPriceOutOfRange
	}
	if price.GreaterThanOrEqual(MaxUnitPrice) {
		return ErrPriceOutOfRange
	}
	return nil
}

func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps line items in insertion order. There is no zero-quantity entry:
// decrementing the last unit removes the item.
type Cart struct {
	Items []LineItem
}

func NewCart() *Cart {
	return &Cart{Items: make([]LineItem, 0)}
}

// RestoreCart rebuilds a cart from persisted items, rejecting any list that
// could not have been produced by the cart's own mutations.
func RestoreCart(items []LineItem) (*Cart, error) {
	c := NewCart()
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[item.Title]; ok {
			return nil, fmt.Errorf("%q: %w", item.Title, ErrDuplicateTitle)
		}
		seen[item.Title] = struct{}{}
		c.Items = append(c.Items, item)
	}
	return c, nil
}

func (c *Cart) GetItem(title string) *LineItem {
	for i := range c.Items {
		if c.Items[i].Title == title {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem merges into an existing entry with the same title, keeping the
// first stored price and image, or appends a new entry with quantity 1.
func (c *Cart) AddItem(title string, unitPrice decimal.Decimal, imageRef string) {
	if item := c.GetItem(title); item != nil {
		item.Quantity++
		return
	}
	c.Items = append(c.Items, NewLineItem(title, unitPrice, imageRef))
}

func (c *Cart) inRange(index int) bool {
	return index >= 0 && index < len(c.Items)
}

// Increment reports false for a stale index and leaves the cart untouched.
func (c *Cart) Increment(index int) bool {
	if !c.inRange(index) {
		return false
	}
	c.Items[index].Quantity++
	return true
}

// Decrement removes the item when its quantity is 1, shifting later items
// down by one. It reports false for a stale index.
func (c *Cart) Decrement(index int) bool {
	if !c.inRange(index) {
		return false
	}
	if c.Items[index].Quantity > 1 {
		c.Items[index].Quantity--
		return true
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = make([]LineItem, 0)
}

func (c *Cart) Len() int {
	return len(c.Items)
}

// Snapshot returns a copy collaborators may hold without aliasing the cart.
func (c *Cart) Snapshot() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}
