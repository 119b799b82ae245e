package entity

import "time"

type CartEventType string

const (
	EventItemAdded   CartEventType = "item.added"
	EventCartUpdated CartEventType = "updated"
	EventCartCleared CartEventType = "cleared"
)

// CartEvent is the transient feedback emitted after a mutation. It carries no
// state the cart depends on.
type CartEvent struct {
	ID         string        `json:"id"`
	Type       CartEventType `json:"type"`
	Title      string        `json:"title,omitempty"`
	Message    string        `json:"message,omitempty"`
	LineCount  int           `json:"line_count"`
	ItemCount  int           `json:"item_count"`
	GrandTotal string        `json:"grand_total"`
	OccurredAt time.Time     `json:"occurred_at"`
}
