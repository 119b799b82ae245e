package repository

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// snapshotItem keeps the field names the storefront page has always written,
// so snapshots saved by older pages still load.
type snapshotItem struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

func EncodeSnapshot(items []entity.LineItem) ([]byte, error) {
	records := make([]snapshotItem, 0, len(items))
	for _, item := range items {
		records = append(records, snapshotItem{
			Title:    item.Title,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
			Image:    item.ImageRef,
		})
	}
	data, err := snapshotJSON.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot accepts prices as JSON numbers or strings. A literal null
// decodes to an empty list.
func DecodeSnapshot(data []byte) ([]entity.LineItem, error) {
	var records []snapshotItem
	if err := snapshotJSON.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	items := make([]entity.LineItem, 0, len(records))
	for _, r := range records {
		items = append(items, entity.LineItem{
			Title:     r.Title,
			UnitPrice: r.Price,
			Quantity:  r.Quantity,
			ImageRef:  r.Image,
		})
	}
	return items, nil
}
