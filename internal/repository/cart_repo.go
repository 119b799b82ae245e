package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
)

// CartSnapshotRepository persists the whole cart under a single key.
// Load returns ErrNotFound when no snapshot exists and ErrMalformedSnapshot
// when the stored value cannot be decoded.
type CartSnapshotRepository interface {
	Load(ctx context.Context) ([]entity.LineItem, error)
	Save(ctx context.Context, items []entity.LineItem) error
	Erase(ctx context.Context) error
}
