package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

type cartSnapshotRepository struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewCartSnapshotRepository stores the snapshot under key. A zero ttl keeps
// the snapshot until it is erased.
func NewCartSnapshotRepository(client redis.Cmdable, key string, ttl time.Duration) repository.CartSnapshotRepository {
	return &cartSnapshotRepository{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (r *cartSnapshotRepository) Load(ctx context.Context) ([]entity.LineItem, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart snapshot %s from redis: %w", r.key, err)
	}
	return repository.DecodeSnapshot(val)
}

func (r *cartSnapshotRepository) Save(ctx context.Context, items []entity.LineItem) error {
	data, err := repository.EncodeSnapshot(items)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrSaveFailed, err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %w", repository.ErrSaveFailed, r.key, err)
	}
	return nil
}

func (r *cartSnapshotRepository) Erase(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %w", repository.ErrDeleteFailed, r.key, err)
	}
	return nil
}
