package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
)

// Store is an in-process key-value store holding encoded snapshots, so the
// memory backend goes through the same codec as redis and mongo.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

type cartSnapshotRepository struct {
	store *Store
	key   string
}

func NewCartSnapshotRepository(store *Store, key string) repository.CartSnapshotRepository {
	return &cartSnapshotRepository{store: store, key: key}
}

func (r *cartSnapshotRepository) Load(_ context.Context) ([]entity.LineItem, error) {
	data, ok := r.store.Get(r.key)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return repository.DecodeSnapshot(data)
}

func (r *cartSnapshotRepository) Save(_ context.Context, items []entity.LineItem) error {
	data, err := repository.EncodeSnapshot(items)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrSaveFailed, err)
	}
	r.store.Put(r.key, data)
	return nil
}

func (r *cartSnapshotRepository) Erase(_ context.Context) error {
	r.store.Delete(r.key)
	return nil
}
