package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// snapshotDocument wraps the encoded snapshot so every backend stores the
// same payload format.
type snapshotDocument struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type cartSnapshotRepository struct {
	collection *mongo.Collection
	key        string
}

func NewCartSnapshotRepository(collection *mongo.Collection, key string) repository.CartSnapshotRepository {
	return &cartSnapshotRepository{
		collection: collection,
		key:        key,
	}
}

func (r *cartSnapshotRepository) Load(ctx context.Context) ([]entity.LineItem, error) {
	var doc snapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart snapshot %s: %w", r.key, err)
	}
	return repository.DecodeSnapshot([]byte(doc.Payload))
}

func (r *cartSnapshotRepository) Save(ctx context.Context, items []entity.LineItem) error {
	data, err := repository.EncodeSnapshot(items)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrSaveFailed, err)
	}
	doc := snapshotDocument{
		Key:       r.key,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": r.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: mongo upsert %s: %w", repository.ErrSaveFailed, r.key, err)
	}
	return nil
}

func (r *cartSnapshotRepository) Erase(ctx context.Context) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": r.key}); err != nil {
		return fmt.Errorf("%w: mongo delete %s: %w", repository.ErrDeleteFailed, r.key, err)
	}
	return nil
}
