package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides checkout intent persistence operations
type Repository interface {
	Save(ctx context.Context, in *Intent) error
	// Get returns nil, nil when nothing is stored under key.
	Get(ctx context.Context, key string) (*Intent, error)
	Delete(ctx context.Context, key string) error
}

// MongoRepository implements Repository using a Mongo collection. Expired
// documents are removed by the TTL index on expiresAt.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Save(ctx context.Context, in *Intent) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"key": in.Key}, in, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save checkout intent: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, key string) (*Intent, error) {
	var in Intent
	if err := r.col.FindOne(ctx, bson.M{"key": key}).Decode(&in); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find checkout intent: %w", err)
	}
	// the TTL monitor runs once a minute
	if in.expired(time.Now().UTC()) {
		return nil, nil
	}
	return &in, nil
}

func (r *MongoRepository) Delete(ctx context.Context, key string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"key": key})
	return err
}
