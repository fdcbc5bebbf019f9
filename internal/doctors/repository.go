package doctors

import (
	"context"
	"fmt"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for doctors
type Repository interface {
	Insert(ctx context.Context, d *models.Doctor) (models.InsertResult, error)
	List(ctx context.Context) ([]*models.Doctor, error)
}

type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, d *models.Doctor) (models.InsertResult, error) {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert doctor: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*models.Doctor, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	out := []*models.Doctor{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return out, nil
}
