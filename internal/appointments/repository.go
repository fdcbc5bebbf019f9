package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for appointments
type Repository interface {
	Insert(ctx context.Context, a *models.Appointment) (models.InsertResult, error)
	// FindByID returns nil, nil when no appointment has the id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	FindByEmailAndDate(ctx context.Context, email, date string) ([]*models.Appointment, error)
	// AttachPayment sets the payment of an unpaid appointment. It fails with
	// models.ErrNotFound or models.ErrConflict (already paid).
	AttachPayment(ctx context.Context, id primitive.ObjectID, p models.Payment) (models.UpdateResult, error)
}

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, a *models.Appointment) (models.InsertResult, error) {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	if _, err := m.col.InsertOne(ctx, a); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert appointment: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: a.ID}, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return &a, nil
}

func (m *MongoRepo) FindByEmailAndDate(ctx context.Context, email, date string) ([]*models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"email": email, "date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	out := []*models.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) AttachPayment(ctx context.Context, id primitive.ObjectID, p models.Payment) (models.UpdateResult, error) {
	filter := bson.M{"_id": id, "payment": bson.M{"$exists": false}}
	res, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"payment": p}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("attach payment: %w", err)
	}
	if res.MatchedCount == 0 {
		existing, err := m.FindByID(ctx, id)
		if err != nil {
			return models.UpdateResult{}, err
		}
		if existing == nil {
			return models.UpdateResult{}, fmt.Errorf("appointment %s: %w", id.Hex(), models.ErrNotFound)
		}
		return models.UpdateResult{}, fmt.Errorf("appointment %s already paid: %w", id.Hex(), models.ErrConflict)
	}
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}
