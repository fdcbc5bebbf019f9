package users

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

// UserRepository defines persistence operations for users
type UserRepository interface {
	Insert(ctx context.Context, u *models.User) (models.InsertResult, error)
	UpsertByEmail(ctx context.Context, u *models.User) (models.UpdateResult, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetRole(ctx context.Context, email, role string) (models.UpdateResult, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

// EmailCollation compares emails case-insensitively, so profiles stored
// with mixed-case emails still match the lower-cased identity claim. The
// users.email index is built with the same collation.
var EmailCollation = &options.Collation{Locale: "en", Strength: 2}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

// Insert stores a new user. An existing profile whose email differs only in
// case counts as a duplicate.
func (r *MongoUserRepository) Insert(ctx context.Context, u *models.User) (models.InsertResult, error) {
	existing, err := r.GetByEmail(ctx, u.Email)
	if err != nil {
		return models.InsertResult{}, err
	}
	if existing != nil {
		return models.InsertResult{}, fmt.Errorf("user %s: %w", u.Email, models.ErrConflict)
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.InsertResult{}, fmt.Errorf("user %s: %w", u.Email, models.ErrConflict)
		}
		return models.InsertResult{}, fmt.Errorf("insert user: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

// UpsertByEmail sets the profile fields of the user with u.Email, creating
// the document when it does not exist. Extra fields are set one by one; the
// role is never written here.
func (r *MongoUserRepository) UpsertByEmail(ctx context.Context, u *models.User) (models.UpdateResult, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if u.DisplayName != "" {
		set["displayName"] = u.DisplayName
	}
	for k, v := range u.Extra {
		set[k] = v
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.Update().SetUpsert(true).SetCollation(EmailCollation)
	res, err := r.col.UpdateOne(ctx, bson.M{"email": u.Email}, update, opts)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("upsert user: %w", err)
	}
	return updateResult(res), nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetCollation(EmailCollation)
	if err := r.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, email, role string) (models.UpdateResult, error) {
	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetCollation(EmailCollation))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("set role: %w", err)
	}
	return updateResult(res), nil
}

func (r *MongoUserRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := []*models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	out := models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = &oid
	}
	return out
}
