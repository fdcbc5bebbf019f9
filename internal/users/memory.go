package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory UserRepository with the same semantics as the
// Mongo one: unique emails, compared case-insensitively.
type MemoryRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byEmail: make(map[string]*models.User)}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (m *MemoryRepo) Insert(ctx context.Context, u *models.User) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[emailKey(u.Email)]; ok {
		return models.InsertResult{}, fmt.Errorf("user %s: %w", u.Email, models.ErrConflict)
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byEmail[emailKey(u.Email)] = u.Clone()
	return models.InsertResult{Acknowledged: true, InsertedID: u.ID}, nil
}

func (m *MemoryRepo) UpsertByEmail(ctx context.Context, u *models.User) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if cur, ok := m.byEmail[emailKey(u.Email)]; ok {
		if u.DisplayName != "" {
			cur.DisplayName = u.DisplayName
		}
		if len(u.Extra) > 0 && cur.Extra == nil {
			cur.Extra = bson.M{}
		}
		for k, v := range u.Extra {
			cur.Extra[k] = v
		}
		// updatedAt always changes, as with $set in Mongo
		cur.UpdatedAt = now
		return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	id := primitive.NewObjectID()
	created := &models.User{ID: id, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: now, UpdatedAt: now, Extra: u.Extra}
	m.byEmail[emailKey(u.Email)] = created.Clone()
	return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &id}, nil
}

func (m *MemoryRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byEmail[emailKey(email)]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (m *MemoryRepo) SetRole(ctx context.Context, email, role string) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[emailKey(email)]
	if !ok {
		return models.UpdateResult{Acknowledged: true}, nil
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *MemoryRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.User{}
	for _, u := range m.byEmail {
		if u.Role == role {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
