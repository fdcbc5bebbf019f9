package appointments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is a simple thread-safe in-memory Repository.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]*models.Appointment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[primitive.ObjectID]*models.Appointment)}
}

func (m *MemoryRepo) Insert(ctx context.Context, a *models.Appointment) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	m.byID[a.ID] = a.Clone()
	m.order = append(m.order, a.ID)
	return models.InsertResult{Acknowledged: true, InsertedID: a.ID}, nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

func (m *MemoryRepo) FindByEmailAndDate(ctx context.Context, email, date string) ([]*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Appointment{}
	for _, id := range m.order {
		a := m.byID[id]
		if a.Email == email && a.Date == date {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepo) AttachPayment(ctx context.Context, id primitive.ObjectID, p models.Payment) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return models.UpdateResult{}, fmt.Errorf("appointment %s: %w", id.Hex(), models.ErrNotFound)
	}
	if a.IsPaid() {
		return models.UpdateResult{}, fmt.Errorf("appointment %s already paid: %w", id.Hex(), models.ErrConflict)
	}
	a.Payment = &p
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}
