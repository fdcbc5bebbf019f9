package doctors

import (
	"context"
	"sync"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps doctors in insertion order.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs []*models.Doctor
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Insert(ctx context.Context, d *models.Doctor) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	cp := *d
	cp.Image = append([]byte(nil), d.Image...)
	m.docs = append(m.docs, &cp)
	return models.InsertResult{Acknowledged: true, InsertedID: d.ID}, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*models.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Doctor, 0, len(m.docs))
	for _, d := range m.docs {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}
