package checkout

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps intents in a map; expired entries are dropped on read.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]Intent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Intent)}
}

func (m *MemoryRepository) Save(ctx context.Context, in *Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[in.Key] = *in
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, key string) (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if in.expired(time.Now().UTC()) {
		delete(m.items, key)
		return nil, nil
	}
	return &in, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
