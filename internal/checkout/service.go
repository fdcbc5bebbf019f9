package checkout

import (
	"context"
	"time"
)

// DefaultTTL applies when the service is created with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// Service wraps repository operations with expiry handling
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: r, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// Lookup returns the live intent stored under key, or nil.
func (s *Service) Lookup(ctx context.Context, key string) (*Intent, error) {
	in, err := s.repo.Get(ctx, key)
	if err != nil || in == nil {
		return nil, err
	}
	if in.expired(s.now()) {
		_ = s.repo.Delete(ctx, key)
		return nil, nil
	}
	return in, nil
}

// Remember stores in for the service TTL.
func (s *Service) Remember(ctx context.Context, in *Intent) error {
	now := s.now()
	in.CreatedAt = now
	in.ExpiresAt = now.Add(s.ttl)
	return s.repo.Save(ctx, in)
}

// Forget drops the intent stored under key.
func (s *Service) Forget(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
