package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// NormalizeEmail lower-cases and trims an email address. Repositories match
// stored emails case-insensitively, so older mixed-case profiles still resolve.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register inserts a new user record. A second registration for the same
// email fails with models.ErrConflict.
func (s *Service) Register(ctx context.Context, u models.User) (models.InsertResult, error) {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return models.InsertResult{}, fmt.Errorf("email is required: %w", models.ErrInvalidInput)
	}
	u.Role = ""
	u.TrimExtra()
	return s.repo.Insert(ctx, &u)
}

// SaveProfile upserts the profile of the user with the given email, merging
// any extra profile fields. The role field is never written through this path.
func (s *Service) SaveProfile(ctx context.Context, u models.User) (models.UpdateResult, error) {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return models.UpdateResult{}, fmt.Errorf("email is required: %w", models.ErrInvalidInput)
	}
	u.Role = ""
	u.TrimExtra()
	return s.repo.UpsertByEmail(ctx, &u)
}

// IsAdmin reports whether email belongs to an admin. Unknown users are not admins.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

// Promote grants the admin role to target on behalf of requester. Only an
// existing admin may promote; every other case is models.ErrForbidden.
func (s *Service) Promote(ctx context.Context, requester, target string) (models.UpdateResult, error) {
	requester = NormalizeEmail(requester)
	if requester == "" {
		metrics.AdminPromotions.WithLabelValues("forbidden").Inc()
		return models.UpdateResult{}, fmt.Errorf("no requester: %w", models.ErrForbidden)
	}
	admin, err := s.IsAdmin(ctx, requester)
	if err != nil {
		metrics.AdminPromotions.WithLabelValues("error").Inc()
		return models.UpdateResult{}, err
	}
	if !admin {
		metrics.AdminPromotions.WithLabelValues("forbidden").Inc()
		logger.Warnf("users: %s attempted to promote %s", requester, target)
		return models.UpdateResult{}, fmt.Errorf("%s is not an admin: %w", requester, models.ErrForbidden)
	}
	res, err := s.GrantAdmin(ctx, target)
	if err != nil {
		metrics.AdminPromotions.WithLabelValues("error").Inc()
		return res, err
	}
	metrics.AdminPromotions.WithLabelValues("granted").Inc()
	logger.Infof("users: %s promoted %s to admin", requester, NormalizeEmail(target))
	return res, nil
}

// GrantAdmin sets the admin role without a requester check. It backs the
// operator CLI and Promote.
func (s *Service) GrantAdmin(ctx context.Context, target string) (models.UpdateResult, error) {
	target = NormalizeEmail(target)
	if target == "" {
		return models.UpdateResult{}, fmt.Errorf("target email is required: %w", models.ErrInvalidInput)
	}
	return s.repo.SetRole(ctx, target, models.RoleAdmin)
}

// Admins lists every user holding the admin role.
func (s *Service) Admins(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListByRole(ctx, models.RoleAdmin)
}
