package appointments

import (
	"context"
	"fmt"
	"strings"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settler is told about every payment attached to an appointment.
type Settler interface {
	Settle(ctx context.Context, appointmentID string, amount int64)
}

// Service implements booking, lookup and payment attachment.
type Service struct {
	repo    Repository
	settler Settler
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// SetSettler registers st to be notified after AttachPayment succeeds.
func (s *Service) SetSettler(st Settler) {
	s.settler = st
}

// ParseID parses a hex appointment id.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid appointment id %q: %w", hex, models.ErrInvalidInput)
	}
	return id, nil
}

// Book stores a new appointment together with any extra fields the client
// sent. Duplicate bookings for the same patient and date are allowed.
// Client-supplied id and payment are ignored.
func (s *Service) Book(ctx context.Context, a models.Appointment) (models.InsertResult, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if a.Email == "" {
		return models.InsertResult{}, fmt.Errorf("email is required: %w", models.ErrInvalidInput)
	}
	date, err := NormalizeDate(a.Date)
	if err != nil {
		return models.InsertResult{}, err
	}
	if a.Price < 0 {
		return models.InsertResult{}, fmt.Errorf("price must not be negative: %w", models.ErrInvalidInput)
	}
	a.Date = date
	a.ID = primitive.NilObjectID
	a.Payment = nil
	a.TrimExtra()
	res, err := s.repo.Insert(ctx, &a)
	if err != nil {
		return res, err
	}
	metrics.AppointmentsBooked.Inc()
	logger.Debugf("appointments: booked %s for %s on %s", res.InsertedID.Hex(), a.Email, a.Date)
	return res, nil
}

// Get returns the appointment with the given hex id or models.ErrNotFound.
func (s *Service) Get(ctx context.Context, hex string) (*models.Appointment, error) {
	id, err := ParseID(hex)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("appointment %s: %w", hex, models.ErrNotFound)
	}
	return a, nil
}

// ListForPatient returns the appointments booked by email on date. An empty
// result is an empty slice.
func (s *Service) ListForPatient(ctx context.Context, email, date string) ([]*models.Appointment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", models.ErrInvalidInput)
	}
	d, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByEmailAndDate(ctx, email, d)
}

// AttachPayment moves an appointment from booked to paid. The payment record
// is taken as reported by the client.
func (s *Service) AttachPayment(ctx context.Context, hex string, p models.Payment) (models.UpdateResult, error) {
	id, err := ParseID(hex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	p.Transaction = strings.TrimSpace(p.Transaction)
	if p.Transaction == "" {
		return models.UpdateResult{}, fmt.Errorf("payment transaction is required: %w", models.ErrInvalidInput)
	}
	if p.Amount < 0 {
		return models.UpdateResult{}, fmt.Errorf("payment amount must not be negative: %w", models.ErrInvalidInput)
	}
	p.Currency = strings.ToLower(p.Currency)
	res, err := s.repo.AttachPayment(ctx, id, p)
	if err != nil {
		return res, err
	}
	metrics.PaymentsAttached.Inc()
	logger.Infof("appointments: payment %s attached to %s", p.Transaction, id.Hex())
	if s.settler != nil {
		s.settler.Settle(ctx, id.Hex(), p.Amount)
	}
	return res, nil
}
