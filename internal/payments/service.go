package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hafiz229/doctors-portal-server/internal/appointments"
	"github.com/hafiz229/doctors-portal-server/internal/checkout"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
)

// IntentStore remembers created intents for reuse. checkout.Service satisfies it.
type IntentStore interface {
	Lookup(ctx context.Context, key string) (*checkout.Intent, error)
	Remember(ctx context.Context, in *checkout.Intent) error
	Forget(ctx context.Context, key string) error
}

// AppointmentLookup resolves the appointment a payment is for.
type AppointmentLookup interface {
	Get(ctx context.Context, id string) (*models.Appointment, error)
}

// IntentRequest is the body of a payment intent request. Price is a decimal
// amount in the major unit of the configured currency.
type IntentRequest struct {
	Price         json.Number `json:"price"`
	AppointmentID string      `json:"appointmentId,omitempty"`
}

// Service turns prices into payment intents.
type Service struct {
	gw           Gateway
	currency     string
	store        IntentStore
	appointments AppointmentLookup
}

// NewService returns a Service. store and lookup may be nil; without
// them every request creates a fresh intent.
func NewService(gw Gateway, currency string, store IntentStore, lookup AppointmentLookup) *Service {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}
	return &Service{gw: gw, currency: currency, store: store, appointments: lookup}
}

// Currency returns the lower-case ISO code charges are made in.
func (s *Service) Currency() string { return s.currency }

// CreateIntent creates (or reuses) a payment intent for req and returns it.
func (s *Service) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	amount, err := ToMinorUnits(req.Price, s.currency)
	if err != nil {
		return Intent{}, err
	}
	if strings.TrimSpace(req.AppointmentID) == "" {
		return s.create(ctx, amount, "")
	}
	oid, err := appointments.ParseID(req.AppointmentID)
	if err != nil {
		return Intent{}, err
	}
	apptID := oid.Hex()

	if s.appointments != nil {
		a, err := s.appointments.Get(ctx, apptID)
		if err != nil {
			return Intent{}, err
		}
		if a.IsPaid() {
			return Intent{}, fmt.Errorf("appointment %s already paid: %w", apptID, models.ErrConflict)
		}
	}

	key := checkout.Key(apptID, amount)
	if s.store != nil {
		prev, err := s.store.Lookup(ctx, key)
		if err != nil {
			logger.Warnf("payments: checkout lookup %s failed: %v", key, err)
		} else if prev != nil {
			metrics.PaymentIntents.WithLabelValues("reused").Inc()
			return Intent{ID: prev.IntentID, ClientSecret: prev.ClientSecret}, nil
		}
	}

	in, err := s.create(ctx, amount, key)
	if err != nil {
		return in, err
	}
	if s.store != nil {
		rec := &checkout.Intent{
			Key:           key,
			IntentID:      in.ID,
			ClientSecret:  in.ClientSecret,
			AppointmentID: apptID,
			Amount:        amount,
			Currency:      s.currency,
		}
		if err := s.store.Remember(ctx, rec); err != nil {
			logger.Warnf("payments: remembering intent %s failed: %v", in.ID, err)
		}
	}
	return in, nil
}

// Settle drops the reusable intent of an appointment once its payment of
// amount (minor units) has been recorded, so the secret is not handed out
// again.
func (s *Service) Settle(ctx context.Context, appointmentID string, amount int64) {
	if s.store == nil {
		return
	}
	key := checkout.Key(appointmentID, amount)
	if err := s.store.Forget(ctx, key); err != nil {
		logger.Warnf("payments: forgetting intent %s failed: %v", key, err)
	}
}

func (s *Service) create(ctx context.Context, amount int64, key string) (Intent, error) {
	in, err := s.gw.CreatePaymentIntent(ctx, amount, s.currency, key)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("failed").Inc()
		return Intent{}, err
	}
	metrics.PaymentIntents.WithLabelValues("created").Inc()
	logger.Infof("payments: created intent %s for %d %s", in.ID, amount, s.currency)
	return in, nil
}
