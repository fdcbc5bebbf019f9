package appointments

import (
	"context"
	"testing"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func book(t *testing.T, svc *Service, a models.Appointment) string {
	t.Helper()
	res, err := svc.Book(context.Background(), a)
	require.NoError(t, err)
	return res.InsertedID.Hex()
}

func TestBook_RoundTrip(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	before := testutil.ToFloat64(metrics.AppointmentsBooked)

	id := book(t, svc, models.Appointment{
		PatientName: "Pat",
		Email:       "Pat@Example.com",
		Phone:       "+1 555 0100",
		ServiceName: "Cavity Protection",
		Time:        "08.00 AM - 08.30 AM",
		Date:        "10/17/2026",
		Price:       50,
	})
	require.Equal(t, before+1, testutil.ToFloat64(metrics.AppointmentsBooked))

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID.Hex())
	require.Equal(t, "pat@example.com", got.Email)
	require.Equal(t, "2026-10-17", got.Date)
	require.Equal(t, "Cavity Protection", got.ServiceName)
	require.Equal(t, "08.00 AM - 08.30 AM", got.Time)
	require.Equal(t, 50.0, got.Price)
	require.Nil(t, got.Payment)
}

func TestBook_IgnoresClientPayment(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	id := book(t, svc, models.Appointment{
		Email:   "pat@example.com",
		Date:    "2026-10-17",
		Payment: &models.Payment{Transaction: "forged"},
	})
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.False(t, got.IsPaid())
}

func TestBook_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	_, err := svc.Book(ctx, models.Appointment{Date: "2026-10-17"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Book(ctx, models.Appointment{Email: "a@b.c", Date: "someday"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Book(ctx, models.Appointment{Email: "a@b.c", Date: "2026-10-17", Price: -1})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGet_Errors(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.Get(context.Background(), "not-an-id")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestListForPatient_MatchesAcrossDateForms(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	book(t, svc, models.Appointment{Email: "pat@example.com", Date: "2026-10-17", ServiceName: "A"})
	book(t, svc, models.Appointment{Email: "pat@example.com", Date: "2026-10-17", ServiceName: "B"})
	book(t, svc, models.Appointment{Email: "pat@example.com", Date: "2026-10-18", ServiceName: "C"})
	book(t, svc, models.Appointment{Email: "other@example.com", Date: "2026-10-17", ServiceName: "D"})

	list, err := svc.ListForPatient(ctx, "PAT@example.com", "10/17/2026")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A", list[0].ServiceName)
	require.Equal(t, "B", list[1].ServiceName)

	list, err = svc.ListForPatient(ctx, "nobody@example.com", "2026-10-17")
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	_, err = svc.ListForPatient(ctx, "", "2026-10-17")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.ListForPatient(ctx, "pat@example.com", "")
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAttachPayment_OneWay(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	id := book(t, svc, models.Appointment{PatientName: "Pat", Email: "pat@example.com", Date: "2026-10-17", ServiceName: "A"})
	before := testutil.ToFloat64(metrics.PaymentsAttached)

	res, err := svc.AttachPayment(ctx, id, models.Payment{Amount: 5000, Currency: "USD", Transaction: "pi_123", Last4: "4242"})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.MatchedCount)
	require.EqualValues(t, 1, res.ModifiedCount)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.PaymentsAttached))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pat", got.PatientName)
	require.Equal(t, "A", got.ServiceName)
	require.Equal(t, &models.Payment{Amount: 5000, Currency: "usd", Transaction: "pi_123", Last4: "4242"}, got.Payment)

	_, err = svc.AttachPayment(ctx, id, models.Payment{Amount: 1, Transaction: "pi_456"})
	require.ErrorIs(t, err, models.ErrConflict)
	got, _ = svc.Get(ctx, id)
	require.Equal(t, "pi_123", got.Payment.Transaction)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.PaymentsAttached))
}

func TestAttachPayment_Errors(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	_, err := svc.AttachPayment(ctx, "zzz", models.Payment{Transaction: "pi"})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.AttachPayment(ctx, primitive.NewObjectID().Hex(), models.Payment{Transaction: "pi"})
	require.ErrorIs(t, err, models.ErrNotFound)
	id := book(t, svc, models.Appointment{Email: "pat@example.com", Date: "2026-10-17"})
	_, err = svc.AttachPayment(ctx, id, models.Payment{Transaction: "  "})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}
