package appointments

import (
	"context"
	"testing"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryRepo_InsertFindAttach(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	a := &models.Appointment{PatientName: "Pat", Email: "pat@example.com", ServiceName: "Teeth Orthodontics", Date: "2026-10-17"}
	res, err := r.Insert(ctx, a)
	require.NoError(t, err)
	require.True(t, res.Acknowledged)

	got, err := r.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	require.Equal(t, "Pat", got.PatientName)

	missing, err := r.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	require.Nil(t, missing)

	list, err := r.FindByEmailAndDate(ctx, "pat@example.com", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = r.FindByEmailAndDate(ctx, "pat@example.com", "2026-10-18")
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	_, err = r.AttachPayment(ctx, res.InsertedID, models.Payment{Amount: 5000, Transaction: "pi_1"})
	require.NoError(t, err)
	_, err = r.AttachPayment(ctx, res.InsertedID, models.Payment{Amount: 9999, Transaction: "pi_2"})
	require.ErrorIs(t, err, models.ErrConflict)
	_, err = r.AttachPayment(ctx, primitive.NewObjectID(), models.Payment{Transaction: "pi_3"})
	require.ErrorIs(t, err, models.ErrNotFound)

	got, err = r.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	require.Equal(t, "pi_1", got.Payment.Transaction)

	// returned copies must not alias stored state
	got.Payment.Transaction = "mutated"
	again, _ := r.FindByID(ctx, res.InsertedID)
	require.Equal(t, "pi_1", again.Payment.Transaction)
}
