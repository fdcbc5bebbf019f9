package checkout

import (
	"strconv"
	"time"
)

// Intent records a payment intent created for an appointment so that a
// repeated request for the same amount returns the same client secret.
type Intent struct {
	Key           string    `bson:"key" json:"key"`
	IntentID      string    `bson:"intentId" json:"intentId"`
	ClientSecret  string    `bson:"clientSecret" json:"clientSecret"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	Amount        int64     `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt     time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Key identifies the intent for an appointment and amount. It doubles as the
// gateway idempotency key.
func Key(appointmentID string, amount int64) string {
	return "appointment-" + appointmentID + "-" + strconv.FormatInt(amount, 10)
}

func (i *Intent) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
