package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is a booking made by a patient. It starts out booked and
// becomes paid once a payment record is attached. Fields the client sends
// beyond the typed ones are kept in Extra and stored alongside them.
type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PatientName string             `bson:"patientName" json:"patientName"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ServiceName string             `bson:"serviceName" json:"serviceName"`
	Time        string             `bson:"time" json:"time"` // slot label, e.g. "08.00 AM - 09.00 AM"
	Date        string             `bson:"date" json:"date"` // YYYY-MM-DD
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	Payment     *Payment           `bson:"payment,omitempty" json:"payment,omitempty"`
	// CreatedAt orders listings; it is not part of the API representation.
	CreatedAt time.Time `bson:"createdAt" json:"-"`
	Extra     bson.M    `bson:",inline" json:"-"`
}

// appointmentJSON has the fields of Appointment without its JSON methods.
type appointmentJSON Appointment

func (a Appointment) MarshalJSON() ([]byte, error) {
	return encodeWithExtras(appointmentJSON(a), a.Extra)
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	var typed appointmentJSON
	extra, err := decodeWithExtras(data, &typed, appointmentKeys)
	if err != nil {
		return err
	}
	*a = Appointment(typed)
	a.Extra = extra
	return nil
}

// TrimExtra drops extras that would shadow a typed field or cannot be stored.
func (a *Appointment) TrimExtra() {
	a.Extra = extraFields(a.Extra, appointmentKeys)
}

// Clone returns a copy that shares no mutable state with a.
func (a *Appointment) Clone() *Appointment {
	cp := *a
	if a.Payment != nil {
		p := *a.Payment
		cp.Payment = &p
	}
	cp.Extra = cloneExtra(a.Extra)
	return &cp
}

// Payment is the client-reported result of a completed payment intent.
// Amount is in the currency's minor unit.
type Payment struct {
	Amount      int64  `bson:"amount" json:"amount"`
	Currency    string `bson:"currency,omitempty" json:"currency,omitempty"`
	Created     int64  `bson:"created,omitempty" json:"created,omitempty"`
	Last4       string `bson:"last4,omitempty" json:"last4,omitempty"`
	Transaction string `bson:"transaction" json:"transaction"`
}

func (a *Appointment) IsPaid() bool {
	return a != nil && a.Payment != nil
}
