package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAppointmentJSON_KeepsClientFields(t *testing.T) {
	body := `{"patientName":"Pat","email":"pat@example.com","date":"2026-10-17","slotId":"s-42","notes":"first visit","meta":{"via":"web"},"payment":{"amount":1,"transaction":"pi_x"},"$where":"x","a.b":1}`
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(body), &a))

	require.Equal(t, "Pat", a.PatientName)
	require.NotNil(t, a.Payment)
	require.Equal(t, bson.M{"slotId": "s-42", "notes": "first visit", "meta": map[string]interface{}{"via": "web"}}, a.Extra)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Equal(t, "s-42", got["slotId"])
	require.Equal(t, "first visit", got["notes"])
	require.Equal(t, map[string]interface{}{"via": "web"}, got["meta"])
	require.Equal(t, "Pat", got["patientName"])
}

func TestAppointmentJSON_HidesCreatedAt(t *testing.T) {
	a := Appointment{ID: primitive.NewObjectID(), Email: "pat@example.com", CreatedAt: time.Now()}
	out, err := json.Marshal(&a)
	require.NoError(t, err)
	require.NotContains(t, string(out), "createdAt")
	require.Contains(t, string(out), a.ID.Hex())
}

func TestAppointmentBSON_InlinesExtras(t *testing.T) {
	a := Appointment{
		ID:    primitive.NewObjectID(),
		Email: "pat@example.com",
		Date:  "2026-10-17",
		Extra: bson.M{"slotId": "s-42", "meta": bson.M{"via": "web"}},
	}
	raw, err := bson.Marshal(&a)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	require.Equal(t, "s-42", doc["slotId"])
	require.NotContains(t, doc, "Extra")

	var back Appointment
	require.NoError(t, bson.Unmarshal(raw, &back))
	require.Equal(t, a.ID, back.ID)
	require.Equal(t, "s-42", back.Extra["slotId"])

	out, err := json.Marshal(back)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Equal(t, map[string]interface{}{"via": "web"}, got["meta"])
}

func TestAppointment_TrimExtraDropsTypedKeys(t *testing.T) {
	a := Appointment{Extra: bson.M{"_id": "x", "payment": "paid", "email": "e", "notes": "n"}}
	a.TrimExtra()
	require.Equal(t, bson.M{"notes": "n"}, a.Extra)

	a = Appointment{Extra: bson.M{"payment": "paid"}}
	a.TrimExtra()
	require.Nil(t, a.Extra)
}

func TestUserJSON_RoleIsNotAnExtra(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"email":"bob@example.com","role":"admin","photoURL":"https://x/y.png","updatedAt":"2020-01-01T00:00:00Z"}`), &u))
	require.Equal(t, "admin", u.Role)
	require.Equal(t, bson.M{"photoURL": "https://x/y.png"}, u.Extra)

	u.Role = ""
	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.Contains(t, string(out), `"photoURL":"https://x/y.png"`)
	require.NotContains(t, string(out), "role")
}

func TestClone_CopiesExtras(t *testing.T) {
	a := &Appointment{Extra: bson.M{"notes": "n"}, Payment: &Payment{Amount: 1}}
	cp := a.Clone()
	cp.Extra["notes"] = "changed"
	cp.Payment.Amount = 2
	require.Equal(t, "n", a.Extra["notes"])
	require.EqualValues(t, 1, a.Payment.Amount)
}
