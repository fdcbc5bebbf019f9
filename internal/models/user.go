package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleAdmin is the only role value the portal gives meaning to.
const RoleAdmin = "admin"

// User is a portal account, keyed by email (the identity provider's email claim).
// Any other profile fields the client supplies live in Extra.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Extra       bson.M             `bson:",inline" json:"-"`
}

type userJSON User

func (u User) MarshalJSON() ([]byte, error) {
	return encodeWithExtras(userJSON(u), u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var typed userJSON
	extra, err := decodeWithExtras(data, &typed, userKeys)
	if err != nil {
		return err
	}
	*u = User(typed)
	u.Extra = extra
	return nil
}

// TrimExtra drops extras that would shadow a typed field or cannot be stored.
func (u *User) TrimExtra() {
	u.Extra = extraFields(u.Extra, userKeys)
}

// Clone returns a copy that shares no mutable state with u.
func (u *User) Clone() *User {
	cp := *u
	cp.Extra = cloneExtra(u.Extra)
	return &cp
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
