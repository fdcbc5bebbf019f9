package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor is listed on the portal. Image holds the raw uploaded picture;
// it is serialised as base64 in JSON.
type Doctor struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Image       []byte             `bson:"image" json:"image"`
	ContentType string             `bson:"contentType,omitempty" json:"contentType,omitempty"`
	ImageKey    string             `bson:"imageKey,omitempty" json:"-"`
	ImageURL    string             `bson:"-" json:"imageUrl,omitempty"`
}
