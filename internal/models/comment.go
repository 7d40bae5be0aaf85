package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is immutable once created.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id" validate:"required"`
	PhotoID   primitive.ObjectID `json:"photo_id" bson:"photo_id" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Text      string             `json:"text" bson:"text" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

func (c Comment) DocumentID() primitive.ObjectID { return c.ID }
