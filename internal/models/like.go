package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like carries no uniqueness constraint: a user may like the same photo
// more than once and the likes accumulate.
type Like struct {
	ID        primitive.ObjectID `json:"id" bson:"_id" validate:"required"`
	PhotoID   primitive.ObjectID `json:"photo_id" bson:"photo_id" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

func (l Like) DocumentID() primitive.ObjectID { return l.ID }
