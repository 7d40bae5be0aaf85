package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is created invisible and becomes visible exactly once, through
// moderation approval. It never reverts.
type Photo struct {
	ID        primitive.ObjectID `json:"id" bson:"_id" validate:"required"`
	URI       string             `json:"uri" bson:"uri" validate:"required"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Visible   bool               `json:"visible" bson:"visible"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

func (p Photo) DocumentID() primitive.ObjectID { return p.ID }

// PhotoView is the public shape photos are delivered in.
type PhotoView struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}
