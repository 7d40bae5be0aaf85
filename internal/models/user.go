package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id" validate:"required"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Password  string             `json:"-" bson:"password" validate:"required"`
	Admin     bool               `json:"admin" bson:"admin"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

func (u User) DocumentID() primitive.ObjectID { return u.ID }
