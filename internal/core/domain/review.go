package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's rating of a tour. Tour and User are set at creation
// and never patched afterwards.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required"`
	Rating    int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour" validate:"required"`
	User      primitive.ObjectID `json:"user" bson:"user" validate:"required"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PrepareInsert resets the server-owned fields of a new review.
func (r *Review) PrepareInsert(at time.Time) {
	r.ID = primitive.NilObjectID
	r.CreatedAt = at
}
