package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a single workout entry recorded by a user. The optional
// certificate is a supporting document (e.g. a race result or course
// completion) backing up the claimed points.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Points      float64            `bson:"points" json:"points"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Link to the User who recorded this workout
	Certificate *Certificate       `bson:"certificate,omitempty" json:"certificate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutWithOwner is a Workout enriched with the owning user's display
// data, produced by the list lookup. The owner fields are joined in at
// read time, never stored redundantly on the workout document.
type WorkoutWithOwner struct {
	Workout    `bson:",inline"`
	OwnerName  string `bson:"ownerName" json:"ownerName"`
	OwnerEmail string `bson:"ownerEmail" json:"ownerEmail"`
}
