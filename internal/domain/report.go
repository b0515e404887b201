package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutDigest is the slimmed-down projection of a workout used inside
// the admin report. Certificate payloads are deliberately left out: a
// report row must stay small no matter how large the attachments are.
type WorkoutDigest struct {
	Title     string    `bson:"title" json:"title"`
	Points    float64   `bson:"points" json:"points"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OwnerDetails carries the user display data joined into a report group.
type OwnerDetails struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// UserPointsGroup is one row of the admin aggregation report: all of a
// single user's workouts plus their point total. Users with no workouts
// produce no group.
type UserPointsGroup struct {
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	TotalPoints float64            `bson:"totalPoints" json:"totalPoints"`
	Workouts    []WorkoutDigest    `bson:"workouts" json:"workouts"`
	User        OwnerDetails       `bson:"user" json:"user"`
}
