package repository

import (
	"context"

	"workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
// Reads beyond the login lookup happen inside the aggregation pipelines,
// not through this interface.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// GetAllWithOwners returns every workout, newest first, with the
	// owner's name and email joined in.
	GetAllWithOwners(ctx context.Context) ([]domain.WorkoutWithOwner, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ReportRepository produces the cross-user aggregation report. It reads
// the workouts collection directly rather than going through
// WorkoutRepository, because the report needs a multi-stage
// group/join/project pipeline, not a filtered read.
type ReportRepository interface {
	GroupWorkoutsByUser(ctx context.Context) ([]domain.UserPointsGroup, error)
}
