package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"workout-tracker/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==== Fake report repository ====

type fakeReportRepo struct {
	groups []domain.UserPointsGroup
	err    error
}

func (r *fakeReportRepo) GroupWorkoutsByUser(context.Context) ([]domain.UserPointsGroup, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.groups, nil
}

// ==== Tests ====

func TestReportRequiresAdministrator(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{})

	_, err := svc.WorkoutsByUser(context.Background(), false)
	require.ErrorIs(t, err, ErrReportAccessDenied)
}

func TestReportReturnsGroupsPerUser(t *testing.T) {
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	now := time.Now().UTC()

	repo := &fakeReportRepo{groups: []domain.UserPointsGroup{
		{
			OwnerID:     userA,
			TotalPoints: 30,
			Workouts: []domain.WorkoutDigest{
				{Title: "Run", Points: 10, CreatedAt: now},
				{Title: "Swim", Points: 20, CreatedAt: now},
			},
			User: domain.OwnerDetails{Name: "Alice", Email: "alice@example.com"},
		},
		{
			OwnerID:     userB,
			TotalPoints: 5,
			Workouts: []domain.WorkoutDigest{
				{Title: "Walk", Points: 5, CreatedAt: now},
			},
			User: domain.OwnerDetails{Name: "Bob", Email: "bob@example.com"},
		},
	}}
	svc := NewReportService(repo)

	groups, err := svc.WorkoutsByUser(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Equal(t, 30.0, groups[0].TotalPoints)
	require.Len(t, groups[0].Workouts, 2)
	require.Equal(t, "alice@example.com", groups[0].User.Email)

	require.Equal(t, 5.0, groups[1].TotalPoints)
	require.Len(t, groups[1].Workouts, 1)
}

func TestReportFailureIsAllOrNothing(t *testing.T) {
	repo := &fakeReportRepo{err: errors.New("lookup stage failed")}
	svc := NewReportService(repo)

	groups, err := svc.WorkoutsByUser(context.Background(), true)
	require.ErrorIs(t, err, ErrAggregationFailed)
	require.Nil(t, groups)
}
