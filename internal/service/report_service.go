package service

import (
	"context"
	"fmt"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"
)

// --- Service Interface ---
type ReportService interface {
	// WorkoutsByUser produces the admin report: every workout grouped by
	// owning user with the per-user point total and the owner's display
	// data. Users with no workouts do not appear. All-or-nothing: any
	// pipeline failure returns an error, never a partial report.
	WorkoutsByUser(ctx context.Context, isAdmin bool) ([]domain.UserPointsGroup, error)
}

// --- Service Implementation ---

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new instance of reportService.
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{
		reportRepo: reportRepo,
	}
}

func (s *reportService) WorkoutsByUser(ctx context.Context, isAdmin bool) ([]domain.UserPointsGroup, error) {
	if !isAdmin {
		return nil, ErrReportAccessDenied
	}

	groups, err := s.reportRepo.GroupWorkoutsByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}
	return groups, nil
}
