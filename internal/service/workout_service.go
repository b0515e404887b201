package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout fields a client may change after creation. id, ownerId and
// createdAt are immutable; supplying them is rejected rather than
// silently dropped.
var mutableWorkoutFields = map[string]bool{
	"title":       true,
	"points":      true,
	"certificate": true,
}

// --- Service Interface ---
type WorkoutService interface {
	// List returns every workout, newest first, enriched with the owner's
	// display data. Listing is not owner-scoped: any authenticated user
	// sees all records. Only mutation is ownership-checked.
	List(ctx context.Context) ([]domain.WorkoutWithOwner, error)
	Get(ctx context.Context, id string) (*domain.Workout, error)
	// GetCertificate returns the certificate metadata plus its raw bytes,
	// for serving the document directly with its own content type.
	GetCertificate(ctx context.Context, id string) (*domain.Certificate, []byte, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, title, points string, file *IncomingFile) (*domain.Workout, error)
	Update(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, id string, fields map[string]string, file *IncomingFile) (*domain.Workout, error)
	Delete(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, id string) (*domain.Workout, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo         repository.WorkoutRepository
	attachments         *AttachmentHandler
	certificateRequired bool
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, attachments *AttachmentHandler, certificateRequired bool) WorkoutService {
	return &workoutService{
		workoutRepo:         workoutRepo,
		attachments:         attachments,
		certificateRequired: certificateRequired,
	}
}

// parsePoints parses a submitted point value. NaN and infinities are
// rejected along with unparseable input: a non-finite value would
// poison the report's point sums and cannot be rendered as JSON.
func parsePoints(points string) (float64, error) {
	value, err := strconv.ParseFloat(points, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{InvalidFields: []string{"points"}}
	}
	return value, nil
}

// parseWorkoutID converts a hex string into an ObjectID. A malformed
// identifier is indistinguishable from a missing record to the caller.
func parseWorkoutID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrWorkoutNotFound
	}
	return objectID, nil
}

func (s *workoutService) List(ctx context.Context) ([]domain.WorkoutWithOwner, error) {
	workouts, err := s.workoutRepo.GetAllWithOwners(ctx)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.WorkoutWithOwner{}
	}
	return workouts, nil
}

func (s *workoutService) Get(ctx context.Context, id string) (*domain.Workout, error) {
	objectID, err := parseWorkoutID(id)
	if err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) GetCertificate(ctx context.Context, id string) (*domain.Certificate, []byte, error) {
	workout, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if workout.Certificate == nil {
		return nil, nil, ErrCertificateNotFound
	}
	data, err := s.attachments.Fetch(ctx, workout.Certificate)
	if err != nil {
		return nil, nil, err
	}
	return workout.Certificate, data, nil
}

// Create validates the input, normalizes the certificate (if any) and
// persists a new workout. In referenced mode the certificate bytes are
// written to the byte store first; if the record insert then fails the
// freshly written object is rolled back so nothing references bytes
// that were never owned by a committed record.
func (s *workoutService) Create(ctx context.Context, ownerID primitive.ObjectID, title, points string, file *IncomingFile) (*domain.Workout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}

	var emptyFields []string
	if title == "" {
		emptyFields = append(emptyFields, "title")
	}
	if points == "" {
		emptyFields = append(emptyFields, "points")
	}
	if s.certificateRequired && file == nil {
		emptyFields = append(emptyFields, "certificate")
	}
	if len(emptyFields) > 0 {
		return nil, &ValidationError{EmptyFields: emptyFields}
	}

	pointsValue, err := parsePoints(points)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		Title:   title,
		Points:  pointsValue,
		OwnerID: ownerID,
	}

	if file != nil {
		cert, err := s.attachments.Process(ctx, ownerID, file)
		if err != nil {
			return nil, err
		}
		workout.Certificate = cert
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		// Two-phase rollback: the certificate bytes were written before
		// the record commit, so an insert failure leaves an orphan unless
		// we delete it here.
		if workout.Certificate != nil {
			s.attachments.ReleaseQuietly(ctx, workout.Certificate)
		}
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// Update applies a partial field replacement. Unspecified fields keep
// their prior values; a new certificate replaces (and releases) the old
// one. Only the owner, or an administrator, may update a workout.
func (s *workoutService) Update(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, id string, fields map[string]string, file *IncomingFile) (*domain.Workout, error) {
	objectID, err := parseWorkoutID(id)
	if err != nil {
		return nil, err
	}

	var immutable []string
	for name := range fields {
		if !mutableWorkoutFields[name] {
			immutable = append(immutable, name)
		}
	}
	if len(immutable) > 0 {
		sort.Strings(immutable)
		return nil, &ValidationError{ImmutableFields: immutable}
	}

	workout, err := s.workoutRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if !isAdmin && workout.OwnerID != callerID {
		return nil, ErrWorkoutAccessDenied
	}

	if title, ok := fields["title"]; ok {
		if title == "" {
			return nil, &ValidationError{EmptyFields: []string{"title"}}
		}
		workout.Title = title
	}
	if points, ok := fields["points"]; ok {
		pointsValue, err := parsePoints(points)
		if err != nil {
			return nil, err
		}
		workout.Points = pointsValue
	}

	previousCert := workout.Certificate
	if file != nil {
		cert, err := s.attachments.Process(ctx, workout.OwnerID, file)
		if err != nil {
			return nil, err
		}
		workout.Certificate = cert
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if file != nil && workout.Certificate != nil {
			// Roll back the new object; the record still points at the old one.
			s.attachments.ReleaseQuietly(ctx, workout.Certificate)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	// The record now owns the new certificate; the replaced bytes are no
	// longer reachable and can be released.
	if file != nil && previousCert != nil {
		s.attachments.ReleaseQuietly(ctx, previousCert)
	}

	return s.workoutRepo.GetByID(ctx, objectID)
}

// Delete removes a workout permanently and releases its referenced
// certificate bytes, if any. Only the owner, or an administrator, may
// delete a workout.
func (s *workoutService) Delete(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, id string) (*domain.Workout, error) {
	objectID, err := parseWorkoutID(id)
	if err != nil {
		return nil, err
	}

	workout, err := s.workoutRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if !isAdmin && workout.OwnerID != callerID {
		return nil, ErrWorkoutAccessDenied
	}

	if err := s.workoutRepo.Delete(ctx, objectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if workout.Certificate != nil {
		s.attachments.ReleaseQuietly(ctx, workout.Certificate)
	}

	return workout, nil
}
