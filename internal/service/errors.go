package service

import (
	"errors"
	"strings"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound         = errors.New("no such workout")
	ErrCertificateNotFound     = errors.New("workout has no certificate")
	ErrInvalidAttachmentFormat = errors.New("certificate must be a pdf, jpg, jpeg or png file")
	ErrEmptyAttachment         = errors.New("certificate file is empty")
	ErrWorkoutAccessDenied     = errors.New("access denied to modify this workout")
	ErrReportAccessDenied      = errors.New("access denied: administrator role required")
	ErrAggregationFailed       = errors.New("failed to aggregate workouts by user")
	ErrStorageUnavailable      = errors.New("certificate storage unavailable")
)

// ValidationError reports every offending input field at once, so a
// client can highlight all of them without re-deriving the rules.
type ValidationError struct {
	EmptyFields     []string // required fields that were missing or blank
	InvalidFields   []string // fields present but unparseable
	ImmutableFields []string // fields that may never be changed after creation
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.EmptyFields) > 0 {
		parts = append(parts, "please fill in all the fields: "+strings.Join(e.EmptyFields, ", "))
	}
	if len(e.InvalidFields) > 0 {
		parts = append(parts, "invalid value for: "+strings.Join(e.InvalidFields, ", "))
	}
	if len(e.ImmutableFields) > 0 {
		parts = append(parts, "field cannot be changed: "+strings.Join(e.ImmutableFields, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
