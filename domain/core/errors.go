package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrPaperNotFound = fmt.Errorf("%w: paper", ErrNotFound)
	ErrPlanNotFound  = fmt.Errorf("%w: plan", ErrNotFound)
	ErrRunNotFound   = fmt.Errorf("%w: run", ErrNotFound)

	// Plan errors
	ErrPlanInvalid = errors.New("invalid plan document")

	// Materialization errors
	ErrUploadMissing   = errors.New("uploaded dataset file missing on disk")
	ErrUnknownSource   = errors.New("unknown dataset source")
	ErrNotebookInvalid = errors.New("generated notebook failed validation")
	ErrEmptyNotebook   = errors.New("notebook has no cells")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewPlanInvalidError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrPlanInvalid, field, reason)
}

func NewUploadMissingError(path string) error {
	return fmt.Errorf("%w: %s", ErrUploadMissing, path)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
