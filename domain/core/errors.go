package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)

	// Configuration errors
	ErrInvalidThresholds = errors.New("invalid classification thresholds")

	// Hierarchy errors
	ErrUnknownLevel    = errors.New("hierarchy level does not exist")
	ErrHeaderNotFound  = errors.New("header not found at the given location")
	ErrInvalidReorder  = errors.New("reorder must be a permutation of existing levels")
	ErrHeaderAssigned  = errors.New("header already assigned to a level")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewThresholdError(low, medium float64) error {
	return fmt.Errorf("%w: medium (%.3f) must be greater than low (%.3f)", ErrInvalidThresholds, medium, low)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidThresholds)
}
