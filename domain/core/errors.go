package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Recoverable lookup failures
	ErrNotFound       = errors.New("resource not found")
	ErrRowNotFound    = fmt.Errorf("%w: no data available", ErrNotFound)
	ErrCutoffMissing  = fmt.Errorf("%w: no cutoff rank", ErrNotFound)
	ErrSessionMissing = fmt.Errorf("%w: session", ErrNotFound)

	// Recoverable validation failures
	ErrValidation      = errors.New("invalid selection")
	ErrIncompletePicks = fmt.Errorf("%w: please make valid selections for Category, College, and Branch", ErrValidation)
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrNotSelecting    = fmt.Errorf("%w: session not started", ErrValidation)

	// Informational
	ErrEmptyList = errors.New("no selections made yet")

	// Fatal dataset problems
	ErrLoad        = errors.New("unable to load dataset")
	ErrSchemaDrift = fmt.Errorf("%w: unexpected schema", ErrLoad)

	ErrInvalidInput = errors.New("invalid input")
)

// NewRowNotFoundError reports a (college, branch) pair absent from the dataset
func NewRowNotFoundError(college, branch, category string) error {
	return fmt.Errorf("%w for %s in %s under %s", ErrRowNotFound, college, branch, category)
}

// NewCutoffMissingError reports a row without a numeric value for a category
func NewCutoffMissingError(college, branch, category string) error {
	return fmt.Errorf("%w for %s in %s under %s", ErrCutoffMissing, college, branch, category)
}

// NewSchemaError reports a dataset whose columns do not match expectations
func NewSchemaError(reason string) error {
	return fmt.Errorf("%w: %s", ErrSchemaDrift, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsEmptyListError(err error) bool {
	return errors.Is(err, ErrEmptyList)
}

func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad)
}
