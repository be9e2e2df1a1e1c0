package meanshift

import (
	"errors"
	"fmt"

	"github.com/hupe1980/meanshift/internal/normalize"
	"github.com/hupe1980/meanshift/model"
)

var (
	// ErrEmptyInput is returned when the feature space has no points or was never supplied.
	ErrEmptyInput = model.ErrEmptyInput

	// ErrNonConvergence marks points whose mode iteration hit the iteration cap.
	ErrNonConvergence = errors.New("mode iteration did not converge")
)

// ErrDimensionMismatch indicates a ragged feature space.
type ErrDimensionMismatch = model.ErrDimensionMismatch

// ErrInvalidDimension indicates a feature space whose points have no coordinates.
type ErrInvalidDimension = model.ErrInvalidDimension

// InvalidCoordinateError indicates a negative or non-finite input coordinate.
type InvalidCoordinateError = normalize.InvalidCoordinateError

// ErrInvalidOption indicates a rejected configuration value.
type ErrInvalidOption struct {
	Name  string
	Value any
}

func (e *ErrInvalidOption) Error() string {
	return fmt.Sprintf("invalid option %s: %v", e.Name, e.Value)
}

// NonConvergenceError lists the points that hit the iteration cap.
// Their modes hold the last estimate. It wraps ErrNonConvergence.
type NonConvergenceError struct {
	Indices       []int
	MaxIterations int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%d points did not converge within %d iterations", len(e.Indices), e.MaxIterations)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }
