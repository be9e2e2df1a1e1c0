// Package normalize rescales a feature space so that one radius is
// meaningful across heterogeneous dimensions.
package normalize

import (
	"fmt"
	"math"

	"github.com/hupe1980/meanshift/model"
)

// InvalidCoordinateError reports a coordinate that cannot be normalized into [0, 1].
type InvalidCoordinateError struct {
	Index int
	Dim   int
	Value float32
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate at point %d dim %d: %v", e.Index, e.Dim, e.Value)
}

// Result describes a completed normalization.
type Result struct {
	// Maxima holds the observed maximum of every dimension.
	Maxima model.Maxima
	// Degenerate lists dimensions whose maximum is zero. They are left unscaled.
	Degenerate []int
}

// Normalize divides every coordinate by its dimension's maximum, in place.
//
// The space must be non-empty and not ragged. Coordinates must be finite and
// non-negative. A dimension whose maximum is zero holds only zeros and is
// treated as already normalized.
func Normalize(fs model.FeatureSpace) (Result, error) {
	if err := fs.Validate(); err != nil {
		return Result{}, err
	}

	dim := fs.Dim()
	maxima := make(model.Maxima, dim)

	for i, p := range fs {
		for j, v := range p {
			if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return Result{}, &InvalidCoordinateError{Index: i, Dim: j, Value: v}
			}
			if v > maxima[j] {
				maxima[j] = v
			}
		}
	}

	var degenerate []int
	scale := make([]float32, dim)
	for j, m := range maxima {
		if m == 0 {
			degenerate = append(degenerate, j)
			continue
		}
		scale[j] = m
	}

	for _, p := range fs {
		for j := range p {
			if scale[j] != 0 {
				p[j] /= scale[j]
			}
		}
	}

	return Result{Maxima: maxima, Degenerate: degenerate}, nil
}
