package modeseek

import (
	"context"
	"fmt"

	"github.com/hupe1980/meanshift/distance"
	"github.com/hupe1980/meanshift/model"
)

// Seeker holds the mean-shift parameters. The zero value is not usable.
type Seeker struct {
	// Radius is the neighborhood radius in normalized units.
	Radius float32
	// ChangeTolerance is the squared shift below which a mode is converged.
	ChangeTolerance float32
	// MaxIterations bounds the fixed-point iteration of a single point.
	MaxIterations int
}

// Outcome is the result of seeking one point's mode.
type Outcome struct {
	Mode       model.Point
	Iterations int
	// Converged is false when MaxIterations ran out; Mode is then the last estimate.
	Converged bool
}

// Validate checks the parameters.
func (s Seeker) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("modeseek: radius must be positive, got %v", s.Radius)
	}
	if !(s.ChangeTolerance > 0) {
		return fmt.Errorf("modeseek: change tolerance must be positive, got %v", s.ChangeTolerance)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("modeseek: max iterations must be positive, got %d", s.MaxIterations)
	}
	return nil
}

// FindMode runs the mean-shift iteration starting at space[index].
//
// Every pass scans the whole space. Candidates outside the axis-aligned box of
// half-width Radius are skipped before the squared distance is summed; the rest
// contribute to the mean when strictly inside the ball. The iteration stops
// when the mean moves less than ChangeTolerance (squared) or after
// MaxIterations passes.
func (s Seeker) FindMode(ctx context.Context, space model.FeatureSpace, index int) (Outcome, error) {
	if len(space) == 0 {
		return Outcome{}, model.ErrEmptyInput
	}
	if index < 0 || index >= len(space) {
		return Outcome{}, fmt.Errorf("modeseek: index %d out of range [0,%d)", index, len(space))
	}

	dim := len(space[index])
	radius := s.Radius
	radius2 := radius * radius

	mode := space[index].Clone()
	mean := make(model.Point, dim)

	for iter := 1; iter <= s.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		clear(mean)
		n := 0
		for _, cand := range space {
			d, ok := distance.BoxedSquaredL2(mode, cand, radius)
			if !ok || d >= radius2 {
				continue
			}
			for j := range mean {
				mean[j] += cand[j]
			}
			n++
		}

		// Unreachable while the query matches itself, kept for degenerate input.
		if n == 0 {
			return Outcome{Mode: mode, Iterations: iter, Converged: true}, nil
		}

		fn := float32(n)
		for j := range mean {
			mean[j] /= fn
		}

		if distance.SquaredL2(mean, mode) < s.ChangeTolerance {
			return Outcome{Mode: mean, Iterations: iter, Converged: true}, nil
		}

		mode, mean = mean, mode
	}

	return Outcome{Mode: mode, Iterations: s.MaxIterations, Converged: false}, nil
}
