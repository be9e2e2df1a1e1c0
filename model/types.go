package model

import (
	"errors"
	"fmt"
	"slices"
)

// ErrEmptyInput is returned when a stage receives no points.
var ErrEmptyInput = errors.New("empty input")

// ErrDimensionMismatch is a named error type for dimension mismatch.
type ErrDimensionMismatch struct {
	Index    int // Index of the offending point
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at point %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// ErrInvalidDimension indicates a feature space whose points have no coordinates.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// Point is a feature vector. All points of a FeatureSpace share one dimension.
type Point []float32

// Clone returns a deep copy of the point.
func (p Point) Clone() Point {
	return slices.Clone(p)
}

// FeatureSpace is the ordered set of input points.
type FeatureSpace []Point

// Len returns the number of points.
func (fs FeatureSpace) Len() int { return len(fs) }

// Dim returns the dimension of the first point, or 0 for an empty space.
func (fs FeatureSpace) Dim() int {
	if len(fs) == 0 {
		return 0
	}
	return len(fs[0])
}

// Validate checks that the space is non-empty and not ragged.
func (fs FeatureSpace) Validate() error {
	if len(fs) == 0 {
		return ErrEmptyInput
	}
	dim := fs.Dim()
	if dim == 0 {
		return &ErrInvalidDimension{Dimension: dim}
	}
	for i, p := range fs {
		if len(p) != dim {
			return &ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(p)}
		}
	}
	return nil
}

// Clone returns a deep copy backed by a single contiguous allocation.
func (fs FeatureSpace) Clone() FeatureSpace {
	if fs == nil {
		return nil
	}
	out := make(FeatureSpace, len(fs))
	total := 0
	for _, p := range fs {
		total += len(p)
	}
	buf := make([]float32, total)
	off := 0
	for i, p := range fs {
		n := copy(buf[off:off+len(p)], p)
		out[i] = Point(buf[off : off+n : off+n])
		off += n
	}
	return out
}

// ModeSet holds the converged mode of every input point, index for index.
type ModeSet []Point

// Clone returns a deep copy.
func (ms ModeSet) Clone() ModeSet {
	return ModeSet(FeatureSpace(ms).Clone())
}

// Maxima holds the per-dimension maximum observed before normalization.
type Maxima []float32

// Denormalize maps a point in normalized units back to the original space.
// Dimensions with a zero maximum were never scaled and map to zero.
func (m Maxima) Denormalize(p Point) Point {
	out := make(Point, len(p))
	for j := range p {
		if j < len(m) {
			out[j] = p[j] * m[j]
		}
	}
	return out
}

// Segment is one cluster of points whose modes converged together.
type Segment struct {
	// Mode is the running centroid in normalized units.
	Mode Point
	// Indices lists the member points in ascending order.
	Indices []int
}

// Size returns the number of members.
func (s Segment) Size() int { return len(s.Indices) }

// Clone returns a deep copy of the segment.
func (s Segment) Clone() Segment {
	return Segment{Mode: s.Mode.Clone(), Indices: slices.Clone(s.Indices)}
}

// SegmentCollection is the ordered list of segments, first-discovered first.
type SegmentCollection []Segment

// Len returns the number of segments.
func (sc SegmentCollection) Len() int { return len(sc) }

// TotalMembers returns the sum of all segment sizes.
func (sc SegmentCollection) TotalMembers() int {
	n := 0
	for _, s := range sc {
		n += len(s.Indices)
	}
	return n
}

// Labels returns, for each of n points, the index of the segment owning it.
// Points not covered by any segment are labeled -1.
func (sc SegmentCollection) Labels(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for si, s := range sc {
		for _, idx := range s.Indices {
			if idx >= 0 && idx < n {
				labels[idx] = si
			}
		}
	}
	return labels
}

// Clone returns a deep copy.
func (sc SegmentCollection) Clone() SegmentCollection {
	if sc == nil {
		return nil
	}
	out := make(SegmentCollection, len(sc))
	for i, s := range sc {
		out[i] = s.Clone()
	}
	return out
}
