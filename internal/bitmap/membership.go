package bitmap

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/meanshift/model"
)

// Membership is a set of point indices.
type Membership struct {
	rb *roaring.Bitmap
}

// New creates a new empty membership set.
func New() *Membership {
	return &Membership{rb: roaring.New()}
}

// FromIndices builds a set from a list of indices.
func FromIndices(indices []int) *Membership {
	m := New()
	for _, i := range indices {
		m.Add(i)
	}
	return m
}

// Add adds an index to the set.
func (m *Membership) Add(i int) {
	m.rb.Add(uint32(i))
}

// Cardinality returns the number of indices in the set.
func (m *Membership) Cardinality() int {
	return int(m.rb.GetCardinality())
}

// All iterates the indices in ascending order.
func (m *Membership) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := m.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Indices returns the indices in ascending order.
func (m *Membership) Indices() []int {
	out := make([]int, 0, m.Cardinality())
	for i := range m.All() {
		out = append(out, i)
	}
	return out
}

// MarshalBinary serializes the set in the portable Roaring format.
func (m *Membership) MarshalBinary() ([]byte, error) {
	m.rb.RunOptimize()
	return m.rb.ToBytes()
}

// UnmarshalBinary replaces the set with the serialized one.
func (m *Membership) UnmarshalBinary(data []byte) error {
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("bitmap: %w", err)
	}
	m.rb = rb
	return nil
}

// CoverageError reports indices that are not covered exactly once.
type CoverageError struct {
	Missing    int // indices in [0,n) owned by no segment
	Duplicates int // indices owned by more than one segment
	OutOfRange int // indices outside [0,n)
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("segment coverage violated: %d missing, %d duplicated, %d out of range",
		e.Missing, e.Duplicates, e.OutOfRange)
}

// Coverage checks that every index in [0,n) belongs to exactly one segment.
func Coverage(segments model.SegmentCollection, n int) error {
	seen := New()
	var cerr CoverageError
	for _, s := range segments {
		for _, idx := range s.Indices {
			if idx < 0 || idx >= n {
				cerr.OutOfRange++
				continue
			}
			if !seen.rb.CheckedAdd(uint32(idx)) {
				cerr.Duplicates++
			}
		}
	}
	cerr.Missing = n - seen.Cardinality()
	if cerr.Missing != 0 || cerr.Duplicates != 0 || cerr.OutOfRange != 0 {
		return &cerr
	}
	return nil
}
