// Package merge groups converged modes into segments.
//
// Modes are visited once, in index order. Each mode joins the first existing
// segment, in creation order, whose centroid lies within the squared distance
// threshold; otherwise it starts a new segment. The first match wins even if
// a later segment is closer, and the result depends on visiting order, so the
// merge is strictly sequential.
package merge

import (
	"fmt"

	"github.com/hupe1980/meanshift/distance"
	"github.com/hupe1980/meanshift/model"
)

// CentroidUpdate selects the divisor of the incremental centroid update
// mode += (m - mode) / divisor.
type CentroidUpdate int

const (
	// UpdateReference divides by the member count before the new member is
	// appended. This reproduces the reference segmentation numerically.
	UpdateReference CentroidUpdate = iota
	// UpdateRunningMean divides by the member count after appending, keeping
	// the centroid equal to the arithmetic mean of the member modes.
	UpdateRunningMean
)

func (u CentroidUpdate) String() string {
	switch u {
	case UpdateReference:
		return "reference"
	case UpdateRunningMean:
		return "running-mean"
	default:
		return fmt.Sprintf("Unknown(%d)", u)
	}
}

// ParseCentroidUpdate maps a name produced by String back to its value.
func ParseCentroidUpdate(s string) (CentroidUpdate, error) {
	switch s {
	case "", "reference":
		return UpdateReference, nil
	case "running-mean":
		return UpdateRunningMean, nil
	default:
		return 0, fmt.Errorf("merge: unknown centroid update %q", s)
	}
}

// Merge partitions modes into segments.
//
// threshold is a squared distance in normalized units. Every index of modes
// ends up in exactly one segment; member lists are ascending.
func Merge(modes model.ModeSet, threshold float32, update CentroidUpdate) (model.SegmentCollection, error) {
	if len(modes) == 0 {
		return nil, model.ErrEmptyInput
	}
	if !(threshold > 0) {
		return nil, fmt.Errorf("merge: threshold must be positive, got %v", threshold)
	}

	var segments model.SegmentCollection

	for i, m := range modes {
		found := false
		for j := range segments {
			seg := &segments[j]
			if distance.SquaredL2(seg.Mode, m) >= threshold {
				continue
			}

			divisor := float32(len(seg.Indices))
			if update == UpdateRunningMean {
				divisor++
			}
			for k := range seg.Mode {
				seg.Mode[k] += (m[k] - seg.Mode[k]) / divisor
			}
			seg.Indices = append(seg.Indices, i)
			found = true
			break
		}

		if !found {
			segments = append(segments, model.Segment{
				Mode:    m.Clone(),
				Indices: []int{i},
			})
		}
	}

	return segments, nil
}
