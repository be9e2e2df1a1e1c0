// Package model defines the core types shared by every stage of the
// mean-shift pipeline.
//
// # Data Types
//
//   - Point: a fixed-dimension feature vector (color, optionally row/col)
//   - FeatureSpace: the ordered input points; the slice index is the point identity
//   - Maxima: per-dimension maxima captured during normalization
//   - ModeSet: one converged mode per input point
//   - Segment: a running centroid plus the indices of its members
//   - SegmentCollection: segments in creation order
//
// # Coordinates
//
// Modes and segment centroids are expressed in normalized units, i.e. every
// coordinate divided by the matching Maxima entry. Use Maxima.Denormalize to
// map a centroid back to the original feature space:
//
//	color := maxima.Denormalize(segments[0].Mode)
package model
