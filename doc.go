// Package meanshift segments a point set by mean-shift mode seeking.
//
// Every point of a feature space (typically per-pixel color, optionally with
// row and column) is moved uphill on the estimated density until it settles
// on a mode. Points whose modes settle close together are grouped into one
// segment.
//
// # Quick Start
//
//	eng, _ := meanshift.New(
//	    meanshift.WithRadius(0.1),
//	    meanshift.WithModeDistanceThreshold(0.05),
//	    meanshift.WithChangeTolerance(0.0002),
//	)
//	segments, err := eng.Segment(ctx, fs)
//	for _, s := range segments {
//	    fmt.Println(eng.Maxima().Denormalize(s.Mode), len(s.Indices))
//	}
//
// # Pipeline
//
//  1. Normalize: every dimension is divided by its maximum so one radius fits
//     color and pixel coordinates alike.
//  2. Seek: each point iterates to its mode in parallel. Neighbors are found by a
//     brute-force scan with axis-aligned box pruning.
//  3. Merge: modes are visited in index order; each joins the first segment
//     whose centroid is within the threshold, or starts a new one.
//
// Centroids are in normalized units; Engine.Maxima maps them back.
//
// # Termination
//
// The mode iteration is capped (WithMaxIterations). Points hitting the cap keep
// their last estimate; they are listed in Stats.NonConverged and reported by
// Engine.NonConvergence, but do not fail the run. Runs honor context
// cancellation between iterations.
package meanshift
