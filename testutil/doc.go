// Package testutil provides deterministic data generators for tests,
// examples and benchmarks.
//
//	rng := testutil.NewRNG(seed)
//	fs := rng.ClusteredSpace(40, 0.02, model.Point{50, 50, 50}, model.Point{200, 200, 200})
//	img := testutil.BlockImage(64, 48, 4, colors...)
package testutil
