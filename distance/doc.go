// Package distance provides the vector distance calculations used by mode
// seeking and segment merging.
//
// Every function works on squared Euclidean distance so that callers can
// compare against squared thresholds without taking a square root.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	d, ok := distance.BoxedSquaredL2(query, candidate, radius)
package distance
