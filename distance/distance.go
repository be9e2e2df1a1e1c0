package distance

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	b = b[:len(a)]
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// BoxedSquaredL2 is SquaredL2 with an axis-aligned box rejection.
//
// If any coordinate difference a[j]-b[j] lies outside [-radius, radius] the
// candidate is rejected (ok=false) without finishing the sum. The box contains
// the ball of the same radius, so rejection never discards a point that the
// exact ball test would accept.
func BoxedSquaredL2(a, b []float32, radius float32) (dist float32, ok bool) {
	b = b[:len(a)]
	neg := -radius
	for j := range a {
		d := a[j] - b[j]
		if d > radius || d < neg {
			return 0, false
		}
	}
	for j := range a {
		d := a[j] - b[j]
		dist += d * d
	}
	return dist, true
}
