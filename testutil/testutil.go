package testutil

import (
	"image"
	"image/color"
	"math/rand"
	"sync"

	"github.com/hupe1980/meanshift/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// UniformSpace generates num points of the given dimension with
// coordinates in [0, maxVal). Uses a single backing array.
func (r *RNG) UniformSpace(num, dim int, maxVal float32) model.FeatureSpace {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	fs := make(model.FeatureSpace, num)
	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = r.rand.Float32() * maxVal
		}
		fs[i] = p
	}
	return fs
}

// ClusteredSpace returns perCenter points around each center, grouped by
// center in argument order. Each coordinate is jittered by up to
// ±jitter/2 of its own value, so clusters never cross zero.
func (r *RNG) ClusteredSpace(perCenter int, jitter float32, centers ...model.Point) model.FeatureSpace {
	r.mu.Lock()
	defer r.mu.Unlock()

	fs := make(model.FeatureSpace, 0, perCenter*len(centers))
	for _, c := range centers {
		for range perCenter {
			p := make(model.Point, len(c))
			for j := range p {
				p[j] = c[j] + (r.rand.Float32()-0.5)*c[j]*jitter
			}
			fs = append(fs, p)
		}
	}
	return fs
}

// BlockImage returns a width x height image tiled with vertical stripes of
// stripe pixels, cycling through colors.
func BlockImage(width, height, stripe int, colors ...color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(colors) == 0 || stripe <= 0 {
		return img
	}
	for y := range height {
		for x := range width {
			img.Set(x, y, colors[(x/stripe)%len(colors)])
		}
	}
	return img
}
