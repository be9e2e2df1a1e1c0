package testutil

import (
	"image/color"
	"testing"

	"github.com/hupe1980/meanshift/model"
	"github.com/stretchr/testify/assert"
)

func TestUniformSpace(t *testing.T) {
	rng := NewRNG(4711)

	fs := rng.UniformSpace(8, 5, 255)

	assert.Len(t, fs, 8)
	assert.NoError(t, fs.Validate())
	for _, p := range fs {
		for _, v := range p {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(255))
		}
	}
}

func TestClusteredSpace(t *testing.T) {
	rng := NewRNG(4711)
	centers := []model.Point{{10, 100}, {200, 50}}

	fs := rng.ClusteredSpace(25, 0.1, centers...)

	assert.Len(t, fs, 50)
	for i, p := range fs {
		c := centers[i/25]
		for j := range p {
			assert.InDelta(t, c[j], p[j], float64(c[j])*0.05+1e-6)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformSpace(1, 10, 1)

	rng.Reset()
	v2 := rng.UniformSpace(1, 10, 1)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestFillUniformRange(t *testing.T) {
	rng := NewRNG(1)
	dst := make([]float32, 100)
	rng.FillUniformRange(dst, 10, 20)
	for _, v := range dst {
		assert.GreaterOrEqual(t, v, float32(10))
		assert.LessOrEqual(t, v, float32(20))
	}
}

func TestBlockImage(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	img := BlockImage(6, 2, 2, red, blue)

	assert.Equal(t, red, img.RGBAAt(0, 1))
	assert.Equal(t, blue, img.RGBAAt(2, 0))
	assert.Equal(t, red, img.RGBAAt(5, 1))
}
