package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Same", []float32{0.5, 0.25}, []float32{0.5, 0.25}, 0},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{-1}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestBoxedSquaredL2(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float32
		radius float32
		wantOK bool
		want   float32
	}{
		{"Inside", []float32{0.5, 0.5}, []float32{0.55, 0.45}, 0.1, true, 0.005},
		{"OutsidePositive", []float32{0.5, 0.5}, []float32{0.3, 0.5}, 0.1, false, 0},
		{"OutsideNegative", []float32{0.5, 0.5}, []float32{0.5, 0.7}, 0.1, false, 0},
		// Inside the box but outside the ball: accepted by the box, caller compares radius².
		{"CornerOfBox", []float32{0, 0}, []float32{0.09, 0.09}, 0.1, true, 0.0162},
		{"Self", []float32{0.2, 0.3, 0.4}, []float32{0.2, 0.3, 0.4}, 0.1, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoxedSquaredL2(tt.a, tt.b, tt.radius)
			require.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-5)
		})
	}
}

func TestBoxedSquaredL2_AgreesWithBall(t *testing.T) {
	const radius = float32(0.1)
	query := []float32{0.5, 0.5, 0.5}

	for x := float32(0.3); x <= 0.7; x += 0.01 {
		for y := float32(0.3); y <= 0.7; y += 0.01 {
			cand := []float32{x, y, 0.5}
			exact := SquaredL2(query, cand) < radius*radius
			boxed, ok := BoxedSquaredL2(query, cand, radius)
			assert.Equal(t, exact, ok && boxed < radius*radius, "x=%v y=%v", x, y)
		}
	}
}
