package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureSpace_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fs      FeatureSpace
		wantErr error
	}{
		{"Empty", FeatureSpace{}, ErrEmptyInput},
		{"Nil", nil, ErrEmptyInput},
		{"Valid", FeatureSpace{{1, 2, 3}, {4, 5, 6}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fs.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFeatureSpace_ValidateRagged(t *testing.T) {
	fs := FeatureSpace{{1, 2, 3}, {4, 5}}
	err := fs.Validate()

	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Index)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
}

func TestFeatureSpace_ValidateZeroDim(t *testing.T) {
	fs := FeatureSpace{{}, {}}
	var id *ErrInvalidDimension
	require.ErrorAs(t, fs.Validate(), &id)
	assert.Equal(t, 0, id.Dimension)
}

func TestFeatureSpace_Clone(t *testing.T) {
	fs := FeatureSpace{{1, 2}, {3, 4}}
	c := fs.Clone()
	c[0][0] = 99

	assert.Equal(t, float32(1), fs[0][0])
	assert.Equal(t, Point{3, 4}, c[1])

	// Appending to a cloned point must not bleed into its neighbor.
	c[0] = append(c[0], 7)
	assert.Equal(t, Point{3, 4}, c[1])
}

func TestMaxima_Denormalize(t *testing.T) {
	m := Maxima{200, 100, 0}
	got := m.Denormalize(Point{0.5, 1, 0})
	assert.InDeltaSlice(t, []float32{100, 100, 0}, []float32(got), 1e-6)
}

func TestSegmentCollection_Labels(t *testing.T) {
	sc := SegmentCollection{
		{Mode: Point{0}, Indices: []int{0, 2}},
		{Mode: Point{1}, Indices: []int{1}},
	}

	assert.Equal(t, []int{0, 1, 0, -1}, sc.Labels(4))
	assert.Equal(t, 3, sc.TotalMembers())
	assert.Equal(t, 2, sc.Len())
}

func TestSegmentCollection_Clone(t *testing.T) {
	sc := SegmentCollection{{Mode: Point{0.5}, Indices: []int{0}}}
	c := sc.Clone()
	c[0].Mode[0] = 1
	c[0].Indices[0] = 9

	assert.Equal(t, float32(0.5), sc[0].Mode[0])
	assert.Equal(t, 0, sc[0].Indices[0])
}
