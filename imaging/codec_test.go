package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	src := checkerboard(8, 4, color.RGBA{R: 200, G: 30, B: 40, A: 255}, color.White)

	for _, f := range []Format{FormatPNG, FormatBMP, FormatTIFF, FormatGIF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f))

			img, got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, f, got)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, FormatPNG))
	img, _, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.RGBAAt(0, 0), ToRGBA(img).RGBAAt(0, 0))
}

func TestEncode_Unsupported(t *testing.T) {
	err := Encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), FormatWebP)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.png":      FormatPNG,
		"b.JPG":      FormatJPEG,
		"c.jpeg":     FormatJPEG,
		"d.tif":      FormatTIFF,
		"e.bmp":      FormatBMP,
		"f.gif":      FormatGIF,
		"dir/g.webp": FormatWebP,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOutputFormatFromPath(t *testing.T) {
	got, err := OutputFormatFromPath("out/seg.TIFF")
	require.NoError(t, err)
	assert.Equal(t, FormatTIFF, got)

	_, err = OutputFormatFromPath("seg.webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	for _, f := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF} {
		assert.True(t, f.Encodable(), f)
	}
	assert.False(t, FormatWebP.Encodable())
}
