package imaging

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/hupe1980/meanshift/model"
)

// DefaultMaxPixels bounds the image size handed to the segmenter.
const DefaultMaxPixels = 200000

// ToRGBA returns img as an *image.RGBA anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Downsample halves the image until it has at most maxPixels pixels.
// maxPixels <= 0 selects DefaultMaxPixels.
func Downsample(img image.Image, maxPixels int) *image.RGBA {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cur := ToRGBA(img)
	for {
		w, h := cur.Bounds().Dx(), cur.Bounds().Dy()
		if w*h <= maxPixels {
			return cur
		}
		dst := image.NewRGBA(image.Rect(0, 0, max(w/2, 1), max(h/2, 1)))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), cur, cur.Bounds(), xdraw.Src, nil)
		cur = dst
	}
}

// Extract builds a feature space from img. dim 3 yields (L, u, v) and
// dim 5 appends the pixel's row and column.
func Extract(img image.Image, dim int) (model.FeatureSpace, error) {
	if dim != 3 && dim != 5 {
		return nil, &model.ErrInvalidDimension{Dimension: dim}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, model.ErrEmptyInput
	}

	buf := make([]float32, w*h*dim)
	fs := make(model.FeatureSpace, 0, w*h)
	for row := range h {
		for col := range w {
			l, u, v := RGBToLuv(img.At(b.Min.X+col, b.Min.Y+row))
			p := model.Point(buf[:dim:dim])
			buf = buf[dim:]
			p[0], p[1], p[2] = l, u, v
			if dim == 5 {
				p[3], p[4] = float32(row), float32(col)
			}
			fs = append(fs, p)
		}
	}
	return fs, nil
}

// Render paints every member pixel with its segment's denormalized mode
// color. Pixels not covered by any segment stay black.
func Render(width, height int, segments model.SegmentCollection, maxima model.Maxima) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imaging: invalid size %dx%d", width, height)
	}
	if len(maxima) < 3 {
		return nil, &model.ErrInvalidDimension{Dimension: len(maxima)}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	n := width * height
	for s, seg := range segments {
		if len(seg.Mode) < 3 {
			return nil, &model.ErrDimensionMismatch{Index: s, Expected: len(maxima), Actual: len(seg.Mode)}
		}
		mode := maxima.Denormalize(seg.Mode)
		c := LuvToRGB(mode[0], mode[1], mode[2])
		for _, i := range seg.Indices {
			if i < 0 || i >= n {
				return nil, fmt.Errorf("imaging: segment %d member %d outside %dx%d image", s, i, width, height)
			}
			img.SetRGBA(i%width, i/width, c)
		}
	}
	return img, nil
}
