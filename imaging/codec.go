package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registered for Decode only.
	_ "golang.org/x/image/webp"
)

// Format is an image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// Encodable reports whether Encode can write f. WebP is decode-only.
func (f Format) Encodable() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// ErrUnsupportedFormat is returned when an image format cannot be encoded.
var ErrUnsupportedFormat = errors.New("imaging: unsupported format")

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}
	return img, Format(name), nil
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// OutputFormatFromPath is FormatFromPath restricted to encodable formats.
func OutputFormatFromPath(path string) (Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}
	if !f.Encodable() {
		return "", fmt.Errorf("%w: %s is decode-only", ErrUnsupportedFormat, f)
	}
	return f, nil
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}
