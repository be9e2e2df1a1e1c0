// Package imaging turns images into feature spaces and segmentations back
// into images.
//
// Colors are converted to CIE L*u*v* using the 8-bit scaling OpenCV
// applies to CV_8UC3 images, so every coordinate lies in [0, 255]:
//
//	L8 = L * 255/100
//	u8 = (u + 134) * 255/354
//	v8 = (v + 140) * 255/262
//
// Extract emits (L, u, v) points for dim 3 and (L, u, v, row, col) for
// dim 5, in row-major order. Point i therefore maps back to pixel
// (i / width, i % width), which is what Render relies on.
//
// Supported input formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Output
// supports all of them except WebP.
package imaging
