package imaging

import (
	"image/color"
	"math"
)

// D65 white point chromaticity.
const (
	whiteU = 0.19793943
	whiteV = 0.46831096
)

// RGBToLuv converts an sRGB color to 8-bit scaled L*u*v*. Results are
// rounded to integers in [0, 255].
func RGBToLuv(c color.Color) (l, u, v float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	r := linearize(float64(n.R) / 255)
	g := linearize(float64(n.G) / 255)
	b := linearize(float64(n.B) / 255)

	x := 0.412453*r + 0.357580*g + 0.180423*b
	y := 0.212671*r + 0.715160*g + 0.072169*b
	z := 0.019334*r + 0.119193*g + 0.950227*b

	var L float64
	if y > 0.008856 {
		L = 116*math.Cbrt(y) - 16
	} else {
		L = 903.3 * y
	}

	var U, V float64
	if d := x + 15*y + 3*z; d > 0 {
		U = 13 * L * (4*x/d - whiteU)
		V = 13 * L * (9*y/d - whiteV)
	}

	return saturate(L * 255 / 100), saturate((U + 134) * 255 / 354), saturate((V + 140) * 255 / 262)
}

// LuvToRGB converts 8-bit scaled L*u*v* back to an opaque sRGB color.
func LuvToRGB(l, u, v float32) color.RGBA {
	L := float64(l) * 100 / 255
	U := float64(u)*354/255 - 134
	V := float64(v)*262/255 - 140

	if L <= 0 {
		return color.RGBA{A: 255}
	}

	var y float64
	if L > 8 {
		y = math.Pow((L+16)/116, 3)
	} else {
		y = L / 903.3
	}

	up := U/(13*L) + whiteU
	vp := V/(13*L) + whiteV

	var x, z float64
	if vp != 0 {
		x = 9 * y * up / (4 * vp)
		z = y * (12 - 3*up - 20*vp) / (4 * vp)
	}

	r := 3.240479*x - 1.53715*y - 0.498535*z
	g := -0.969256*x + 1.875991*y + 0.041556*z
	b := 0.055648*x - 0.204043*y + 1.057311*z

	return color.RGBA{
		R: uint8(saturate(255 * delinearize(r))),
		G: uint8(saturate(255 * delinearize(g))),
		B: uint8(saturate(255 * delinearize(b))),
		A: 255,
	}
}

func linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func delinearize(c float64) float64 {
	c = min(max(c, 0), 1)
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func saturate(x float64) float32 {
	return float32(min(max(math.Round(x), 0), 255))
}
