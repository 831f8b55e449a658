// Package labcolor implements the sRGB↔CIELAB conversion used by every
// color-aware stage of the pipeline (quantizer, SLIC, gradient fill,
// region merge predicates). The teacher (esimov/caire) never leaves
// the RGB/grayscale domain — this is new domain math grounded on
// spec.md §3/§8 (invariant 7, round-trip ≤1 per channel) rather than on
// a teacher file, using the RGBA-accessor idiom from grayscale.go for
// how pixel values are pulled out of a raster.
package labcolor

import "math"

// Lab is a CIELAB color with the D65 white point.
type Lab struct {
	L, A, B float32
}

// D65 reference white in XYZ, normalized so Y=100.
const (
	xn = 95.047
	yn = 100.000
	zn = 108.883
)

// FromRGB converts an 8-bit sRGB triple to Lab.
func FromRGB(r, g, b uint8) Lab {
	rl := srgbToLinear(float64(r) / 255)
	gl := srgbToLinear(float64(g) / 255)
	bl := srgbToLinear(float64(b) / 255)

	// sRGB -> XYZ (D65)
	x := (rl*0.4124564 + gl*0.3575761 + bl*0.1804375) * 100
	y := (rl*0.2126729 + gl*0.7151522 + bl*0.0721750) * 100
	z := (rl*0.0193339 + gl*0.1191920 + bl*0.9503041) * 100

	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)

	return Lab{
		L: float32(116*fy - 16),
		A: float32(500 * (fx - fy)),
		B: float32(200 * (fy - fz)),
	}
}

// ToRGB converts Lab back to 8-bit sRGB, clamping each channel to
// [0, 255].
func (c Lab) ToRGB() (r, g, b uint8) {
	fy := (float64(c.L) + 16) / 116
	fx := fy + float64(c.A)/500
	fz := fy - float64(c.B)/200

	x := xn * labFInv(fx)
	y := yn * labFInv(fy)
	z := zn * labFInv(fz)

	x /= 100
	y /= 100
	z /= 100

	rl := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	gl := x*-0.9692660 + y*1.8760108 + z*0.0415560
	bl := x*0.0556434 + y*-0.2040259 + z*1.0572252

	return clamp8(linearToSRGB(rl) * 255), clamp8(linearToSRGB(gl) * 255), clamp8(linearToSRGB(bl) * 255)
}

// DeltaE returns the Euclidean distance between two Lab colors (ΔE76).
func DeltaE(a, b Lab) float32 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return float32(math.Sqrt(float64(dl*dl + da*da + db*db)))
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0 {
		return 0
	}
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
