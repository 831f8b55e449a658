package region

import (
	"math"
	"sort"

	"github.com/esimov/vectorace/internal/labcolor"
)

// GradientKind distinguishes a linear from a radial fit, or no fit
// (flat fallback), per spec.md §4.7.
type GradientKind int

const (
	GradientNone GradientKind = iota
	GradientLinear
	GradientRadial
)

// Stop is one color stop of a fitted gradient.
type Stop struct {
	Offset float32 // 0..1
	Color  labcolor.Lab
}

// Fill is the result of FitGradient: either a gradient with stops, or
// GradientNone with FlatColor set to the region's mean Lab.
type Fill struct {
	Kind      GradientKind
	Stops     []Stop
	FlatColor labcolor.Lab
	// Axis is the principal axis direction for GradientLinear, unused
	// for GradientRadial (which is defined purely by centroid distance).
	AxisX, AxisY     float32
	CenterX, CenterY float32
}

// RegionPixel is one sample fed to FitGradient: its image-space
// position and Lab color.
type RegionPixel struct {
	X, Y int
	Lab  labcolor.Lab
}

// NewRegionPixel builds a RegionPixel from sRGB components.
func NewRegionPixel(x, y int, r, g, b uint8) RegionPixel {
	return RegionPixel{X: x, Y: y, Lab: labcolor.FromRGB(r, g, b)}
}

// FitGradient attempts a linear or radial gradient fit for a region's
// pixels, falling back to a flat mean-Lab fill when no fit clears its
// acceptance threshold (spec.md §4.7). Fewer than 10 pixels always
// yield the flat fill.
func FitGradient(pixels []RegionPixel, maxStops int) Fill {
	mean := meanLab(pixels)
	flat := Fill{Kind: GradientNone, FlatColor: mean}
	if len(pixels) < 10 {
		return flat
	}

	cx, cy := centroid(pixels)
	axisX, axisY, varianceRatio := principalAxis(pixels, cx, cy)

	if varianceRatio < 0.1 {
		if fit, ok := tryLinearFit(pixels, cx, cy, axisX, axisY, maxStops, mean); ok {
			return fit
		}
	} else if varianceRatio > 0.3 {
		if fit, ok := tryRadialFit(pixels, cx, cy, maxStops, mean); ok {
			return fit
		}
	}
	return flat
}

func meanLab(pixels []RegionPixel) labcolor.Lab {
	var sum labcolor.Lab
	for _, p := range pixels {
		sum.L += p.Lab.L
		sum.A += p.Lab.A
		sum.B += p.Lab.B
	}
	n := float32(len(pixels))
	return labcolor.Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}
}

func centroid(pixels []RegionPixel) (float32, float32) {
	var sx, sy float32
	for _, p := range pixels {
		sx += float32(p.X)
		sy += float32(p.Y)
	}
	n := float32(len(pixels))
	return sx / n, sy / n
}

// principalAxis computes the 2x2 covariance of (x,y) and returns the
// dominant eigenvector direction and the variance ratio λ2/(λ1+λ2).
func principalAxis(pixels []RegionPixel, cx, cy float32) (axisX, axisY, ratio float32) {
	var sxx, syy, sxy float32
	for _, p := range pixels {
		dx, dy := float32(p.X)-cx, float32(p.Y)-cy
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	n := float32(len(pixels))
	sxx /= n
	syy /= n
	sxy /= n

	trace := sxx + syy
	det := sxx*syy - sxy*sxy
	disc := trace*trace/4 - det
	if disc < 0 {
		disc = 0
	}
	sq := float32(math.Sqrt(float64(disc)))
	l1 := trace/2 + sq
	l2 := trace/2 - sq
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	if l1+l2 <= 1e-6 {
		return 1, 0, 0
	}
	ratio = l2 / (l1 + l2)

	// Eigenvector for l1: (sxy, l1 - sxx) normalized, falling back to
	// the x axis when sxy is ~0 (axis-aligned covariance).
	if absf32(sxy) < 1e-6 {
		if sxx >= syy {
			return 1, 0, ratio
		}
		return 0, 1, ratio
	}
	vx, vy := sxy, l1-sxx
	l := float32(math.Sqrt(float64(vx*vx + vy*vy)))
	return vx / l, vy / l, ratio
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func tryLinearFit(pixels []RegionPixel, cx, cy, axisX, axisY float32, maxStops int, mean labcolor.Lab) (Fill, bool) {
	projs := make([]projLab, len(pixels))
	minT, maxT := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for i, p := range pixels {
		dx, dy := float32(p.X)-cx, float32(p.Y)-cy
		t := dx*axisX + dy*axisY
		projs[i] = projLab{t: t, lab: p.Lab}
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	if maxT-minT < 5 {
		return Fill{}, false
	}
	sort.Slice(projs, func(i, j int) bool { return projs[i].t < projs[j].t })

	stops := buildStops(projs, minT, maxT, maxStops)
	reduction := errorReduction(pixels, mean, func(p RegionPixel) labcolor.Lab {
		dx, dy := float32(p.X)-cx, float32(p.Y)-cy
		t := dx*axisX + dy*axisY
		offset := (t - minT) / (maxT - minT)
		return sampleStops(stops, offset)
	})
	if reduction <= 0.2 {
		return Fill{}, false
	}
	return Fill{Kind: GradientLinear, Stops: stops, AxisX: axisX, AxisY: axisY, CenterX: cx, CenterY: cy}, true
}

func tryRadialFit(pixels []RegionPixel, cx, cy float32, maxStops int, mean labcolor.Lab) (Fill, bool) {
	projs := make([]projLab, len(pixels))
	minT, maxT := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for i, p := range pixels {
		dx, dy := float32(p.X)-cx, float32(p.Y)-cy
		t := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		projs[i] = projLab{t: t, lab: p.Lab}
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	if maxT-minT < 5 {
		return Fill{}, false
	}
	sort.Slice(projs, func(i, j int) bool { return projs[i].t < projs[j].t })

	stops := buildStops(projs, minT, maxT, maxStops)
	reduction := errorReduction(pixels, mean, func(p RegionPixel) labcolor.Lab {
		dx, dy := float32(p.X)-cx, float32(p.Y)-cy
		t := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		offset := (t - minT) / (maxT - minT)
		return sampleStops(stops, offset)
	})
	if reduction <= 0.25 {
		return Fill{}, false
	}
	return Fill{Kind: GradientRadial, Stops: stops, CenterX: cx, CenterY: cy}, true
}

type projLab struct {
	t   float32
	lab labcolor.Lab
}

// buildStops picks 2 or 3 (or up to maxStops) quantile stops depending
// on the color variance along the sorted projections (spec.md §4.7).
func buildStops(ps []projLab, minT, maxT float32, maxStops int) []Stop {
	n := len(ps)
	first, last := ps[0].lab, ps[n-1].lab
	labVariance := labcolor.DeltaE(first, last)

	numStops := maxStops
	switch {
	case labVariance < 5:
		numStops = 2
	case labVariance < 15:
		numStops = 3
	}
	if numStops > maxStops {
		numStops = maxStops
	}
	if numStops < 2 {
		numStops = 2
	}

	stops := make([]Stop, numStops)
	for i := 0; i < numStops; i++ {
		offset := float32(i) / float32(numStops-1)
		idx := int(offset * float32(n-1))
		stops[i] = Stop{Offset: offset, Color: ps[idx].lab}
	}
	return stops
}

func sampleStops(stops []Stop, offset float32) labcolor.Lab {
	if offset <= stops[0].Offset {
		return stops[0].Color
	}
	if offset >= stops[len(stops)-1].Offset {
		return stops[len(stops)-1].Color
	}
	for i := 1; i < len(stops); i++ {
		if offset <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			t := (offset - a.Offset) / (b.Offset - a.Offset)
			return labcolor.Lab{
				L: a.Color.L + (b.Color.L-a.Color.L)*t,
				A: a.Color.A + (b.Color.A-a.Color.A)*t,
				B: a.Color.B + (b.Color.B-a.Color.B)*t,
			}
		}
	}
	return stops[len(stops)-1].Color
}

// errorReduction compares the mean ΔE of a flat fill against the mean
// ΔE when sampling sampleAt at each pixel, per spec.md §4.7.
func errorReduction(pixels []RegionPixel, flat labcolor.Lab, sampleAt func(RegionPixel) labcolor.Lab) float32 {
	var flatErr, gradErr float32
	for _, p := range pixels {
		flatErr += labcolor.DeltaE(p.Lab, flat)
		gradErr += labcolor.DeltaE(p.Lab, sampleAt(p))
	}
	n := float32(len(pixels))
	flatErr /= n
	gradErr /= n
	if flatErr == 0 {
		return 0
	}
	return (flatErr - gradErr) / flatErr
}
