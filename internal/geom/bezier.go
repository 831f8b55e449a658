package geom

import "math"

// FitConfig configures the Bézier fitter (C13, spec.md §4.9).
type FitConfig struct {
	LambdaCurv       float32
	MaxErr           float32
	SplitAngleDeg    float32
	MaxIterations    int
	MinSegmentLength float32
	CornerRadius     int
	// MinCornerSpacingFrac is the fraction of total polyline length two
	// detected corners must be apart to both be kept (spec.md §9 "the
	// 10% rule is not justified... treat it as a heuristic knob and
	// expose it to config"). Default 0.1.
	MinCornerSpacingFrac float32
}

// DefaultFitConfig returns the spec.md §4.9 defaults.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		LambdaCurv:           0.01,
		MaxErr:               1.0,
		SplitAngleDeg:        32,
		MaxIterations:        10,
		MinSegmentLength:     2,
		CornerRadius:         2,
		MinCornerSpacingFrac: 0.1,
	}
}

const maxFitDepth = 8

// FitBezier fits a chain of cubic Béziers to pl: corners are detected
// and used to split the polyline into segments, each of which is fit
// independently and recursively subdivided until within MaxErr or the
// depth bound is reached (spec.md §4.9). The returned chain is
// G0-continuous at corners and C0-continuous within a split segment by
// construction.
func FitBezier(pl Polyline, cfg FitConfig) []CubicBezier {
	pts := pl.Points
	if len(pts) < 2 {
		return nil
	}
	corners := detectCorners(pts, cfg)
	var out []CubicBezier
	start := 0
	for _, c := range corners {
		if c > start {
			out = append(out, fitSegment(pts[start:c+1], cfg, 0)...)
			start = c
		}
	}
	if start < len(pts)-1 {
		out = append(out, fitSegment(pts[start:], cfg, 0)...)
	}
	return out
}

// detectCorners returns indices where the polyline turns sharper than
// SplitAngleDeg over a ±CornerRadius neighborhood, enforcing the
// minimum spacing rule.
func detectCorners(pts []Point2, cfg FitConfig) []int {
	n := len(pts)
	if n < 2*cfg.CornerRadius+2 {
		return nil
	}
	totalLen := (Polyline{Points: pts}).ArcLength()
	minSpacing := cfg.MinCornerSpacingFrac * totalLen
	splitRad := float64(cfg.SplitAngleDeg) * math.Pi / 180

	var corners []int
	var lastPos float32
	for i := cfg.CornerRadius; i < n-cfg.CornerRadius; i++ {
		a := pts[i-cfg.CornerRadius]
		b := pts[i]
		c := pts[i+cfg.CornerRadius]
		v1 := b.Sub(a).Norm()
		v2 := c.Sub(b).Norm()
		if v1 == (Point2{}) || v2 == (Point2{}) {
			continue
		}
		cosA := float64(v1.Dot(v2))
		if cosA > 1 {
			cosA = 1
		} else if cosA < -1 {
			cosA = -1
		}
		angle := math.Acos(cosA)
		if angle > splitRad {
			pos := (Polyline{Points: pts[:i+1]}).ArcLength()
			if len(corners) == 0 || pos-lastPos >= minSpacing {
				corners = append(corners, i)
				lastPos = pos
			}
		}
	}
	return corners
}

// fitSegment fits a single cubic (or chain, after subdivision) to pts.
func fitSegment(pts []Point2, cfg FitConfig, depth int) []CubicBezier {
	if len(pts) < 2 {
		return nil
	}
	if len(pts) == 2 || depth >= maxFitDepth {
		return []CubicBezier{straightLineCubic(pts[0], pts[len(pts)-1])}
	}

	curve, maxErr := fitCubic(pts, cfg)
	if maxErr <= cfg.MaxErr || depth >= maxFitDepth {
		return []CubicBezier{curve}
	}

	mid := len(pts) / 2
	left := fitSegment(pts[:mid+1], cfg, depth+1)
	right := fitSegment(pts[mid:], cfg, depth+1)
	return append(left, right...)
}

func straightLineCubic(a, b Point2) CubicBezier {
	d := b.Sub(a)
	return CubicBezier{
		P0: a,
		P1: a.Add(d.Scale(1.0 / 3)),
		P2: a.Add(d.Scale(2.0 / 3)),
		P3: b,
	}
}

// fitCubic estimates endpoint tangents, then iteratively adjusts the
// two control-point distances (alpha, beta) to minimize data error
// plus a curvature penalty, per spec.md §4.9 steps 1-3.
func fitCubic(pts []Point2, cfg FitConfig) (CubicBezier, float32) {
	p0, p3 := pts[0], pts[len(pts)-1]
	t0 := estimateTangent(pts, 0)
	t3 := estimateTangent(pts, len(pts)-1).Scale(-1)

	segLen := p0.Dist(p3)
	if segLen < 1e-6 {
		segLen = 1e-6
	}
	alpha := segLen / 3
	beta := segLen / 3

	curve := buildCubic(p0, p3, t0, t3, alpha, beta)
	errVal := curveError(curve, pts, cfg.LambdaCurv)

	const step = 0.1
	for it := 0; it < cfg.MaxIterations; it++ {
		improved := false
		for _, delta := range [2]float32{step * segLen, -step * segLen} {
			aTry := clampf(alpha+delta, 0.01, segLen)
			c := buildCubic(p0, p3, t0, t3, aTry, beta)
			e := curveError(c, pts, cfg.LambdaCurv)
			if e < errVal {
				errVal, alpha, curve = e, aTry, c
				improved = true
			}
		}
		for _, delta := range [2]float32{step * segLen, -step * segLen} {
			bTry := clampf(beta+delta, 0.01, segLen)
			c := buildCubic(p0, p3, t0, t3, alpha, bTry)
			e := curveError(c, pts, cfg.LambdaCurv)
			if e < errVal {
				errVal, beta, curve = e, bTry, c
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return curve, maxPointError(curve, pts)
}

func buildCubic(p0, p3, t0, t3 Point2, alpha, beta float32) CubicBezier {
	return CubicBezier{
		P0: p0,
		P1: p0.Add(t0.Scale(alpha)),
		P2: p3.Add(t3.Scale(beta)),
		P3: p3,
	}
}

// estimateTangent returns the unit tangent at pts[i] via a central
// difference for interior points and a forward/backward difference at
// the ends (spec.md §4.9 step 1).
func estimateTangent(pts []Point2, i int) Point2 {
	n := len(pts)
	switch {
	case n < 2:
		return Point2{1, 0}
	case i == 0:
		return pts[1].Sub(pts[0]).Norm()
	case i == n-1:
		return pts[n-1].Sub(pts[n-2]).Norm()
	default:
		return pts[i+1].Sub(pts[i-1]).Norm()
	}
}

// curveError combines mean squared data error against pts with a
// curvature penalty integrated over the curve via 10-sample trapezoid
// quadrature (spec.md §4.9 step 3).
func curveError(c CubicBezier, pts []Point2, lambda float32) float32 {
	var dataErr float32
	for _, p := range pts {
		d := nearestDistance(c, p)
		dataErr += d * d
	}
	dataErr /= float32(len(pts))

	const samples = 10
	var curvIntegral float32
	prev := c.Curvature(0)
	prev = prev * prev
	for s := 1; s <= samples; s++ {
		t := float32(s) / samples
		k := c.Curvature(t)
		k2 := k * k
		curvIntegral += (prev + k2) / 2 / samples
		prev = k2
	}

	return dataErr + lambda*curvIntegral
}

// maxPointError returns the maximum (not mean) nearest-point distance,
// the quantity spec.md §4.9 step 4 compares against max_err.
func maxPointError(c CubicBezier, pts []Point2) float32 {
	var maxD float32
	for _, p := range pts {
		d := nearestDistance(c, p)
		if d > maxD {
			maxD = d
		}
	}
	return maxD
}

// nearestDistance coarsely samples the curve to approximate the
// distance from p to the nearest point on it.
func nearestDistance(c CubicBezier, p Point2) float32 {
	const samples = 20
	best := float32(math.MaxFloat32)
	for s := 0; s <= samples; s++ {
		t := float32(s) / samples
		d := c.PointAt(t).Dist(p)
		if d < best {
			best = d
		}
	}
	return best
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
