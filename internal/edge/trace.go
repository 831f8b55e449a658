package edge

import (
	"math"

	"github.com/esimov/vectorace/internal/geom"
)

// TraceParams configures the flow-guided tracer (spec.md §4.3).
type TraceParams struct {
	MinGrad      float32
	MinCoherency float32
	MaxGap       int
	MaxLen       int
	StepSize     float32
	MaxAngleDev  float32 // degrees
}

// DefaultTraceParams returns the spec.md §4.3 defaults.
func DefaultTraceParams() TraceParams {
	return TraceParams{
		MinGrad:      0.08,
		MinCoherency: 0.15,
		MaxGap:       4,
		MaxLen:       10000,
		StepSize:     0.5,
		MaxAngleDev:  30,
	}
}

type pixelKey struct{ x, y int }

// Trace seeds and traces polylines across the ETF field f. Trace
// normalizes f's gradient magnitude to [0,1] by its maximum; gradient
// values below minGrad after normalization never seed or extend a
// trace.
func Trace(f *Field, params TraceParams) []geom.Polyline {
	maxGrad := maxOf(f.Gradient)
	if maxGrad == 0 {
		maxGrad = 1
	}

	visited := make(map[pixelKey]bool)
	var result []geom.Polyline

	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			key := pixelKey{x, y}
			if visited[key] {
				continue
			}
			g := f.Gradient[y*f.W+x] / maxGrad
			coh := f.Coherency[y*f.W+x]
			if g < params.MinGrad || coh < params.MinCoherency {
				continue
			}

			tx, ty := f.TangentAt(x, y)
			start := geom.Point2{X: float32(x), Y: float32(y)}
			visited[key] = true

			fwd := traceDirection(f, start, tx, ty, params, maxGrad, visited)
			bwd := traceDirection(f, start, -tx, -ty, params, maxGrad, visited)

			pts := make([]geom.Point2, 0, len(fwd)+len(bwd)+1)
			for i := len(bwd) - 1; i >= 0; i-- {
				pts = append(pts, bwd[i])
			}
			pts = append(pts, start)
			pts = append(pts, fwd...)

			deduped := dedupClose(pts, params.StepSize*2)
			if len(deduped) >= 3 {
				result = append(result, geom.Polyline{Points: deduped})
			}
		}
	}
	return result
}

// traceDirection walks from start along (dx, dy) until a stopping
// condition fires, returning the visited points in walk order
// (excluding start itself).
func traceDirection(f *Field, start geom.Point2, dx, dy float32, params TraceParams, maxGrad float32, visited map[pixelKey]bool) []geom.Point2 {
	var out []geom.Point2
	pos := start
	curDx, curDy := normalize2(dx, dy)
	gap := 0

	for len(out) < params.MaxLen {
		pos = geom.Point2{X: pos.X + curDx*params.StepSize, Y: pos.Y + curDy*params.StepSize}
		xi, yi := int(pos.X+0.5), int(pos.Y+0.5)
		if xi < 0 || yi < 0 || xi >= f.W || yi >= f.H {
			break
		}

		idx := yi*f.W + xi
		g := f.Gradient[idx] / maxGrad
		coh := f.Coherency[idx]

		if g < params.MinGrad {
			gap++
			if gap > params.MaxGap {
				break
			}
		} else {
			gap = 0
		}
		if coh < params.MinCoherency {
			break
		}

		tx, ty := f.TangentAt(xi, yi)
		if tx*curDx+ty*curDy < 0 {
			tx, ty = -tx, -ty
		}
		angleDev := angleBetween(curDx, curDy, tx, ty)
		if angleDev > params.MaxAngleDev {
			break
		}
		curDx, curDy = tx, ty

		key := pixelKey{xi, yi}
		if visited[key] {
			break
		}
		visited[key] = true
		out = append(out, pos)

		if len(out) > 2 && int(start.X+0.5) == xi && int(start.Y+0.5) == yi {
			break
		}
	}
	return out
}

func normalize2(x, y float32) (float32, float32) {
	l := float32(math.Sqrt(float64(x*x + y*y)))
	if l < 1e-9 {
		return 1, 0
	}
	return x / l, y / l
}

func angleBetween(ax, ay, bx, by float32) float32 {
	dot := ax*bx + ay*by
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return float32(math.Acos(float64(dot)) * 180 / math.Pi)
}

func maxOf(xs []float32) float32 {
	var m float32
	for _, v := range xs {
		if v > m {
			m = v
		}
	}
	return m
}

// dedupClose removes consecutive points closer together than minDist,
// the spec.md §4.3 post-process step (polylines shorter than 3 points
// are the caller's responsibility to drop, since removing points here
// can itself shrink a trace below that length).
func dedupClose(pts []geom.Point2, minDist float32) []geom.Point2 {
	if len(pts) == 0 {
		return pts
	}
	out := make([]geom.Point2, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p.Dist(out[len(out)-1]) >= minDist {
			out = append(out, p)
		}
	}
	return out
}
