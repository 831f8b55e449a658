package vectorace

import (
	"github.com/esimov/vectorace/internal/edge"
	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/svgdoc"
)

// TraceEdge runs the Edge backend: preprocess, compute edge tangent
// flow, trace, simplify, optionally fit Béziers, emit (spec.md §4.11).
// Grounded on processor.go:Process's rescale-then-carve composition,
// generalized from "resize loop" to "preprocess -> algorithm ->
// simplify -> emit".
func TraceEdge(r Raster, cfg EdgeConfig) (string, error) {
	if err := r.validate(cfg.Shared.MaxPixels); err != nil {
		return "", err
	}
	if err := cfg.validate(); err != nil {
		return "", err
	}
	log := cfg.Shared.logger()

	if allTransparent(r.Pix) {
		return svgdoc.Render(svgdoc.Document{Width: r.W, Height: r.H}), nil
	}

	pre, err := runPreprocess(r, &cfg.Shared, false)
	if err != nil {
		return "", err
	}
	log.Debugf("edge: preprocess done")

	field := edge.ComputeETF(pre.gray, cfg.ETFRadius, cfg.ETFIterations)
	log.Debugf("edge: ETF computed")

	polylines := edge.Trace(field, edge.TraceParams{
		MinGrad:      cfg.MinGrad,
		MinCoherency: cfg.MinCoherency,
		MaxGap:       cfg.MaxGap,
		MaxLen:       cfg.MaxLen,
		StepSize:     cfg.StepSize,
		MaxAngleDev:  cfg.MaxAngleDev,
	})
	log.Infof("edge: traced %d polylines", len(polylines))

	diagonal := diagonalOf(r.W, r.H)
	epsilon := geom.Epsilon(diagonal, cfg.SimplifyDetail)
	strokeWidth := cfg.StrokePxAt1080p * diagonal / referenceDiagonal

	var paths []svgdoc.Path
	for _, pl := range polylines {
		simplified := geom.DouglasPeucker(pl, epsilon)
		if simplified.Len() < 2 {
			continue
		}
		stroke := "#000000"
		if cfg.LinePreserveColors {
			stroke = midpointColor(pre.pix, r.W, r.H, simplified)
		}
		if cfg.FitBezier {
			curves := geom.FitBezier(simplified, geom.DefaultFitConfig())
			if len(curves) == 0 {
				continue
			}
			paths = append(paths, svgdoc.Path{Curves: curves, Stroke: stroke, StrokeWidth: strokeWidth})
		} else {
			paths = append(paths, svgdoc.Path{Curves: straightCubics(simplified), Stroke: stroke, StrokeWidth: strokeWidth})
		}
	}

	doc := svgdoc.Document{Width: r.W, Height: r.H, Paths: paths}
	return svgdoc.Render(doc), nil
}

func diagonalOf(w, h int) float32 {
	return geom.Point2{X: float32(w), Y: float32(h)}.Len()
}

// referenceDiagonal is the divisor that scales stroke widths from the
// 1080p reference (spec.md §6 stroke_px_at_1080p): the emitted width is
// StrokePxAt1080p·√((W²+H²)/1920²), i.e. the image diagonal over 1920.
var referenceDiagonal float32 = 1920

// midpointColor samples pix at the polyline's midpoint and returns it
// as a hex color, used for LinePreserveColors instead of a flat black
// stroke (spec.md §6).
func midpointColor(pix []uint8, w, h int, pl geom.Polyline) string {
	mid := pl.Points[len(pl.Points)/2]
	x := clampInt(int(mid.X), 0, w-1)
	y := clampInt(int(mid.Y), 0, h-1)
	i := (y*w + x) * 4
	return rgbHex(pix[i], pix[i+1], pix[i+2])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// straightCubics turns a polyline into a chain of straight-line cubics
// (control points at the spec.md §4.9 fallback thirds), used when
// Bézier fitting is disabled.
func straightCubics(pl geom.Polyline) []geom.CubicBezier {
	pts := pl.Points
	out := make([]geom.CubicBezier, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		out = append(out, geom.CubicBezier{
			P0: a,
			P1: a.Add(d.Scale(1.0 / 3)),
			P2: a.Add(d.Scale(2.0 / 3)),
			P3: b,
		})
	}
	return out
}
