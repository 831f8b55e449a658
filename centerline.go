package vectorace

import (
	"github.com/esimov/vectorace/internal/centerline"
	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/svgdoc"
)

// TraceCenterline runs the Centerline backend: preprocess, threshold,
// morphology, distance transform, ridge walk, simplify, emit (spec.md
// §4.4, §4.11).
func TraceCenterline(r Raster, cfg CenterlineConfig) (string, error) {
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

	shared := cfg.resolveThreshold()
	pre, err := runPreprocess(r, &shared, true)
	if err != nil {
		return "", err
	}
	log.Debugf("centerline: preprocess done, %d foreground px", pre.mask.ForegroundCount())

	if pre.mask.ForegroundCount() == 0 {
		return svgdoc.Render(svgdoc.Document{Width: r.W, Height: r.H}), nil
	}

	field := centerline.DistanceTransform(pre.mask)
	ridges := centerline.DetectRidges(field, centerline.RidgeParams{
		RidgeThreshold:   cfg.RidgeThreshold,
		MinRidgeStrength: cfg.MinRidgeStrength,
	})
	polylines := centerline.RidgeWalk(ridges, cfg.MinBranchLength)
	log.Infof("centerline: %d ridge polylines", len(polylines))

	diagonal := diagonalOf(r.W, r.H)
	epsilon := geom.Epsilon(diagonal, cfg.SimplifyDetail)
	strokeWidth := cfg.StrokePxAt1080p * diagonal / referenceDiagonal

	var paths []svgdoc.Path
	for _, pl := range polylines {
		simplified := geom.DouglasPeucker(pl, epsilon)
		if simplified.Len() < 2 {
			continue
		}
		paths = append(paths, svgdoc.Path{Curves: straightCubics(simplified), Stroke: "#000000", StrokeWidth: strokeWidth})
	}

	return svgdoc.Render(svgdoc.Document{Width: r.W, Height: r.H, Paths: paths}), nil
}
