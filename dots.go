package vectorace

import (
	"github.com/esimov/vectorace/internal/dots"
	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/svgdoc"
)

// circleKappa approximates a quarter circle with a cubic Bézier
// (the standard 4-curve circle construction).
const circleKappa = 0.5522847498

// TraceDots runs the Dots backend: optional preprocessing, stipple
// placement, emit (spec.md §4.8, §4.11).
func TraceDots(r Raster, cfg DotsConfig) (string, error) {
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

	pix := r.Pix
	if cfg.PreprocessFirst {
		pre, err := runPreprocess(r, &cfg.Shared, false)
		if err != nil {
			return "", err
		}
		pix = pre.pix
	}

	placed := dots.Place(pix, r.W, r.H, cfg.placeParams())
	log.Infof("dots: placed %d stipples", len(placed))

	paths := make([]svgdoc.Path, 0, len(placed))
	for _, d := range placed {
		paths = append(paths, svgdoc.Path{
			Curves:     circleCubics(d.X, d.Y, d.Radius),
			Closed:     true,
			SignedArea: d.Radius * d.Radius,
			Fill:       rgbHex(d.R, d.G, d.B),
			Opacity:    d.Opacity,
		})
	}

	return svgdoc.Render(svgdoc.Document{Width: r.W, Height: r.H, Paths: paths}), nil
}

// circleCubics builds the 4-curve cubic Bézier approximation of a
// circle centered at (cx, cy) with the given radius.
func circleCubics(cx, cy, radius float32) []geom.CubicBezier {
	k := radius * circleKappa
	n, e, s, w := geom.Point2{X: cx, Y: cy - radius}, geom.Point2{X: cx + radius, Y: cy}, geom.Point2{X: cx, Y: cy + radius}, geom.Point2{X: cx - radius, Y: cy}
	return []geom.CubicBezier{
		{P0: n, P1: geom.Point2{X: cx + k, Y: cy - radius}, P2: geom.Point2{X: cx + radius, Y: cy - k}, P3: e},
		{P0: e, P1: geom.Point2{X: cx + radius, Y: cy + k}, P2: geom.Point2{X: cx + k, Y: cy + radius}, P3: s},
		{P0: s, P1: geom.Point2{X: cx - k, Y: cy + radius}, P2: geom.Point2{X: cx - radius, Y: cy + k}, P3: w},
		{P0: w, P1: geom.Point2{X: cx - radius, Y: cy - k}, P2: geom.Point2{X: cx - k, Y: cy - radius}, P3: n},
	}
}
