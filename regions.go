package vectorace

import (
	"math/rand"

	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/region"
	"github.com/esimov/vectorace/internal/svgdoc"
)

// TraceRegions runs the Regions backend: preprocess, quantize, SLIC,
// build the region adjacency graph, merge, optionally fit gradients
// per region, trace boundaries, simplify, emit (spec.md §4.5-§4.7,
// §4.11).
func TraceRegions(r Raster, cfg RegionsConfig) (string, error) {
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

	quantizeParams := region.QuantizeParams{
		K:                    cfg.QuantizeK,
		ConvergenceThreshold: cfg.QuantizeConvergenceThreshold,
		MaxIterations:        cfg.QuantizeMaxIterations,
		MergeThreshold:       cfg.QuantizeMergeThreshold,
		Rand:                 rand.New(rand.NewSource(1)),
	}
	palette := region.Quantize(pre.pix, r.W, r.H, quantizeParams)
	log.Debugf("regions: quantized to %d colors", len(palette.LabCenters))

	slicResult := region.SLIC(pre.pix, r.W, r.H, region.SLICParams{
		K:           cfg.QuantizeK * 4,
		Compactness: cfg.SLICCompactness,
		Iterations:  cfg.SLICIterations,
	})
	log.Debugf("regions: SLIC produced %d superpixels", slicResult.Count)

	graph := region.BuildGraph(pre.pix, slicResult.Labels, r.W, r.H)

	switch cfg.MergeMode {
	case MergeFelzenszwalbHuttenlocher:
		graph = region.MergeFH(graph, cfg.FHConstant, cfg.FHMinSize)
	default:
		if pred, ok := cfg.mergePredicate(); ok {
			graph = region.MergePredicatePass(graph, pred, cfg.PredicateMaxIterations)
		}
	}
	log.Infof("regions: merged to %d regions", len(graph.Regions))

	diagonal := diagonalOf(r.W, r.H)
	epsilon := geom.Epsilon(diagonal, cfg.SimplifyDetail)

	var paths []svgdoc.Path
	var gradients []svgdoc.Gradient

	for _, reg := range graph.Regions {
		if reg.Area == 0 {
			continue
		}
		boundary := region.TraceBoundary(graph.Labels, r.W, r.H, reg.ID)
		if boundary.Len() < 3 {
			continue
		}
		simplified := geom.DouglasPeucker(boundary, epsilon)
		if simplified.Len() < 3 {
			continue
		}
		curves := geom.FitBezier(simplified, geom.DefaultFitConfig())
		if len(curves) == 0 {
			continue
		}

		path := svgdoc.Path{Curves: curves, Closed: true, SignedArea: simplified.SignedArea()}

		if cfg.FitGradients {
			pixels := collectRegionPixels(pre.pix, graph.Labels, r.W, r.H, reg.ID)
			fill := region.FitGradient(pixels, cfg.MaxGradientStops)
			if fill.Kind != region.GradientNone {
				id := svgdoc.NextGradientID(len(gradients))
				gradients = append(gradients, svgdoc.Gradient{
					ID: id, Kind: fill.Kind, Stops: fill.Stops,
					AxisX: fill.AxisX, AxisY: fill.AxisY,
					CenterX: fill.CenterX, CenterY: fill.CenterY,
					Width: r.W, Height: r.H,
				})
				path.GradientID = id
			} else {
				rr, gg, bb := fill.FlatColor.ToRGB()
				path.Fill = rgbHex(rr, gg, bb)
			}
		} else {
			rr, gg, bb := reg.MeanLab.ToRGB()
			path.Fill = rgbHex(rr, gg, bb)
		}

		paths = append(paths, path)
	}

	return svgdoc.Render(svgdoc.Document{Width: r.W, Height: r.H, Paths: paths, Gradients: gradients}), nil
}

// collectRegionPixels gathers every pixel belonging to regionID, with
// its image coordinates, for gradient fitting.
func collectRegionPixels(pix []uint8, labels []int, w, h, regionID int) []region.RegionPixel {
	var out []region.RegionPixel
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if labels[idx] != regionID {
				continue
			}
			out = append(out, region.NewRegionPixel(x, y, pix[idx*4], pix[idx*4+1], pix[idx*4+2]))
		}
	}
	return out
}

func rgbHex(r, g, b uint8) string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 7)
	buf[0] = '#'
	buf[1], buf[2] = hex[r>>4], hex[r&0xf]
	buf[3], buf[4] = hex[g>>4], hex[g&0xf]
	buf[5], buf[6] = hex[b>>4], hex[b&0xf]
	return string(buf)
}
