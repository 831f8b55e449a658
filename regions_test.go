package vectorace

import "testing"

func fourQuadrantRaster(w, h int) Raster {
	pix := make([]uint8, w*h*4)
	colors := [4][3]uint8{{220, 40, 40}, {40, 200, 60}, {40, 60, 220}, {230, 220, 30}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			q := 0
			if x >= w/2 {
				q++
			}
			if y >= h/2 {
				q += 2
			}
			i := (y*w + x) * 4
			c := colors[q]
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c[0], c[1], c[2], 255
		}
	}
	return Raster{W: w, H: h, Pix: pix}
}

func TestTraceRegionsProducesWellFormedSVG(t *testing.T) {
	r := fourQuadrantRaster(48, 48)
	cfg := DefaultRegionsConfig()
	cfg.QuantizeK = 4
	svg, err := TraceRegions(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svg[:4] != "<svg" {
		t.Fatalf("expected SVG output, got %q", svg)
	}
}

func TestTraceRegionsWithPredicateMergeMode(t *testing.T) {
	r := fourQuadrantRaster(32, 32)
	cfg := DefaultRegionsConfig()
	cfg.QuantizeK = 4
	cfg.MergeMode = MergePredicateDeltaE
	svg, err := TraceRegions(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svg) == 0 {
		t.Fatal("expected non-empty SVG under predicate merge mode")
	}
}

func TestTraceRegionsRejectsInvalidRaster(t *testing.T) {
	_, err := TraceRegions(Raster{}, DefaultRegionsConfig())
	if err == nil {
		t.Fatal("expected an error for an empty raster")
	}
}
