package vectorace

import (
	"fmt"
	"strings"
	"testing"
)

func formatStrokeWidthForTest(v float32) string {
	return fmt.Sprintf(`stroke-width="%.2f"`, v)
}

func verticalStripeRaster(w, h int) Raster {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := uint8(30)
			if x >= w/2 {
				v = 220
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return Raster{W: w, H: h, Pix: pix}
}

func flatRaster(w, h int) Raster {
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = 128, 128, 128, 255
	}
	return Raster{W: w, H: h, Pix: pix}
}

func TestTraceEdgeProducesWellFormedSVG(t *testing.T) {
	r := verticalStripeRaster(32, 32)
	cfg := DefaultEdgeConfig()
	cfg.Shared.NoiseFilter = false
	svg, err := TraceEdge(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svg) == 0 {
		t.Fatal("expected non-empty SVG")
	}
	if svg[:4] != "<svg" {
		t.Fatalf("expected SVG to start with <svg, got %q", svg)
	}
}

func TestTraceEdgeRejectsInvalidRaster(t *testing.T) {
	r := Raster{W: 0, H: 0}
	_, err := TraceEdge(r, DefaultEdgeConfig())
	if err == nil {
		t.Fatal("expected an error for an invalid raster")
	}
}

func TestTraceEdgeScalesStrokeWidthToResolution(t *testing.T) {
	r := verticalStripeRaster(32, 32)
	cfg := DefaultEdgeConfig()
	cfg.Shared.NoiseFilter = false
	cfg.StrokePxAt1080p = 4
	svg, err := TraceEdge(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 4 * diagonalOf(32, 32) / referenceDiagonal
	if !strings.Contains(svg, formatStrokeWidthForTest(want)) {
		t.Fatalf("expected scaled stroke-width %v in SVG, got %q", want, svg)
	}
}

func TestTraceEdgeLinePreserveColorsSamplesMidpoint(t *testing.T) {
	r := verticalStripeRaster(32, 32)
	cfg := DefaultEdgeConfig()
	cfg.Shared.NoiseFilter = false
	cfg.LinePreserveColors = true
	svg, err := TraceEdge(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(svg, `stroke="#000000"`) {
		t.Fatalf("expected LinePreserveColors to avoid the flat black stroke, got %q", svg)
	}
}

func TestTraceEdgeOnFlatImageYieldsDegenerateSVG(t *testing.T) {
	r := flatRaster(16, 16)
	svg, err := TraceEdge(r, DefaultEdgeConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svg) == 0 {
		t.Fatal("expected a degenerate SVG, not empty output")
	}
}
