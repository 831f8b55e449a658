package vectorace

import (
	"strings"
	"testing"
)

func thickBarRaster(w, h int) Raster {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := uint8(250)
			if y > h/3 && y < 2*h/3 {
				v = 10
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return Raster{W: w, H: h, Pix: pix}
}

func TestTraceCenterlineProducesWellFormedSVG(t *testing.T) {
	r := thickBarRaster(40, 40)
	svg, err := TraceCenterline(r, DefaultCenterlineConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svg[:4] != "<svg" {
		t.Fatalf("expected SVG output, got %q", svg)
	}
}

func TestTraceCenterlineOnBlankImageIsDegenerate(t *testing.T) {
	r := flatRaster(16, 16)
	cfg := DefaultCenterlineConfig()
	cfg.Shared.ThresholdAlgorithm = 0
	svg, err := TraceCenterline(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svg) == 0 {
		t.Fatal("expected a degenerate SVG for a blank image")
	}
}

func TestTraceCenterlineScalesStrokeWidthToResolution(t *testing.T) {
	r := thickBarRaster(40, 40)
	cfg := DefaultCenterlineConfig()
	cfg.StrokePxAt1080p = 3
	svg, err := TraceCenterline(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 3 * diagonalOf(40, 40) / referenceDiagonal
	if !strings.Contains(svg, formatStrokeWidthForTest(want)) {
		t.Fatalf("expected scaled stroke-width %v in SVG, got %q", want, svg)
	}
}

func TestTraceCenterlineAdaptiveThresholdRuns(t *testing.T) {
	r := thickBarRaster(40, 40)
	cfg := DefaultCenterlineConfig()
	cfg.EnableAdaptiveThreshold = true
	svg, err := TraceCenterline(r, cfg)
	if err != nil {
		t.Fatalf("unexpected error with adaptive threshold enabled: %v", err)
	}
	if svg[:4] != "<svg" {
		t.Fatalf("expected SVG output, got %q", svg)
	}
}

func TestTraceCenterlineRejectsInvalidConfig(t *testing.T) {
	r := thickBarRaster(10, 10)
	cfg := DefaultCenterlineConfig()
	cfg.RidgeThreshold = -1
	_, err := TraceCenterline(r, cfg)
	if err == nil {
		t.Fatal("expected an error for a negative ridge threshold")
	}
}
