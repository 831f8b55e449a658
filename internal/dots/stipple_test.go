package dots

import "testing"

func textureRaster(w, h int) []uint8 {
	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := uint8((x*7 + y*13) % 256)
			pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = v, v, v, 255
		}
	}
	return pix
}

func flatRaster(w, h int) []uint8 {
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = 128, 128, 128, 255
	}
	return pix
}

func defaultParams() Params {
	return Params{
		VarianceRadius:   2,
		DensityThreshold: 5,
		MinRadius:        0.5,
		MaxRadius:        2,
		AdaptiveSizing:   true,
		SpacingFactor:    1.2,
		DefaultR:         0, DefaultG: 0, DefaultB: 0,
		Style:    StyleNone,
		RandSeed: 7,
	}
}

func TestPlaceProducesNoOverlap(t *testing.T) {
	pix := textureRaster(40, 40)
	dots := Place(pix, 40, 40, defaultParams())
	for i := 0; i < len(dots); i++ {
		for j := i + 1; j < len(dots); j++ {
			dx, dy := dots[i].X-dots[j].X, dots[i].Y-dots[j].Y
			dist := dx*dx + dy*dy
			minDist := (dots[i].Radius + dots[j].Radius) * defaultParams().SpacingFactor
			if dist < minDist*minDist-1e-3 {
				t.Fatalf("dots %d and %d violate spacing constraint", i, j)
			}
		}
	}
}

func TestPlaceEmptyOnFlatImage(t *testing.T) {
	pix := flatRaster(20, 20)
	dots := Place(pix, 20, 20, defaultParams())
	if len(dots) != 0 {
		t.Fatalf("expected no dots placed on a texture-free image, got %d", len(dots))
	}
}

func TestPlaceDeterministicForSameSeed(t *testing.T) {
	pix := textureRaster(30, 30)
	params := defaultParams()
	params.Style = StyleSketchStyle
	a := Place(pix, 30, 30, params)
	b := Place(pix, 30, 30, params)
	if len(a) != len(b) {
		t.Fatalf("expected deterministic dot count, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical dot at index %d, got %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStyleFineStipplingCapsRadius(t *testing.T) {
	pix := textureRaster(30, 30)
	params := defaultParams()
	params.Style = StyleFineStippling
	dots := Place(pix, 30, 30, params)
	for _, d := range dots {
		if d.Radius > 1.0001 {
			t.Fatalf("expected FineStippling to cap radius at 1, got %v", d.Radius)
		}
	}
}

func TestStyleTechnicalDrawingFullOpacity(t *testing.T) {
	pix := textureRaster(30, 30)
	params := defaultParams()
	params.Style = StyleTechnicalDrawing
	dots := Place(pix, 30, 30, params)
	for _, d := range dots {
		if d.Opacity != 1 {
			t.Fatalf("expected TechnicalDrawing to force full opacity, got %v", d.Opacity)
		}
	}
}

func TestBackgroundToleranceExcludesBorderColor(t *testing.T) {
	// A textured image with a uniform gray border ring: without a
	// tolerance the border itself can contribute candidates, but with
	// one set wide enough no dot should land with that border color.
	pix := textureRaster(30, 30)
	for x := 0; x < 30; x++ {
		for _, y := range []int{0, 29} {
			i := y*30 + x
			pix[i*4], pix[i*4+1], pix[i*4+2] = 128, 128, 128
		}
	}
	for y := 0; y < 30; y++ {
		for _, x := range []int{0, 29} {
			i := y*30 + x
			pix[i*4], pix[i*4+1], pix[i*4+2] = 128, 128, 128
		}
	}
	params := defaultParams()
	params.PreserveColor = true
	params.BackgroundTolerance = 40
	dots := Place(pix, 30, 30, params)
	for _, d := range dots {
		if d.R == 128 && d.G == 128 && d.B == 128 {
			t.Fatalf("expected background-tolerance to exclude border-colored candidates, got %+v", d)
		}
	}
}

func TestGradientBasedSizingDiffersFromDefault(t *testing.T) {
	pix := textureRaster(30, 30)
	params := defaultParams()
	params.AdaptiveSizing = true
	a := Place(pix, 30, 30, params)
	params.GradientBasedSizing = true
	b := Place(pix, 30, 30, params)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("expected dots placed under both sizing modes")
	}
	// Gradient-based sizing maps radii from the raw gradient rather than
	// the combined gradient*variance strength (candidates are ranked by
	// strength in both modes), so at least one dot's radius differs
	// between the two runs for this synthetic texture.
	diff := false
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].Radius != b[i].Radius {
			diff = true
			break
		}
	}
	if !diff && len(a) == len(b) {
		t.Fatal("expected gradient-based sizing to change at least one dot's radius")
	}
}

func TestPreserveColorSamplesPixel(t *testing.T) {
	pix := make([]uint8, 10*10*4)
	for i := 0; i < 10*10; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = 255, 0, 0, 255
	}
	params := defaultParams()
	params.VarianceRadius = 1
	params.DensityThreshold = -1 // accept everything
	params.PreserveColor = true
	dots := Place(pix, 10, 10, params)
	if len(dots) == 0 {
		t.Fatal("expected some dots placed")
	}
	for _, d := range dots {
		if d.R != 255 || d.G != 0 || d.B != 0 {
			t.Fatalf("expected preserved red color, got (%d,%d,%d)", d.R, d.G, d.B)
		}
	}
}
