package preprocess

import (
	"testing"

	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/xsched"
)

func solidGray(w, h int, v uint8) *imgutil.GrayMap {
	g := imgutil.NewGrayMap(w, h)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func halfSplitGray(w, h int) *imgutil.GrayMap {
	g := imgutil.NewGrayMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(30)
			if x >= w/2 {
				v = 220
			}
			g.Set(x, y, v)
		}
	}
	return g
}

func TestOtsuThresholdSeparatesHalves(t *testing.T) {
	g := halfSplitGray(20, 20)
	mask, err := Threshold(g, ThresholdOtsu, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mask.At(2, 2) {
		t.Fatal("expected dark half to threshold to background")
	}
	if !mask.At(18, 2) {
		t.Fatal("expected bright half to threshold to foreground")
	}
}

func TestThresholdRejectsSmallWindow(t *testing.T) {
	g := solidGray(10, 10, 128)
	if _, err := Threshold(g, ThresholdSauvola, 1, 0.5, 0); err == nil {
		t.Fatal("expected error for window size < 3")
	}
}

func TestThresholdForcesOddWindow(t *testing.T) {
	g := halfSplitGray(20, 20)
	mask, err := Threshold(g, ThresholdBradleyRoth, 4, 0, 0.15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mask == nil {
		t.Fatal("expected non-nil mask")
	}
}

func TestBilateralFilterSmoothsFlatRegion(t *testing.T) {
	g := solidGray(10, 10, 100)
	out, err := BilateralFilter(xsched.SingleThreaded(), g, 1.5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range out.Pix {
		if v != 100 {
			t.Fatalf("expected flat region unchanged, got %d", v)
		}
	}
}

func TestBilateralFilterRejectsInvalidSigma(t *testing.T) {
	g := solidGray(10, 10, 100)
	if _, err := BilateralFilter(xsched.SingleThreaded(), g, 0, 20); err == nil {
		t.Fatal("expected error for non-positive spatial sigma")
	}
	if _, err := BilateralFilter(xsched.SingleThreaded(), g, 1, -1); err == nil {
		t.Fatal("expected error for non-positive range sigma")
	}
}

func TestBilateralFilterParallelMatchesSequential(t *testing.T) {
	// enough rows to clear xsched.DefaultOptions' MinParallelSize so the
	// goroutine-pool path in ParallelMap actually runs, not just the
	// in-thread fallback.
	g := halfSplitGray(4, 1200)
	seq, err := BilateralFilter(xsched.SingleThreaded(), g, 1.5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	par, err := BilateralFilter(xsched.NewEnvironment(4), g, 1.5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range seq.Pix {
		if seq.Pix[i] != par.Pix[i] {
			t.Fatalf("parallel and sequential bilateral filter diverged at pixel %d: %d vs %d", i, seq.Pix[i], par.Pix[i])
		}
	}
}

func TestMorphologyOpenRemovesSpeckle(t *testing.T) {
	m := imgutil.NewBinaryMask(10, 10)
	m.Set(5, 5, true) // isolated single-pixel speckle
	out := Open(m)
	if out.ForegroundCount() != 0 {
		t.Fatalf("expected isolated speckle removed by opening, got %d fg pixels", out.ForegroundCount())
	}
}

func TestMorphologyCloseFillsGap(t *testing.T) {
	m := imgutil.NewBinaryMask(10, 10)
	for x := 2; x < 8; x++ {
		for y := 2; y < 8; y++ {
			m.Set(x, y, true)
		}
	}
	m.Set(4, 4, false) // a 1px hole in a solid block
	out := Close(m)
	if !out.At(4, 4) {
		t.Fatal("expected interior hole filled by closing")
	}
}

func TestOpenThenCloseOrderMatchesPipeline(t *testing.T) {
	m := imgutil.NewBinaryMask(12, 12)
	for x := 3; x < 9; x++ {
		for y := 3; y < 9; y++ {
			m.Set(x, y, true)
		}
	}
	out := OpenThenClose(m)
	if out.ForegroundCount() == 0 {
		t.Fatal("expected solid block to survive open-then-close")
	}
}

func TestRemoveBackgroundFadesBorderColor(t *testing.T) {
	w, h := 16, 16
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = 10, 10, 10, 255
	}
	// Bright interior square simulating foreground content.
	for y := 6; y < 10; y++ {
		for x := 6; x < 10; x++ {
			i := y*w + x
			pix[i*4], pix[i*4+1], pix[i*4+2] = 250, 20, 20
		}
	}
	out, err := RemoveBackground(pix, w, h, BackgroundOtsu, 0.25, 10, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0] < 200 {
		t.Fatalf("expected border background faded toward white, got %d", out[0])
	}
}

func TestRemoveBackgroundRejectsBadSampleRatio(t *testing.T) {
	pix := make([]uint8, 4*4*4)
	if _, err := RemoveBackground(pix, 4, 4, BackgroundOtsu, 0, 10, 1); err == nil {
		t.Fatal("expected error for zero sample ratio")
	}
}
