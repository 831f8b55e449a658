package geom

import "testing"

func straightLine(n int) Polyline {
	pts := make([]Point2, n)
	for i := range pts {
		pts[i] = Point2{X: float32(i), Y: 0}
	}
	return Polyline{Points: pts}
}

func TestFitBezierStraightLineLowError(t *testing.T) {
	pl := straightLine(20)
	cfg := DefaultFitConfig()
	curves := FitBezier(pl, cfg)
	if len(curves) == 0 {
		t.Fatal("expected at least one curve")
	}
	for _, c := range curves {
		if e := maxPointError(c, pl.Points); e > cfg.MaxErr+1e-3 {
			t.Fatalf("straight segment fit error too high: %v", e)
		}
	}
}

func TestFitBezierChainIsG0Continuous(t *testing.T) {
	pts := []Point2{{0, 0}, {2, 0}, {4, 3}, {6, 6}, {10, 6}, {14, 0}, {18, 0}}
	curves := FitBezier(Polyline{Points: pts}, DefaultFitConfig())
	for i := 1; i < len(curves); i++ {
		if curves[i-1].P3 != curves[i].P0 {
			t.Fatalf("chain not G0-continuous at join %d: %v vs %v", i, curves[i-1].P3, curves[i].P0)
		}
	}
}

func TestFitBezierTooShortReturnsNil(t *testing.T) {
	if got := FitBezier(Polyline{Points: []Point2{{0, 0}}}, DefaultFitConfig()); got != nil {
		t.Fatalf("expected nil for single-point polyline, got %v", got)
	}
}

func TestStraightLineCubicThirds(t *testing.T) {
	c := straightLineCubic(Point2{0, 0}, Point2{9, 0})
	if c.P1.X != 3 || c.P2.X != 6 {
		t.Fatalf("expected control points at thirds, got %v %v", c.P1, c.P2)
	}
}

func TestFitBezierRecursionBounded(t *testing.T) {
	// A jagged zig-zag that cannot be fit within a tight max error forces
	// repeated subdivision; verify it terminates (bounded by maxFitDepth)
	// rather than recursing indefinitely.
	pts := make([]Point2, 200)
	for i := range pts {
		y := float32(0)
		if i%2 == 1 {
			y = 5
		}
		pts[i] = Point2{X: float32(i), Y: y}
	}
	cfg := DefaultFitConfig()
	cfg.MaxErr = 0.001
	curves := FitBezier(Polyline{Points: pts}, cfg)
	if len(curves) == 0 {
		t.Fatal("expected non-empty fit result")
	}
}
