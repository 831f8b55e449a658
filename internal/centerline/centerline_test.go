package centerline

import (
	"math"
	"testing"

	"github.com/esimov/vectorace/internal/imgutil"
)

func TestDistanceTransformEmptyMaskIsZero(t *testing.T) {
	m := imgutil.NewBinaryMask(10, 10)
	field := DistanceTransform(m)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if field.At(x, y) != 0 {
				t.Fatalf("expected zero distance on empty mask at (%d,%d), got %v", x, y, field.At(x, y))
			}
		}
	}
}

func TestDistanceTransformSolidSquarePeaksAtCenter(t *testing.T) {
	m := imgutil.NewBinaryMask(11, 11)
	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			m.Set(x, y, true)
		}
	}
	field := DistanceTransform(m)
	center := field.At(5, 5)
	corner := field.At(0, 0)
	if center <= corner {
		t.Fatalf("expected center distance > corner distance, got center=%v corner=%v", center, corner)
	}
}

func TestDistanceTransformKnownStrip(t *testing.T) {
	// A single row of foreground bordered by background on both sides;
	// the strip's own row/col distance should match straight-line
	// distance to the nearest background pixel.
	m := imgutil.NewBinaryMask(5, 1)
	for x := 0; x < 5; x++ {
		m.Set(x, 0, true)
	}
	field := DistanceTransform(m)
	if field.At(0, 0) != 1 {
		t.Fatalf("expected distance 1 at strip edge, got %v", field.At(0, 0))
	}
}

func TestDistanceTransformMatchesBruteForce(t *testing.T) {
	w, h := 12, 9
	m := imgutil.NewBinaryMask(w, h)
	// An irregular foreground blob, not axis-aligned, so the nearest
	// background pixel isn't trivially on the same row or column.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x-6)*(x-6)+(y-4)*(y-4) <= 9 {
				m.Set(x, y, true)
			}
		}
	}
	field := DistanceTransform(m)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.At(x, y) {
				continue
			}
			best := math.Inf(1)
			for by := 0; by < h; by++ {
				for bx := 0; bx < w; bx++ {
					if m.At(bx, by) {
						continue
					}
					dx, dy := float64(x-bx), float64(y-by)
					d := math.Sqrt(dx*dx + dy*dy)
					if d < best {
						best = d
					}
				}
			}
			got := float64(field.At(x, y))
			if math.Abs(got-best) > 1e-4 {
				t.Fatalf("distance at (%d,%d): got %v, brute force %v", x, y, got, best)
			}
		}
	}
}

func TestDetectRidgesOnPeak(t *testing.T) {
	field := imgutil.NewDistanceField(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			field.Set(x, y, 1)
		}
	}
	field.Set(2, 2, 5)
	ridges := DetectRidges(field, RidgeParams{RidgeThreshold: 2, MinRidgeStrength: 2})
	found := false
	for _, r := range ridges {
		if r.x == 2 && r.y == 2 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the distance peak to be detected as a ridge")
	}
}

func TestRidgeWalkChainsAlongLine(t *testing.T) {
	ridges := []ridgePixel{
		{x: 0, y: 0, dist: 5},
		{x: 1, y: 0, dist: 4},
		{x: 2, y: 0, dist: 3},
		{x: 3, y: 0, dist: 2},
	}
	polys := RidgeWalk(ridges, 3)
	if len(polys) != 1 {
		t.Fatalf("expected a single chained polyline, got %d", len(polys))
	}
	if polys[0].Len() != 4 {
		t.Fatalf("expected all 4 ridge pixels chained, got %d", polys[0].Len())
	}
}

func TestRidgeWalkMinBranchLengthIsConfigurable(t *testing.T) {
	ridges := []ridgePixel{
		{x: 0, y: 0, dist: 5},
		{x: 1, y: 0, dist: 4},
	}
	if polys := RidgeWalk(ridges, 3); len(polys) != 0 {
		t.Fatalf("expected a 2-pixel chain dropped at minBranchLength=3, got %d", len(polys))
	}
	if polys := RidgeWalk(ridges, 2); len(polys) != 1 {
		t.Fatalf("expected a 2-pixel chain kept at minBranchLength=2, got %d", len(polys))
	}
}

func TestRidgeWalkDropsShortChains(t *testing.T) {
	ridges := []ridgePixel{
		{x: 0, y: 0, dist: 5},
		{x: 10, y: 10, dist: 1},
	}
	polys := RidgeWalk(ridges, 3)
	if len(polys) != 0 {
		t.Fatalf("expected isolated ridge pixels to produce no polylines, got %d", len(polys))
	}
}
