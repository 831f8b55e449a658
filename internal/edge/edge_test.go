package edge

import (
	"testing"

	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/imgutil"
)

func verticalEdgeGray(w, h int) *imgutil.GrayMap {
	g := imgutil.NewGrayMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(10)
			if x >= w/2 {
				v = 240
			}
			g.Set(x, y, v)
		}
	}
	return g
}

func TestComputeETFCoherencyAlongStraightEdge(t *testing.T) {
	g := verticalEdgeGray(20, 20)
	f := ComputeETF(g, 2, 4)
	mid := 10*f.W + 10
	if f.Coherency[mid] < 0.3 {
		t.Fatalf("expected reasonably high coherency near a straight edge, got %v", f.Coherency[mid])
	}
}

func TestComputeETFTangentUnitLength(t *testing.T) {
	g := verticalEdgeGray(16, 16)
	f := ComputeETF(g, 1, 2)
	for i := range f.TangentX {
		l := f.TangentX[i]*f.TangentX[i] + f.TangentY[i]*f.TangentY[i]
		if l > 1.2 {
			t.Fatalf("tangent not unit-ish at %d: |t|^2=%v", i, l)
		}
	}
}

func TestTraceFindsVerticalEdge(t *testing.T) {
	g := verticalEdgeGray(20, 30)
	f := ComputeETF(g, 2, 4)
	polys := Trace(f, DefaultTraceParams())
	if len(polys) == 0 {
		t.Fatal("expected at least one traced polyline along the vertical edge")
	}
	for _, p := range polys {
		if p.Len() < 3 {
			t.Fatalf("expected post-processed polylines to have >= 3 points, got %d", p.Len())
		}
	}
}

func TestTraceEmptyOnFlatImage(t *testing.T) {
	g := imgutil.NewGrayMap(20, 20)
	for i := range g.Pix {
		g.Pix[i] = 128
	}
	f := ComputeETF(g, 2, 2)
	polys := Trace(f, DefaultTraceParams())
	if len(polys) != 0 {
		t.Fatalf("expected no traces on a flat image, got %d", len(polys))
	}
}

func TestDedupCloseRemovesNearDuplicates(t *testing.T) {
	pts := []geom.Point2{{0, 0}, {0.1, 0}, {5, 0}, {5.05, 0}, {10, 0}}
	out := dedupClose(pts, 1.0)
	if len(out) != 3 {
		t.Fatalf("expected near-duplicates collapsed to 3 points, got %d: %v", len(out), out)
	}
}
