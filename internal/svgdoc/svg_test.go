package svgdoc

import (
	"strings"
	"testing"

	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/labcolor"
	"github.com/esimov/vectorace/internal/region"
)

func square(x0, y0, size float32) []geom.CubicBezier {
	x1, y1 := x0+size, y0+size
	return []geom.CubicBezier{
		{P0: geom.Point2{X: x0, Y: y0}, P1: geom.Point2{X: x1, Y: y0}, P2: geom.Point2{X: x1, Y: y0}, P3: geom.Point2{X: x1, Y: y1}},
		{P0: geom.Point2{X: x1, Y: y1}, P1: geom.Point2{X: x0, Y: y1}, P2: geom.Point2{X: x0, Y: y1}, P3: geom.Point2{X: x0, Y: y0}},
	}
}

func TestRenderBasicDocument(t *testing.T) {
	doc := Document{
		Width: 100, Height: 100,
		Paths: []Path{
			{Curves: square(0, 0, 10), Closed: true, SignedArea: 100, Fill: "#ff0000"},
		},
	}
	out := Render(doc)
	if !strings.Contains(out, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">`) {
		t.Fatalf("expected svg root element with dimensions, got: %s", out)
	}
	if !strings.Contains(out, `fill="#ff0000"`) {
		t.Fatalf("expected fill color in output: %s", out)
	}
	if !strings.Contains(out, "0.00,0.00") {
		t.Fatalf("expected 2-decimal coordinate formatting: %s", out)
	}
}

func TestRenderSortsPathsByAreaDescending(t *testing.T) {
	doc := Document{
		Width: 100, Height: 100,
		Paths: []Path{
			{Curves: square(0, 0, 5), SignedArea: 25, Fill: "small"},
			{Curves: square(0, 0, 50), SignedArea: 2500, Fill: "large"},
		},
	}
	out := Render(doc)
	largeIdx := strings.Index(out, `fill="large"`)
	smallIdx := strings.Index(out, `fill="small"`)
	if largeIdx < 0 || smallIdx < 0 || largeIdx > smallIdx {
		t.Fatalf("expected larger path emitted before smaller one, got: %s", out)
	}
}

func TestRenderDegenerateZeroDimensions(t *testing.T) {
	out := Render(Document{Width: 0, Height: 0})
	if !strings.Contains(out, "<!--") {
		t.Fatalf("expected explanatory comment in degenerate SVG, got: %s", out)
	}
	if strings.Contains(out, "<path") {
		t.Fatalf("expected no paths in degenerate SVG, got: %s", out)
	}
}

func TestRenderDegenerateNoPaths(t *testing.T) {
	out := Render(Document{Width: 50, Height: 50})
	if !strings.Contains(out, "no content found") {
		t.Fatalf("expected 'no content found' comment, got: %s", out)
	}
}

func TestRenderGradientReferencedByFillURL(t *testing.T) {
	doc := Document{
		Width: 50, Height: 50,
		Gradients: []Gradient{
			{ID: "g0", Kind: region.GradientLinear, Stops: []region.Stop{
				{Offset: 0, Color: labcolor.Lab{L: 10}},
				{Offset: 1, Color: labcolor.Lab{L: 90}},
			}, AxisX: 1, Width: 50, Height: 50},
		},
		Paths: []Path{
			{Curves: square(0, 0, 10), SignedArea: 100, GradientID: "g0"},
		},
	}
	out := Render(doc)
	if !strings.Contains(out, `fill="url(#g0)"`) {
		t.Fatalf("expected gradient fill reference, got: %s", out)
	}
	if !strings.Contains(out, "<linearGradient") {
		t.Fatalf("expected linearGradient element, got: %s", out)
	}
}

func TestRenderClampsOvershootingControlPoints(t *testing.T) {
	doc := Document{
		Width: 10, Height: 10,
		Paths: []Path{
			{Curves: []geom.CubicBezier{
				{P0: geom.Point2{X: -5, Y: -5}, P1: geom.Point2{X: 20, Y: -3}, P2: geom.Point2{X: 20, Y: 20}, P3: geom.Point2{X: 5, Y: 20}},
			}, Closed: true, SignedArea: 50, Fill: "#00ff00"},
		},
	}
	out := Render(doc)
	if strings.Contains(out, "-5.00") || strings.Contains(out, "20.00") {
		t.Fatalf("expected out-of-bounds coordinates clamped to [0,10], got: %s", out)
	}
	if !strings.Contains(out, "0.00,0.00") || !strings.Contains(out, "10.00,10.00") {
		t.Fatalf("expected overshoot clamped to document edges, got: %s", out)
	}
}

func TestNextGradientIDSequence(t *testing.T) {
	if NextGradientID(0) != "g0" || NextGradientID(5) != "g5" {
		t.Fatal("expected stable sequential gradient ids")
	}
}
