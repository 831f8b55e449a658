// Package svgdoc renders the final vector output: path and gradient
// serialization, area-sorted z-order, and the degenerate-input minimal
// SVG (spec.md §4.10). Grounded on image.go's encodeImg for the
// "build the whole document in a buffer, then write it" idiom, since
// the teacher encodes raster formats the same way it would encode any
// other output.
package svgdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/region"
)

// Path is one emitted shape: either a closed fill region or an open
// stroked trace.
type Path struct {
	Curves     []geom.CubicBezier
	Closed     bool
	SignedArea float32
	Stroke     string // "" when unused
	StrokeWidth float32
	Fill       string // solid color, "" when a gradient is used instead
	GradientID string // "" when Fill is used instead
	Opacity    float32 // 0 means "unset", rendered as fully opaque
}

// Gradient is one <linearGradient> or <radialGradient> definition.
type Gradient struct {
	ID        string
	Kind      region.GradientKind
	Stops     []region.Stop
	AxisX, AxisY, CenterX, CenterY float32
	Width, Height int
}

// Document is the complete set of renderable content for one output
// SVG.
type Document struct {
	Width, Height int
	Paths         []Path
	Gradients     []Gradient
}

// Render serializes doc to an SVG string. Paths are sorted by
// |signed area| descending so larger shapes are emitted first and
// smaller ones overlay them (spec.md §4.10). Degenerate documents
// (zero dimensions or no paths) emit a minimal SVG with an explanatory
// comment instead.
func Render(doc Document) string {
	if doc.Width <= 0 || doc.Height <= 0 || len(doc.Paths) == 0 {
		return renderDegenerate(doc)
	}

	sorted := append([]Path(nil), doc.Paths...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return absf(sorted[i].SignedArea) > absf(sorted[j].SignedArea)
	})

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		doc.Width, doc.Height, doc.Width, doc.Height)
	b.WriteByte('\n')

	if len(doc.Gradients) > 0 {
		b.WriteString("  <defs>\n")
		for _, g := range doc.Gradients {
			writeGradient(&b, g)
		}
		b.WriteString("  </defs>\n")
	}

	for _, p := range sorted {
		writePath(&b, p, doc.Width, doc.Height)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func renderDegenerate(doc Document) string {
	w, h := doc.Width, doc.Height
	if w <= 0 {
		w = 0
	}
	if h <= 0 {
		h = 0
	}
	var reason string
	switch {
	case doc.Width <= 0 || doc.Height <= 0:
		reason = "zero-area raster"
	case len(doc.Paths) == 0:
		reason = "no content found"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  <!-- %s -->\n", reason)
	fmt.Fprintf(&b, `  <rect x="0" y="0" width="%d" height="%d" fill="none"/>`, w, h)
	b.WriteByte('\n')
	b.WriteString("</svg>\n")
	return b.String()
}

func writePath(b *strings.Builder, p Path, w, h int) {
	b.WriteString(`  <path d="`)
	writePathData(b, p.Curves, p.Closed, w, h)
	b.WriteString(`"`)
	switch {
	case p.GradientID != "":
		fmt.Fprintf(b, ` fill="url(#%s)"`, p.GradientID)
	case p.Fill != "":
		fmt.Fprintf(b, ` fill="%s"`, p.Fill)
	default:
		b.WriteString(` fill="none"`)
	}
	if p.Stroke != "" {
		fmt.Fprintf(b, ` stroke="%s" stroke-width="%s"`, p.Stroke, formatCoord(p.StrokeWidth))
	}
	if p.Opacity > 0 && p.Opacity < 1 {
		fmt.Fprintf(b, ` fill-opacity="%.2f"`, p.Opacity)
	}
	b.WriteString("/>\n")
}

// writePathData emits the "d" attribute, clamping every coordinate to
// the document bounds [0,w]x[0,h]: Bézier fitting can overshoot a
// control point past the raster edge, and clamping here is the single
// point every backend's output passes through before reaching the
// caller.
func writePathData(b *strings.Builder, curves []geom.CubicBezier, closed bool, w, h int) {
	if len(curves) == 0 {
		return
	}
	maxX, maxY := float32(w), float32(h)
	clampX := func(v float32) float32 { return clampf(v, 0, maxX) }
	clampY := func(v float32) float32 { return clampf(v, 0, maxY) }

	fmt.Fprintf(b, "M %s,%s ", formatCoord(clampX(curves[0].P0.X)), formatCoord(clampY(curves[0].P0.Y)))
	for _, c := range curves {
		fmt.Fprintf(b, "C %s,%s %s,%s %s,%s ",
			formatCoord(clampX(c.P1.X)), formatCoord(clampY(c.P1.Y)),
			formatCoord(clampX(c.P2.X)), formatCoord(clampY(c.P2.Y)),
			formatCoord(clampX(c.P3.X)), formatCoord(clampY(c.P3.Y)))
	}
	if closed {
		b.WriteString("Z")
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writeGradient(b *strings.Builder, g Gradient) {
	switch g.Kind {
	case region.GradientRadial:
		fmt.Fprintf(b, `    <radialGradient id="%s" cx="%s" cy="%s" r="50%%" gradientUnits="userSpaceOnUse">`+"\n",
			g.ID, formatCoord(g.CenterX), formatCoord(g.CenterY))
	default:
		x1, y1 := g.CenterX-g.AxisX*float32(g.Width), g.CenterY-g.AxisY*float32(g.Height)
		x2, y2 := g.CenterX+g.AxisX*float32(g.Width), g.CenterY+g.AxisY*float32(g.Height)
		fmt.Fprintf(b, `    <linearGradient id="%s" x1="%s" y1="%s" x2="%s" y2="%s" gradientUnits="userSpaceOnUse">`+"\n",
			g.ID, formatCoord(x1), formatCoord(y1), formatCoord(x2), formatCoord(y2))
	}
	for _, s := range g.Stops {
		r, gr, bl := s.Color.ToRGB()
		fmt.Fprintf(b, `      <stop offset="%.2f" stop-color="rgb(%d,%d,%d)"/>`+"\n", s.Offset, r, gr, bl)
	}
	if g.Kind == region.GradientRadial {
		b.WriteString("    </radialGradient>\n")
	} else {
		b.WriteString("    </linearGradient>\n")
	}
}

// formatCoord prints a coordinate with exactly 2 decimal places
// (spec.md §4.10).
func formatCoord(v float32) string {
	return fmt.Sprintf("%.2f", v)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// NextGradientID returns the stable id ("g0", "g1", ...) for the
// n-th gradient defined in a document (spec.md §4.10).
func NextGradientID(n int) string {
	return fmt.Sprintf("g%d", n)
}
