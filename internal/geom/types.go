// Package geom holds the vector-path primitives of spec.md §3 (Point2,
// Polyline, CubicBezier) and the two post-processing passes that
// operate on them: simplification (C12) and Bézier fitting (C13).
package geom

import "math"

// Point2 is a single (x, y) coordinate in pixel space.
type Point2 struct {
	X, Y float32
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 { return Point2{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 { return Point2{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point2) Scale(s float32) Point2 { return Point2{p.X * s, p.Y * s} }

// Dist returns the Euclidean distance between p and q.
func (p Point2) Dist(q Point2) float32 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// Dot returns the dot product of p and q treated as vectors.
func (p Point2) Dot(q Point2) float32 { return p.X*q.X + p.Y*q.Y }

// Len returns the Euclidean norm of p treated as a vector.
func (p Point2) Len() float32 { return float32(math.Sqrt(float64(p.X*p.X + p.Y*p.Y))) }

// Norm returns p normalized to unit length, or the zero vector if p is
// itself the zero vector.
func (p Point2) Norm() Point2 {
	l := p.Len()
	if l == 0 {
		return Point2{}
	}
	return Point2{p.X / l, p.Y / l}
}

// Polyline is an ordered sequence of points. A valid (post-processed)
// polyline has at least 2 distinct points (spec.md §3, §8 invariant 4).
type Polyline struct {
	Points []Point2
	Closed bool
}

// Len returns the number of points.
func (pl Polyline) Len() int { return len(pl.Points) }

// ArcLength returns the sum of segment lengths, including the closing
// segment when Closed is true.
func (pl Polyline) ArcLength() float32 {
	var total float32
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i].Dist(pl.Points[i-1])
	}
	if pl.Closed && len(pl.Points) > 1 {
		total += pl.Points[0].Dist(pl.Points[len(pl.Points)-1])
	}
	return total
}

// SignedArea returns the signed polygon area (shoelace formula),
// positive for counter-clockwise point order. Used by the SVG emitter
// to sort paths by |area| descending (spec.md §4.10).
func (pl Polyline) SignedArea() float32 {
	n := len(pl.Points)
	if n < 3 {
		return 0
	}
	var area float32
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pl.Points[i].X*pl.Points[j].Y - pl.Points[j].X*pl.Points[i].Y
	}
	return area / 2
}

// CubicBezier is a single cubic Bézier segment (spec.md §3). When part
// of a chain, P0 equals the previous segment's P3.
type CubicBezier struct {
	P0, P1, P2, P3 Point2
}

// PointAt evaluates the curve at parameter t ∈ [0,1].
func (c CubicBezier) PointAt(t float32) Point2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return Point2{
		X: a*c.P0.X + b*c.P1.X + cc*c.P2.X + d*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + cc*c.P2.Y + d*c.P3.Y,
	}
}

// DerivAt evaluates the first derivative (tangent, not normalized) at
// parameter t ∈ [0,1].
func (c CubicBezier) DerivAt(t float32) Point2 {
	mt := 1 - t
	a := 3 * mt * mt
	b := 6 * mt * t
	cc := 3 * t * t
	return Point2{
		X: a*(c.P1.X-c.P0.X) + b*(c.P2.X-c.P1.X) + cc*(c.P3.X-c.P2.X),
		Y: a*(c.P1.Y-c.P0.Y) + b*(c.P2.Y-c.P1.Y) + cc*(c.P3.Y-c.P2.Y),
	}
}

// Deriv2At evaluates the second derivative at parameter t ∈ [0,1].
func (c CubicBezier) Deriv2At(t float32) Point2 {
	mt := 1 - t
	return Point2{
		X: 6*mt*(c.P2.X-2*c.P1.X+c.P0.X) + 6*t*(c.P3.X-2*c.P2.X+c.P1.X),
		Y: 6*mt*(c.P2.Y-2*c.P1.Y+c.P0.Y) + 6*t*(c.P3.Y-2*c.P2.Y+c.P1.Y),
	}
}

// Curvature returns the signed curvature κ at parameter t.
func (c CubicBezier) Curvature(t float32) float32 {
	d1 := c.DerivAt(t)
	d2 := c.Deriv2At(t)
	num := d1.X*d2.Y - d1.Y*d2.X
	denom := d1.Len()
	denom = denom * denom * denom
	if denom < 1e-9 {
		return 0
	}
	return num / denom
}
