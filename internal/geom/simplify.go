package geom

import "math"

// DouglasPeucker simplifies pl by recursively dropping points whose
// perpendicular distance to the chord between their neighbors is below
// epsilon. The classic recursion (spec.md §9) operates on an explicit
// index range so no intermediate slices are allocated per call; its
// depth is about log2(n) when splits are balanced and up to n-2 when
// every split peels off a single point.
func DouglasPeucker(pl Polyline, epsilon float32) Polyline {
	pts := pl.Points
	if len(pts) < 3 {
		return Polyline{Points: append([]Point2(nil), pts...), Closed: pl.Closed}
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpRecurse(pts, 0, len(pts)-1, epsilon, keep)

	out := make([]Point2, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return Polyline{Points: out, Closed: pl.Closed}
}

func dpRecurse(pts []Point2, lo, hi int, epsilon float32, keep []bool) {
	if hi <= lo+1 {
		return
	}
	var maxDist float32
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		d := perpendicularDistance(pts[i], pts[lo], pts[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx >= 0 && maxDist > epsilon {
		keep[maxIdx] = true
		dpRecurse(pts, lo, maxIdx, epsilon, keep)
		dpRecurse(pts, maxIdx, hi, epsilon, keep)
	}
}

func perpendicularDistance(p, a, b Point2) float32 {
	dx, dy := b.X-a.X, b.Y-a.Y
	segLen := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if segLen == 0 {
		return p.Dist(a)
	}
	// |cross(p-a, b-a)| / |b-a|
	cross := (p.X-a.X)*dy - (p.Y-a.Y)*dx
	if cross < 0 {
		cross = -cross
	}
	return cross / segLen
}

// Epsilon computes the Douglas-Peucker tolerance from an image
// diagonal and a detail knob δ ∈ [0,1], per spec.md §4.9:
// ε = clamp((0.0008 + 0.0022·δ)·d, 0.5, 4.0).
func Epsilon(diagonal, detail float32) float32 {
	eps := (0.0008 + 0.0022*detail) * diagonal
	if eps < 0.5 {
		return 0.5
	}
	if eps > 4.0 {
		return 4.0
	}
	return eps
}

// VisvalingamWhyatt simplifies pl by repeatedly removing the point
// whose triangle area with its current neighbors is smallest, stopping
// once the next-smallest area exceeds epsilon (interpreted as a
// distance-squared-equivalent area threshold: epsilon is the same
// pixel-scale tolerance as DouglasPeucker, squared internally to
// compare against triangle area which has units of length²).
func VisvalingamWhyatt(pl Polyline, epsilon float32) Polyline {
	pts := append([]Point2(nil), pl.Points...)
	if len(pts) < 3 {
		return Polyline{Points: pts, Closed: pl.Closed}
	}
	areaThreshold := epsilon * epsilon

	type node struct {
		pt        Point2
		prev, next int
		alive     bool
		area      float32
	}
	n := len(pts)
	nodes := make([]node, n)
	for i, p := range pts {
		nodes[i] = node{pt: p, prev: i - 1, next: i + 1, alive: true}
	}
	nodes[0].prev = -1
	nodes[n-1].next = -1

	computeArea := func(i int) float32 {
		nd := nodes[i]
		if nd.prev < 0 || nd.next < 0 {
			return float32(math.MaxFloat32)
		}
		a, b, c := nodes[nd.prev].pt, nd.pt, nodes[nd.next].pt
		return triangleArea(a, b, c)
	}
	for i := range nodes {
		nodes[i].area = computeArea(i)
	}

	alive := n
	for alive > 2 {
		minIdx := -1
		var minArea float32 = float32(math.MaxFloat32)
		for i, nd := range nodes {
			if nd.alive && nd.prev >= 0 && nd.next >= 0 && nd.area < minArea {
				minArea = nd.area
				minIdx = i
			}
		}
		if minIdx < 0 || minArea > areaThreshold {
			break
		}
		nodes[minIdx].alive = false
		alive--
		p, nx := nodes[minIdx].prev, nodes[minIdx].next
		nodes[p].next = nx
		nodes[nx].prev = p
		nodes[p].area = computeArea(p)
		nodes[nx].area = computeArea(nx)
	}

	out := make([]Point2, 0, alive)
	for _, nd := range nodes {
		if nd.alive {
			out = append(out, nd.pt)
		}
	}
	return Polyline{Points: out, Closed: pl.Closed}
}

func triangleArea(a, b, c Point2) float32 {
	cross := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if cross < 0 {
		cross = -cross
	}
	return cross / 2
}
