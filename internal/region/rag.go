package region

import (
	"container/heap"
	"math"
	"sort"

	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/labcolor"
)

// Region is one node of the adjacency graph (spec.md §4.6).
type Region struct {
	ID            int
	MeanLab       labcolor.Lab
	Area          int
	Perimeter     int
	MaxBoundGrad  float32
}

// Adjacency records the shared boundary length between two regions.
type Adjacency struct {
	A, B        int
	BoundaryLen int
}

// Graph is the region adjacency graph.
type Graph struct {
	Regions []Region
	Edges   []Adjacency
	Labels  []int // remapped to dense region indices, len W*H
	W, H    int
}

// BuildGraph derives a region adjacency graph from a label map
// (typically a SLICResult.Labels or a Quantize assignment), computing
// per-region mean Lab, area, perimeter, and max boundary gradient, and
// per-edge shared boundary length (spec.md §4.6).
func BuildGraph(pix []uint8, labels []int, w, h int) *Graph {
	gray := imgutil.Grayscale(pix, w, h)
	mag, _ := imgutil.Sobel(gray)

	remap := make(map[int]int)
	dense := make([]int, w*h)
	for i, l := range labels {
		id, ok := remap[l]
		if !ok {
			id = len(remap)
			remap[l] = id
		}
		dense[i] = id
	}

	n := len(remap)
	sumLab := make([]labcolor.Lab, n)
	area := make([]int, n)
	perimeter := make([]int, n)
	maxGrad := make([]float32, n)
	edgeLen := make(map[[2]int]int)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			id := dense[idx]
			lab := labcolor.FromRGB(pix[idx*4], pix[idx*4+1], pix[idx*4+2])
			sumLab[id].L += lab.L
			sumLab[id].A += lab.A
			sumLab[id].B += lab.B
			area[id]++

			isBoundary := false
			for _, d := range neighbor4 {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					isBoundary = true
					continue
				}
				otherID := dense[ny*w+nx]
				if otherID != id {
					isBoundary = true
					key := edgeKey(id, otherID)
					edgeLen[key]++
					if mag[idx] > maxGrad[id] {
						maxGrad[id] = mag[idx]
					}
				}
			}
			if isBoundary {
				perimeter[id]++
			}
		}
	}

	regions := make([]Region, n)
	for i := 0; i < n; i++ {
		if area[i] == 0 {
			continue
		}
		regions[i] = Region{
			ID:           i,
			MeanLab:      labcolor.Lab{L: sumLab[i].L / float32(area[i]), A: sumLab[i].A / float32(area[i]), B: sumLab[i].B / float32(area[i])},
			Area:         area[i],
			Perimeter:    perimeter[i],
			MaxBoundGrad: maxGrad[i],
		}
	}

	var edges []Adjacency
	for k, v := range edgeLen {
		// edgeLen counts each shared boundary pixel from both sides;
		// halve to approximate the shared boundary length.
		edges = append(edges, Adjacency{A: k[0], B: k[1], BoundaryLen: v / 2})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	return &Graph{Regions: regions, Edges: edges, Labels: dense, W: w, H: h}
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// unionFind tracks merged region ids.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) { uf.parent[uf.find(a)] = uf.find(b) }

// fhEdge is a priority-queue entry for the Felzenszwalb-Huttenlocher
// style merge.
type fhEdge struct {
	a, b   int
	weight float32
}

type fhHeap []fhEdge

func (h fhHeap) Len() int            { return len(h) }
func (h fhHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h fhHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *fhHeap) Push(x interface{}) { *h = append(*h, x.(fhEdge)) }
func (h *fhHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeFH runs the Felzenszwalb-Huttenlocher style merge of spec.md
// §4.6: edge weight ΔE_Lab + k/√min(area) − log(boundaryLen), popped
// smallest first; merge when weight is below the internal-difference
// threshold k/√area or either region is under minSize.
func MergeFH(g *Graph, k float32, minSize int) *Graph {
	uf := newUnionFind(len(g.Regions))
	areaOf := make([]int, len(g.Regions))
	for i, r := range g.Regions {
		areaOf[i] = r.Area
	}

	h := &fhHeap{}
	heap.Init(h)
	for _, e := range g.Edges {
		heap.Push(h, fhEdge{a: e.A, b: e.B, weight: fhWeight(g, e, k)})
	}

	for h.Len() > 0 {
		e := heap.Pop(h).(fhEdge)
		ra, rb := uf.find(e.a), uf.find(e.b)
		if ra == rb {
			continue
		}
		minArea := areaOf[ra]
		if areaOf[rb] < minArea {
			minArea = areaOf[rb]
		}
		threshold := k / sqrtf(float32(minArea))
		if e.weight < threshold || areaOf[ra] < minSize || areaOf[rb] < minSize {
			uf.union(ra, rb)
			newRoot := uf.find(ra)
			areaOf[newRoot] = areaOf[ra] + areaOf[rb]
		}
	}

	return rebuildGraph(g, uf)
}

func fhWeight(g *Graph, e Adjacency, k float32) float32 {
	dE := labcolor.DeltaE(g.Regions[e.A].MeanLab, g.Regions[e.B].MeanLab)
	minArea := g.Regions[e.A].Area
	if g.Regions[e.B].Area < minArea {
		minArea = g.Regions[e.B].Area
	}
	internal := k / sqrtf(float32(minArea))
	boundaryLog := float32(0)
	if e.BoundaryLen > 0 {
		boundaryLog = float32(math.Log(float64(e.BoundaryLen)))
	}
	return dE + internal - boundaryLog
}

func sqrtf(v float32) float32 {
	if v <= 0 {
		return 1
	}
	return float32(math.Sqrt(float64(v)))
}

// MergePredicate is a caller-supplied merge decision over two regions
// and the gradient magnitude at their shared boundary (spec.md §4.6).
type MergePredicate func(a, b Region, boundaryGrad float32) bool

// DeltaEPredicate implements canonical predicate (a): ΔE < threshold.
func DeltaEPredicate(threshold float32) MergePredicate {
	return func(a, b Region, _ float32) bool {
		return labcolor.DeltaE(a.MeanLab, b.MeanLab) < threshold
	}
}

// GradientAwarePredicate implements canonical predicate (b):
// gradient-aware ΔE, doubly strict when the boundary gradient is high.
func GradientAwarePredicate(threshold, gradHigh float32) MergePredicate {
	return func(a, b Region, boundaryGrad float32) bool {
		t := threshold
		if boundaryGrad > gradHigh {
			t = threshold / 2
		}
		return labcolor.DeltaE(a.MeanLab, b.MeanLab) < t
	}
}

// MergePredicatePass iterates the graph, merging every adjacent pair
// the predicate accepts, until no merges occur or maxIterations is
// reached (spec.md §4.6).
func MergePredicatePass(g *Graph, pred MergePredicate, maxIterations int) *Graph {
	uf := newUnionFind(len(g.Regions))

	for iter := 0; iter < maxIterations; iter++ {
		merged := false
		for _, e := range g.Edges {
			ra, rb := uf.find(e.A), uf.find(e.B)
			if ra == rb {
				continue
			}
			if pred(g.Regions[ra], g.Regions[rb], boundaryGradAt(g, e)) {
				uf.union(ra, rb)
				merged = true
			}
		}
		if !merged {
			break
		}
	}
	return rebuildGraph(g, uf)
}

func boundaryGradAt(g *Graph, e Adjacency) float32 {
	ga, gb := g.Regions[e.A].MaxBoundGrad, g.Regions[e.B].MaxBoundGrad
	if ga > gb {
		return ga
	}
	return gb
}

// rebuildGraph collapses regions by union-find root, area-weighting
// the merged mean Lab and summing boundary length (spec.md §4.6's
// stated approximation).
func rebuildGraph(g *Graph, uf *unionFind) *Graph {
	remap := make(map[int]int)
	for i := range g.Regions {
		root := uf.find(i)
		if _, ok := remap[root]; !ok {
			remap[root] = len(remap)
		}
	}

	n := len(remap)
	sumLab := make([]labcolor.Lab, n)
	area := make([]int, n)
	perimeter := make([]int, n)
	maxGrad := make([]float32, n)
	for i, r := range g.Regions {
		id := remap[uf.find(i)]
		sumLab[id].L += r.MeanLab.L * float32(r.Area)
		sumLab[id].A += r.MeanLab.A * float32(r.Area)
		sumLab[id].B += r.MeanLab.B * float32(r.Area)
		area[id] += r.Area
		perimeter[id] += r.Perimeter
		if r.MaxBoundGrad > maxGrad[id] {
			maxGrad[id] = r.MaxBoundGrad
		}
	}
	regions := make([]Region, n)
	for i := 0; i < n; i++ {
		regions[i] = Region{
			ID:           i,
			MeanLab:      labcolor.Lab{L: sumLab[i].L / float32(area[i]), A: sumLab[i].A / float32(area[i]), B: sumLab[i].B / float32(area[i])},
			Area:         area[i],
			Perimeter:    perimeter[i],
			MaxBoundGrad: maxGrad[i],
		}
	}

	edgeLen := make(map[[2]int]int)
	for _, e := range g.Edges {
		ra, rb := remap[uf.find(e.A)], remap[uf.find(e.B)]
		if ra == rb {
			continue
		}
		key := edgeKey(ra, rb)
		edgeLen[key] += e.BoundaryLen
	}
	var edges []Adjacency
	for k, v := range edgeLen {
		edges = append(edges, Adjacency{A: k[0], B: k[1], BoundaryLen: v})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	labels := make([]int, len(g.Labels))
	for i, l := range g.Labels {
		labels[i] = remap[uf.find(l)]
	}

	return &Graph{Regions: regions, Edges: edges, Labels: labels, W: g.W, H: g.H}
}
