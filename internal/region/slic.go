package region

import (
	"math"

	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/labcolor"
)

// SLICParams configures the superpixel segmenter (spec.md §4.5).
type SLICParams struct {
	K           int
	Compactness float32
	Iterations  int
}

// SLICResult is a per-pixel superpixel label map.
type SLICResult struct {
	W, H   int
	Labels []int
	Count  int
}

type slicCenter struct {
	lab  labcolor.Lab
	x, y float32
}

// SLIC segments pix into approximately params.K superpixels using the
// simple linear iterative clustering algorithm of spec.md §4.5: a grid
// of centers perturbed to local gradient minima, then I rounds of
// combined Lab+xy assignment restricted to each center's 2S x 2S
// window.
func SLIC(pix []uint8, w, h int, params SLICParams) SLICResult {
	n := w * h
	labs := make([]labcolor.Lab, n)
	for i := 0; i < n; i++ {
		labs[i] = labcolor.FromRGB(pix[i*4], pix[i*4+1], pix[i*4+2])
	}
	gray := imgutil.Grayscale(pix, w, h)
	mag, _ := imgutil.Sobel(gray)

	s := float32(math.Sqrt(float64(w*h) / float64(maxInt1(params.K, 1))))
	if s < 1 {
		s = 1
	}

	var centers []slicCenter
	for y := s / 2; y < float32(h); y += s {
		for x := s / 2; x < float32(w); x += s {
			cx, cy := perturbToLowGradient(mag, w, h, int(x), int(y))
			centers = append(centers, slicCenter{lab: labs[cy*w+cx], x: float32(cx), y: float32(cy)})
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	distances := make([]float32, n)
	for i := range distances {
		distances[i] = float32(math.MaxFloat32)
	}

	m := params.Compactness
	for iter := 0; iter < params.Iterations; iter++ {
		for i := range distances {
			distances[i] = float32(math.MaxFloat32)
		}
		for ci, c := range centers {
			x0 := clampi(int(c.x-s), 0, w-1)
			x1 := clampi(int(c.x+s), 0, w-1)
			y0 := clampi(int(c.y-s), 0, h-1)
			y1 := clampi(int(c.y+s), 0, h-1)
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					idx := y*w + x
					dLab := labcolor.DeltaE(labs[idx], c.lab)
					dx, dy := float32(x)-c.x, float32(y)-c.y
					dxy := float32(math.Sqrt(float64(dx*dx + dy*dy)))
					d2 := dLab*dLab + (m/s)*(m/s)*dxy*dxy
					if d2 < distances[idx] {
						distances[idx] = d2
						labels[idx] = ci
					}
				}
			}
		}
		centers = recomputeSLICCenters(labs, labels, centers, w, h)
	}

	labels, count := mergeSmallSuperpixels(labels, w, h, params.K)
	return SLICResult{W: w, H: h, Labels: labels, Count: count}
}

func perturbToLowGradient(mag []float32, w, h, cx, cy int) (int, int) {
	bestX, bestY := clampi(cx, 0, w-1), clampi(cy, 0, h-1)
	bestMag := mag[bestY*w+bestX]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := clampi(cx+dx, 0, w-1), clampi(cy+dy, 0, h-1)
			g := mag[y*w+x]
			if g < bestMag {
				bestMag = g
				bestX, bestY = x, y
			}
		}
	}
	return bestX, bestY
}

func recomputeSLICCenters(labs []labcolor.Lab, labels []int, centers []slicCenter, w, h int) []slicCenter {
	sumLab := make([]labcolor.Lab, len(centers))
	sumX := make([]float32, len(centers))
	sumY := make([]float32, len(centers))
	count := make([]int, len(centers))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l < 0 {
				continue
			}
			idx := y*w + x
			sumLab[l].L += labs[idx].L
			sumLab[l].A += labs[idx].A
			sumLab[l].B += labs[idx].B
			sumX[l] += float32(x)
			sumY[l] += float32(y)
			count[l]++
		}
	}
	out := make([]slicCenter, len(centers))
	for i := range centers {
		if count[i] == 0 {
			out[i] = centers[i]
			continue
		}
		n := float32(count[i])
		out[i] = slicCenter{
			lab: labcolor.Lab{L: sumLab[i].L / n, A: sumLab[i].A / n, B: sumLab[i].B / n},
			x:   sumX[i] / n,
			y:   sumY[i] / n,
		}
	}
	return out
}

// mergeSmallSuperpixels reassigns pixels of disconnected or tiny
// components to their largest neighboring component, so the final
// count stays close to the requested K (spec.md §4.5 "Finalization").
func mergeSmallSuperpixels(labels []int, w, h int, targetK int) ([]int, int) {
	components, componentLabel := connectedComponents(labels, w, h)
	sizeOf := make([]int, len(components))
	for _, c := range components {
		sizeOf[c.id] = len(c.pixels)
	}

	minSize := (w * h) / (targetK * 4)
	if minSize < 4 {
		minSize = 4
	}

	parent := make([]int, len(components))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, c := range components {
		if sizeOf[c.id] >= minSize {
			continue
		}
		neighborID, neighborSize := -1, -1
		for _, p := range c.pixels {
			for _, d := range neighbor4 {
				nx, ny := p.x+d[0], p.y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				nid := componentLabel[ny*w+nx]
				if nid == c.id {
					continue
				}
				if sizeOf[nid] > neighborSize {
					neighborSize = sizeOf[nid]
					neighborID = nid
				}
			}
		}
		if neighborID >= 0 {
			parent[find(c.id)] = find(neighborID)
		}
	}

	out := make([]int, w*h)
	remap := make(map[int]int)
	for i, id := range componentLabel {
		root := find(id)
		nl, ok := remap[root]
		if !ok {
			nl = len(remap)
			remap[root] = nl
		}
		out[i] = nl
	}
	return out, len(remap)
}

type component struct {
	id     int
	pixels []struct{ x, y int }
}

var neighbor4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func connectedComponents(labels []int, w, h int) ([]component, []int) {
	visited := make([]bool, w*h)
	compLabel := make([]int, w*h)
	var components []component
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := y*w + x
			if visited[start] {
				continue
			}
			label := labels[start]
			id := len(components)
			var stack []int
			stack = append(stack, start)
			visited[start] = true
			var pixels []struct{ x, y int }
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := cur%w, cur/w
				pixels = append(pixels, struct{ x, y int }{cx, cy})
				compLabel[cur] = id
				for _, d := range neighbor4 {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if !visited[ni] && labels[ni] == label {
						visited[ni] = true
						stack = append(stack, ni)
					}
				}
			}
			components = append(components, component{id: id, pixels: pixels})
		}
	}
	return components, compLabel
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt1(a, b int) int {
	if a > b {
		return a
	}
	return b
}
