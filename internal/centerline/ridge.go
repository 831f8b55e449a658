package centerline

import (
	"sort"

	"github.com/esimov/vectorace/internal/geom"
	"github.com/esimov/vectorace/internal/imgutil"
)

// RidgeParams configures ridge detection and the ridge walk (spec.md
// §4.4).
type RidgeParams struct {
	RidgeThreshold  float32
	MinRidgeStrength float32
}

var neighbor8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// axisPairs groups neighbor8 into the four axes (0°, 45°, 90°, 135°)
// a pixel must be a local maximum along at least one of, per spec.md
// §4.4's ridge definition.
var axisPairs = [4][2]int{{0, 4}, {1, 5}, {2, 6}, {3, 7}}

type ridgePixel struct {
	x, y int
	dist float32
}

// DetectRidges marks every pixel of field that is a ridge: distance
// at or above ridgeThreshold and minRidgeStrength, and a local maximum
// along at least one of the four 8-neighborhood axes.
func DetectRidges(field *imgutil.DistanceField, params RidgeParams) []ridgePixel {
	var out []ridgePixel
	for y := 0; y < field.H; y++ {
		for x := 0; x < field.W; x++ {
			d := field.At(x, y)
			if d < params.RidgeThreshold || d < params.MinRidgeStrength {
				continue
			}
			if isAxisLocalMax(field, x, y, d) {
				out = append(out, ridgePixel{x, y, d})
			}
		}
	}
	return out
}

func isAxisLocalMax(field *imgutil.DistanceField, x, y int, d float32) bool {
	for _, pair := range axisPairs {
		a := neighbor8[pair[0]]
		b := neighbor8[pair[1]]
		da := sampleOrNeg(field, x+a[0], y+a[1])
		db := sampleOrNeg(field, x+b[0], y+b[1])
		if d >= da && d >= db {
			return true
		}
	}
	return false
}

func sampleOrNeg(field *imgutil.DistanceField, x, y int) float32 {
	if x < 0 || y < 0 || x >= field.W || y >= field.H {
		return -1
	}
	return field.At(x, y)
}

// RidgeWalk sorts ridge pixels by distance descending and greedily
// chains each unvisited pixel to its highest-distance unvisited
// 8-connected ridge neighbor, emitting every chain of length >=
// minBranchLength as a polyline (spec.md §4.4, §6 min_branch_length).
func RidgeWalk(ridges []ridgePixel, minBranchLength int) []geom.Polyline {
	sort.Slice(ridges, func(i, j int) bool { return ridges[i].dist > ridges[j].dist })

	index := make(map[[2]int]int, len(ridges))
	for i, r := range ridges {
		index[[2]int{r.x, r.y}] = i
	}
	visited := make([]bool, len(ridges))

	var polylines []geom.Polyline
	for i, r := range ridges {
		if visited[i] {
			continue
		}
		chain := []geom.Point2{{X: float32(r.x), Y: float32(r.y)}}
		visited[i] = true
		cur := r
		for {
			next, ok := bestUnvisitedNeighbor(cur, index, ridges, visited)
			if !ok {
				break
			}
			chain = append(chain, geom.Point2{X: float32(next.x), Y: float32(next.y)})
			visited[index[[2]int{next.x, next.y}]] = true
			cur = next
		}
		if len(chain) >= minBranchLength {
			polylines = append(polylines, geom.Polyline{Points: chain})
		}
	}
	return polylines
}

func bestUnvisitedNeighbor(cur ridgePixel, index map[[2]int]int, ridges []ridgePixel, visited []bool) (ridgePixel, bool) {
	best := ridgePixel{}
	found := false
	for _, n := range neighbor8 {
		key := [2]int{cur.x + n[0], cur.y + n[1]}
		idx, ok := index[key]
		if !ok || visited[idx] {
			continue
		}
		cand := ridges[idx]
		if !found || cand.dist > best.dist {
			best = cand
			found = true
		}
	}
	return best, found
}
