package region

import "github.com/esimov/vectorace/internal/geom"

// TraceBoundary extracts the outer boundary of regionID in a dense
// label map as a closed polyline, using Moore-neighbor contour
// tracing. Grounded on the region adjacency graph's own boundary-pixel
// scan (rag.go:BuildGraph) but walking the border in order instead of
// just counting it.
func TraceBoundary(labels []int, w, h, regionID int) geom.Polyline {
	start := findStartPixel(labels, w, h, regionID)
	if start < 0 {
		return geom.Polyline{}
	}
	sx, sy := start%w, start/w

	dirs := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	belongs := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == regionID
	}

	var pts []geom.Point2
	cx, cy := sx, sy
	backtrack := 6 // direction pointing "behind" the start, i.e. north (the start is the first pixel in raster order)
	maxSteps := 4 * w * h

	for steps := 0; steps < maxSteps; steps++ {
		pts = append(pts, geom.Point2{X: float32(cx), Y: float32(cy)})
		found := false
		for i := 0; i < 8; i++ {
			d := (backtrack + 1 + i) % 8
			nx, ny := cx+dirs[d][0], cy+dirs[d][1]
			if belongs(nx, ny) {
				cx, cy = nx, ny
				backtrack = (d + 4) % 8
				found = true
				break
			}
		}
		if !found {
			break
		}
		if cx == sx && cy == sy && steps > 0 {
			break
		}
	}
	return geom.Polyline{Points: pts, Closed: true}
}

func findStartPixel(labels []int, w, h, regionID int) int {
	for i, l := range labels {
		if l == regionID {
			return i
		}
	}
	return -1
}
