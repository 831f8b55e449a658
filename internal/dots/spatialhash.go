package dots

type hashKey struct{ cx, cy int }

type entry struct {
	x, y, r float32
}

// spatialHash is a uniform grid over (x, y) giving O(1) average-case
// neighbor queries for the spacing-constrained placement pass (spec.md
// §4.8).
type spatialHash struct {
	cellSize float32
	cells    map[hashKey][]entry
}

func newSpatialHash(cellSize float32) *spatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &spatialHash{cellSize: cellSize, cells: make(map[hashKey][]entry)}
}

func cellSize(maxRadius float32) float32 {
	if maxRadius <= 0 {
		return 4
	}
	return maxRadius * 2
}

func (h *spatialHash) keyOf(x, y float32) hashKey {
	return hashKey{int(x / h.cellSize), int(y / h.cellSize)}
}

// canAccept reports whether a candidate dot at (x, y) with the given
// radius is at least (r_i + r_j)*spacingFactor away from every
// already-accepted dot whose cell could possibly be within range.
func (h *spatialHash) canAccept(x, y, radius, spacingFactor float32) bool {
	k := h.keyOf(x, y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, e := range h.cells[hashKey{k.cx + dx, k.cy + dy}] {
				ddx, ddy := x-e.x, y-e.y
				distSq := ddx*ddx + ddy*ddy
				minDist := (radius + e.r) * spacingFactor
				if distSq < minDist*minDist {
					return false
				}
			}
		}
	}
	return true
}

func (h *spatialHash) insert(x, y, radius float32) {
	k := h.keyOf(x, y)
	h.cells[k] = append(h.cells[k], entry{x: x, y: y, r: radius})
}
