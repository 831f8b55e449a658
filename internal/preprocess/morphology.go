package preprocess

import "github.com/esimov/vectorace/internal/imgutil"

// Open applies a 3x3 morphological erosion followed by a 3x3 dilation
// (spec.md §4.2), using border replication so edge pixels see a full
// 3x3 neighborhood instead of a synthetic background/foreground value.
func Open(m *imgutil.BinaryMask) *imgutil.BinaryMask {
	return dilate3x3(erode3x3(m))
}

// Close applies a 3x3 dilation followed by a 3x3 erosion.
func Close(m *imgutil.BinaryMask) *imgutil.BinaryMask {
	return erode3x3(dilate3x3(m))
}

// OpenThenClose runs the fixed pipeline order of spec.md §4.2: open,
// then close.
func OpenThenClose(m *imgutil.BinaryMask) *imgutil.BinaryMask {
	return Close(Open(m))
}

func erode3x3(m *imgutil.BinaryMask) *imgutil.BinaryMask {
	out := imgutil.NewBinaryMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			all := true
			for dy := -1; dy <= 1 && all; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if !borderReplicatedAt(m, x+dx, y+dy) {
						all = false
						break
					}
				}
			}
			out.Set(x, y, all)
		}
	}
	return out
}

func dilate3x3(m *imgutil.BinaryMask) *imgutil.BinaryMask {
	out := imgutil.NewBinaryMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			any := false
			for dy := -1; dy <= 1 && !any; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if borderReplicatedAt(m, x+dx, y+dy) {
						any = true
						break
					}
				}
			}
			out.Set(x, y, any)
		}
	}
	return out
}

// borderReplicatedAt clamps (x, y) to the mask bounds instead of
// treating out-of-range reads as background, per spec.md §4.2's
// "border replication" requirement.
func borderReplicatedAt(m *imgutil.BinaryMask, x, y int) bool {
	if x < 0 {
		x = 0
	} else if x >= m.W {
		x = m.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.H {
		y = m.H - 1
	}
	return m.At(x, y)
}
