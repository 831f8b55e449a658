// Package edge implements the edge backend's two algorithmic stages
// (spec.md §4.3): edge tangent flow (ETF) and the flow-guided polyline
// tracer. Grounded on sobel.go/stackblur.go for the gradient/neighbor-
// window idiom (explicit 3x3 or radius-R loops over a flat pixel
// slice, no convolution abstraction), generalized from the teacher's
// scalar-image operations to a per-pixel tangent-vector field.
package edge

import (
	"math"

	"github.com/esimov/vectorace/internal/imgutil"
)

// Field holds the edge tangent flow: a unit tangent and a coherency
// value per pixel.
type Field struct {
	W, H       int
	TangentX   []float32
	TangentY   []float32
	Coherency  []float32
	Gradient   []float32
}

// ComputeETF derives a smoothed tangent field from a gray map's
// gradient, iteratively refined by neighbor voting over a radius-R
// window for iterations rounds (spec.md §4.3).
func ComputeETF(g *imgutil.GrayMap, radius, iterations int) *Field {
	mag, dir := imgutil.Sobel(g)
	n := g.W * g.H

	tx := make([]float32, n)
	ty := make([]float32, n)
	for i := range tx {
		// tangent = gradient rotated 90 degrees
		tx[i] = -float32(math.Sin(float64(dir[i])))
		ty[i] = float32(math.Cos(float64(dir[i])))
	}

	f := &Field{W: g.W, H: g.H, TangentX: tx, TangentY: ty, Coherency: make([]float32, n), Gradient: mag}

	normMag := normalize(mag)
	for it := 0; it < iterations; it++ {
		f.TangentX, f.TangentY = refinePass(f, normMag, radius)
	}
	computeCoherency(f, radius)
	return f
}

func normalize(mag []float32) []float32 {
	var maxV float32
	for _, m := range mag {
		if m > maxV {
			maxV = m
		}
	}
	if maxV == 0 {
		maxV = 1
	}
	out := make([]float32, len(mag))
	for i, m := range mag {
		out[i] = m / maxV
	}
	return out
}

// refinePass performs one ETF iteration: each pixel's new tangent is a
// magnitude- and angle-weighted vote of its radius-R neighbors'
// tangents, flipped to align with the center when necessary.
func refinePass(f *Field, normMag []float32, radius int) ([]float32, []float32) {
	w, h := f.W, f.H
	newTx := make([]float32, w*h)
	newTy := make([]float32, w*h)

	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return y*w + x
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := y*w + x
			cx, cy := f.TangentX[ci], f.TangentY[ci]
			var sx, sy float32
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ni := at(x+dx, y+dy)
					nx, ny := f.TangentX[ni], f.TangentY[ni]
					dot := cx*nx + cy*ny
					sign := float32(1)
					if dot < 0 {
						sign = -1
					}
					magWeight := normMag[ni] - normMag[ci]
					if magWeight < 0 {
						magWeight = 0
					}
					angleWeight := absf(dot)
					weight := magWeight * angleWeight
					sx += sign * nx * weight
					sy += sign * ny * weight
				}
			}
			l := float32(math.Sqrt(float64(sx*sx + sy*sy)))
			if l < 1e-6 {
				newTx[ci], newTy[ci] = cx, cy
				continue
			}
			newTx[ci], newTy[ci] = sx/l, sy/l
		}
	}
	return newTx, newTy
}

// computeCoherency sets Coherency[i] to the normalized magnitude of the
// vector sum of tangents in the radius-R neighborhood of i: a uniform
// flow gives coherency near 1, a chaotic one near 0.
func computeCoherency(f *Field, radius int) {
	w, h := f.W, f.H
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return y*w + x
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sx, sy float32
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ni := at(x+dx, y+dy)
					sx += f.TangentX[ni]
					sy += f.TangentY[ni]
					count++
				}
			}
			l := float32(math.Sqrt(float64(sx*sx + sy*sy)))
			f.Coherency[y*w+x] = l / float32(count)
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// TangentAt returns the (possibly out-of-range-clamped) tangent vector
// at (x, y).
func (f *Field) TangentAt(x, y int) (float32, float32) {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	i := y*f.W + x
	return f.TangentX[i], f.TangentY[i]
}
