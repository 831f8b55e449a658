// Package centerline implements the distance-transform centerline
// backend's two algorithmic stages (spec.md §4.4): the Felzenszwalb-
// Huttenlocher exact distance transform and ridge detection/walking.
// Grounded on carver.go's per-row-then-per-column energy accumulation
// pattern (the seam carver's cumulative energy matrix is also built in
// two separable passes), generalized from an additive DP to the
// lower-envelope-of-parabolas DT.
package centerline

import (
	"math"

	"github.com/esimov/vectorace/internal/imgutil"
)

const dtInf = 1e20

// DistanceTransform computes the exact Euclidean distance transform of
// the foreground of m: for every pixel, the distance to the nearest
// background pixel. Pixels outside the mask count as background (as
// BinaryMask.At reads them), so foreground touching the image edge is
// at distance 1 from it. Rows are transformed first, then columns, per
// spec.md §4.4.
func DistanceTransform(m *imgutil.BinaryMask) *imgutil.DistanceField {
	w, h := m.W, m.H
	sq := make([]float64, w*h)
	for i := 0; i < w*h; i++ {
		x, y := i%w, i/w
		if m.At(x, y) {
			sq[i] = dtInf
		} else {
			sq[i] = 0
		}
	}

	row := make([]float64, w)
	for y := 0; y < h; y++ {
		copy(row, sq[y*w:y*w+w])
		out := dt1D(row)
		copy(sq[y*w:y*w+w], out)
	}

	col := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = sq[y*w+x]
		}
		out := dt1D(col)
		for y := 0; y < h; y++ {
			sq[y*w+x] = out[y]
		}
	}

	field := imgutil.NewDistanceField(w, h)
	for i := 0; i < w*h; i++ {
		x, y := i%w, i/w
		// The nearest out-of-image pixel lies straight across the
		// closest image edge.
		edge := math.Min(math.Min(float64(x+1), float64(w-x)), math.Min(float64(y+1), float64(h-y)))
		field.Set(x, y, float32(math.Min(math.Sqrt(sq[i]), edge)))
	}
	return field
}

// dt1D computes the 1-D squared distance transform of f via the
// Felzenszwalb-Huttenlocher lower-envelope-of-parabolas algorithm.
func dt1D(f []float64) []float64 {
	n := len(f)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		var s float64
		for {
			// Intersection of the parabolas rooted at v[k] and q.
			// v[k] < q always holds, so denom is positive; the zero
			// check is defensive and would map that case to +Inf,
			// which ends this loop.
			denom := 2 * float64(q-v[k])
			if denom == 0 {
				s = math.Inf(1)
			} else {
				s = ((f[q] + float64(q*q)) - (f[v[k]] + float64(v[k]*v[k]))) / denom
			}
			if s > z[k] {
				break
			}
			k--
			if k < 0 {
				k = 0
				break
			}
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dx := float64(q - v[k])
		d[q] = dx*dx + f[v[k]]
	}
	return d
}
