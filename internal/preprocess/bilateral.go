package preprocess

import (
	"fmt"
	"math"

	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/xsched"
)

// BilateralFilter smooths g while preserving edges where the local
// intensity difference greatly exceeds rangeSigma, by combining a
// Gaussian spatial weight with a Gaussian range weight (spec.md §4.2).
// Grounded on stackblur.go's separable, precomputed-lookup-table
// structure (mulTable/shgTable): here the "lookup table" is the
// once-per-call spatial weight grid instead of the teacher's
// radius-indexed multiply/shift tables, since a range-weighted filter
// cannot be kept strictly separable. Rows are independent and written
// to disjoint output slots, so they're chunked across env's workers
// through xsched.ParallelMap (spec.md §5's "chunked by rows" model;
// C1's one wired hot loop).
func BilateralFilter(env *xsched.Environment, g *imgutil.GrayMap, spatialSigma, rangeSigma float32) (*imgutil.GrayMap, error) {
	if spatialSigma <= 0 || rangeSigma <= 0 || isNonFinite(spatialSigma) || isNonFinite(rangeSigma) {
		return nil, fmt.Errorf("invalid sigma: spatial=%v range=%v", spatialSigma, rangeSigma)
	}

	// radius 2 (5x5 kernel) is both the fast path for spatialSigma <= 2
	// and the minimum kernel size above it.
	radius := 2
	if spatialSigma > 2 {
		radius = int(math.Ceil(float64(spatialSigma) * 2))
	}

	spatial := make([][]float32, 2*radius+1)
	for dy := -radius; dy <= radius; dy++ {
		row := make([]float32, 2*radius+1)
		for dx := -radius; dx <= radius; dx++ {
			dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			row[dx+radius] = gauss(dist, spatialSigma)
		}
		spatial[dy+radius] = row
	}

	out := imgutil.NewGrayMap(g.W, g.H)
	if env == nil {
		env = xsched.SingleThreaded()
	}
	env.ParallelMap(g.H, xsched.DefaultOptions(), func(yLo, yHi int) {
		for y := yLo; y < yHi; y++ {
			for x := 0; x < g.W; x++ {
				center := float32(g.At(x, y))
				var sum, weightSum float32
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						n := float32(g.At(x+dx, y+dy))
						w := spatial[dy+radius][dx+radius] * gauss(n-center, rangeSigma)
						sum += w * n
						weightSum += w
					}
				}
				if weightSum == 0 {
					out.Set(x, y, g.At(x, y))
					continue
				}
				out.Set(x, y, uint8(sum/weightSum))
			}
		}
	})
	return out, nil
}

func gauss(x, sigma float32) float32 {
	return float32(math.Exp(-float64(x*x) / (2 * float64(sigma) * float64(sigma))))
}

func isNonFinite(v float32) bool {
	return math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)
}
