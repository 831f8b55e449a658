// Package region implements the regions backend's algorithmic stages
// (spec.md §4.5-§4.7): Lab color quantization, SLIC superpixels, the
// region adjacency graph and its merge passes, and gradient-fill
// estimation. Grounded on carver.go's seam-selection loop (iterate,
// score, pick best, repeat until convergence) for the Lloyd-iteration
// and RAG-merge control flow, since the teacher has no clustering code
// of its own.
package region

import (
	"math/rand"

	"github.com/esimov/vectorace/internal/labcolor"
)

// Palette is the result of Quantize: Lab and sRGB centers plus a
// per-pixel assignment index (spec.md §4.5). Assignment is -1 for
// pixels excluded from training/assignment (alpha < 10).
type Palette struct {
	LabCenters  []labcolor.Lab
	RGBCenters  [][3]uint8
	Assignment  []int
}

// QuantizeParams configures the k-means++ quantizer.
type QuantizeParams struct {
	K                   int
	ConvergenceThreshold float32
	MaxIterations        int
	MergeThreshold       float32 // ΔE
	Rand                 *rand.Rand
}

// Quantize clusters pix (row-major RGBA) into at most params.K Lab
// colors via k-means++ initialization and Lloyd iteration, then merges
// centers within MergeThreshold until the count no longer shrinks.
func Quantize(pix []uint8, w, h int, params QuantizeParams) Palette {
	n := w * h
	labs := make([]labcolor.Lab, n)
	trainable := make([]bool, n)
	var trainIdx []int
	for i := 0; i < n; i++ {
		a := pix[i*4+3]
		labs[i] = labcolor.FromRGB(pix[i*4], pix[i*4+1], pix[i*4+2])
		trainable[i] = a >= 10
		if trainable[i] {
			trainIdx = append(trainIdx, i)
		}
	}

	rng := params.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	centers := kmeansPlusPlusInit(labs, trainIdx, params.K, rng)
	assignment := make([]int, n)

	for iter := 0; iter < params.MaxIterations; iter++ {
		for _, i := range trainIdx {
			assignment[i] = nearestCenter(labs[i], centers)
		}
		newCenters, movement := recomputeCenters(labs, trainIdx, assignment, centers)
		centers = newCenters
		if movement < params.ConvergenceThreshold {
			break
		}
	}

	centers, assignment = mergeCloseCenters(centers, assignment, trainIdx, params.MergeThreshold)

	for i := 0; i < n; i++ {
		if !trainable[i] {
			assignment[i] = -1
		}
	}

	rgb := make([][3]uint8, len(centers))
	for i, c := range centers {
		r, g, b := c.ToRGB()
		rgb[i] = [3]uint8{r, g, b}
	}
	return Palette{LabCenters: centers, RGBCenters: rgb, Assignment: assignment}
}

func kmeansPlusPlusInit(labs []labcolor.Lab, trainIdx []int, k int, rng *rand.Rand) []labcolor.Lab {
	if len(trainIdx) == 0 || k <= 0 {
		return nil
	}
	if k > len(trainIdx) {
		k = len(trainIdx)
	}
	centers := make([]labcolor.Lab, 0, k)
	first := trainIdx[rng.Intn(len(trainIdx))]
	centers = append(centers, labs[first])

	distSq := make([]float32, len(trainIdx))
	for len(centers) < k {
		var total float64
		for j, i := range trainIdx {
			d := nearestDist(labs[i], centers)
			distSq[j] = d * d
			total += float64(distSq[j])
		}
		if total == 0 {
			centers = append(centers, labs[trainIdx[rng.Intn(len(trainIdx))]])
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := trainIdx[len(trainIdx)-1]
		for j, i := range trainIdx {
			cum += float64(distSq[j])
			if cum >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, labs[chosen])
	}
	return centers
}

func nearestDist(c labcolor.Lab, centers []labcolor.Lab) float32 {
	best := float32(1e18)
	for _, ctr := range centers {
		d := labcolor.DeltaE(c, ctr)
		if d < best {
			best = d
		}
	}
	return best
}

func nearestCenter(c labcolor.Lab, centers []labcolor.Lab) int {
	best := 0
	bestD := float32(1e18)
	for i, ctr := range centers {
		d := labcolor.DeltaE(c, ctr)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func recomputeCenters(labs []labcolor.Lab, trainIdx []int, assignment []int, oldCenters []labcolor.Lab) ([]labcolor.Lab, float32) {
	sums := make([]labcolor.Lab, len(oldCenters))
	counts := make([]int, len(oldCenters))
	for _, i := range trainIdx {
		k := assignment[i]
		sums[k].L += labs[i].L
		sums[k].A += labs[i].A
		sums[k].B += labs[i].B
		counts[k]++
	}
	newCenters := make([]labcolor.Lab, len(oldCenters))
	var movement float32
	for k := range oldCenters {
		if counts[k] == 0 {
			newCenters[k] = oldCenters[k]
			continue
		}
		c := labcolor.Lab{
			L: sums[k].L / float32(counts[k]),
			A: sums[k].A / float32(counts[k]),
			B: sums[k].B / float32(counts[k]),
		}
		movement += labcolor.DeltaE(c, oldCenters[k])
		newCenters[k] = c
	}
	return newCenters, movement
}

// mergeCloseCenters repeatedly merges the closest pair of centers
// while their ΔE is below threshold, remapping assignment indices.
func mergeCloseCenters(centers []labcolor.Lab, assignment []int, trainIdx []int, threshold float32) ([]labcolor.Lab, []int) {
	for {
		bi, bj, bd := -1, -1, threshold
		for i := 0; i < len(centers); i++ {
			for j := i + 1; j < len(centers); j++ {
				d := labcolor.DeltaE(centers[i], centers[j])
				if d < bd {
					bi, bj, bd = i, j, d
				}
			}
		}
		if bi < 0 {
			break
		}
		merged := labcolor.Lab{
			L: (centers[bi].L + centers[bj].L) / 2,
			A: (centers[bi].A + centers[bj].A) / 2,
			B: (centers[bi].B + centers[bj].B) / 2,
		}
		newCenters := make([]labcolor.Lab, 0, len(centers)-1)
		remap := make([]int, len(centers))
		for k, c := range centers {
			if k == bj {
				continue
			}
			if k == bi {
				remap[k] = len(newCenters)
				newCenters = append(newCenters, merged)
				continue
			}
			remap[k] = len(newCenters)
			newCenters = append(newCenters, c)
		}
		remap[bj] = remap[bi]
		for _, i := range trainIdx {
			assignment[i] = remap[assignment[i]]
		}
		centers = newCenters
	}
	return centers, assignment
}
