// Package dots implements the stipple placer of spec.md §4.8:
// gradient+variance candidate scoring, spacing-constrained greedy
// placement via a uniform spatial hash, and style presets. Grounded on
// sobel.go for the gradient computation (via imgutil.Sobel) and on
// carver.go's energy-then-select control flow (score every candidate,
// then greedily accept in priority order), generalized from 1-D seam
// selection to 2-D spatial acceptance.
package dots

import (
	"math"
	"sort"

	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/labcolor"
)

// Dot is one placed stipple (spec.md §3).
type Dot struct {
	X, Y    float32
	Radius  float32
	Opacity float32
	R, G, B uint8
}

// Style selects a post-process preset (spec.md §4.8 table).
type Style int

const (
	StyleNone Style = iota
	StyleFineStippling
	StyleBoldPointillism
	StyleSketchStyle
	StyleTechnicalDrawing
	StyleWatercolorEffect
)

// Params configures candidate scoring, sizing, and placement.
type Params struct {
	VarianceRadius  int
	DensityThreshold float32
	MinRadius        float32
	MaxRadius        float32
	AdaptiveSizing   bool
	SpacingFactor    float32
	PreserveColor    bool
	DefaultR, DefaultG, DefaultB uint8
	Style            Style
	// RandSeed drives position jitter for styles that use it; fixed for
	// determinism (spec.md §8 invariant: same input + seed -> same dots).
	RandSeed int64

	// BackgroundTolerance excludes candidates whose color falls within
	// this Lab ΔE distance of a border-sampled background cluster
	// (spec.md §6 dot_background_tolerance); 0 disables the check.
	BackgroundTolerance float32
	// GradientBasedSizing sizes dots directly off local gradient
	// magnitude instead of the combined gradient*variance strength
	// score used for placement (spec.md §6 dot_gradient_based_sizing).
	GradientBasedSizing bool
}

type candidate struct {
	x, y     int
	strength float32
	gradient float32
}

// Place computes gradient+variance strength for every pixel of pix,
// filters candidates above params.DensityThreshold, and greedily
// accepts them in descending strength order subject to the spacing
// constraint, then applies the configured style preset.
func Place(pix []uint8, w, h int, params Params) []Dot {
	gray := imgutil.Grayscale(pix, w, h)
	mag, _ := imgutil.Sobel(gray)
	variance := localVariance(gray, params.VarianceRadius)

	var bgClusters []labcolor.Lab
	if params.BackgroundTolerance > 0 {
		bgClusters = sampleBorderClusters(pix, w, h)
	}

	var candidates []candidate
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			s := mag[idx] * sqrt32(variance[idx])
			if s <= params.DensityThreshold {
				continue
			}
			if bgClusters != nil {
				lab := labcolor.FromRGB(pix[idx*4], pix[idx*4+1], pix[idx*4+2])
				if nearAnyCluster(lab, bgClusters, params.BackgroundTolerance) {
					continue
				}
			}
			candidates = append(candidates, candidate{x: x, y: y, strength: s, gradient: mag[idx]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].strength > candidates[j].strength })

	maxStrength := float32(0)
	maxGradient := float32(0)
	for _, c := range candidates {
		if c.strength > maxStrength {
			maxStrength = c.strength
		}
		if c.gradient > maxGradient {
			maxGradient = c.gradient
		}
	}
	if maxStrength == 0 {
		maxStrength = 1
	}
	if maxGradient == 0 {
		maxGradient = 1
	}

	// Cells must span the largest spacing distance, (2*MaxRadius)*SpacingFactor,
	// so that canAccept's 3x3 cell scan sees every conflicting dot.
	grid := newSpatialHash(cellSize(params.MaxRadius * maxf(params.SpacingFactor, 1)))
	var dots []Dot
	rng := newLCG(params.RandSeed)

	for _, c := range candidates {
		norm := c.strength / maxStrength
		if params.GradientBasedSizing {
			norm = c.gradient / maxGradient
		}
		radius := mapRadius(norm, params)
		if !grid.canAccept(float32(c.x), float32(c.y), radius, params.SpacingFactor) {
			continue
		}
		d := Dot{X: float32(c.x), Y: float32(c.y), Radius: radius, Opacity: 1}
		if params.PreserveColor {
			idx := c.y*w + c.x
			d.R, d.G, d.B = pix[idx*4], pix[idx*4+1], pix[idx*4+2]
		} else {
			d.R, d.G, d.B = params.DefaultR, params.DefaultG, params.DefaultB
		}
		grid.insert(d.X, d.Y, d.Radius)
		dots = append(dots, d)
	}

	applyStyle(dots, params.Style, &rng)
	return dots
}

func mapRadius(normStrength float32, params Params) float32 {
	if !params.AdaptiveSizing {
		return (params.MinRadius + params.MaxRadius) / 2
	}
	return params.MinRadius + normStrength*(params.MaxRadius-params.MinRadius)
}

// localVariance computes, for each pixel, the sample variance of gray
// values in a circular window of the given radius.
func localVariance(g *imgutil.GrayMap, radius int) []float32 {
	out := make([]float32, g.W*g.H)
	r2 := radius * radius
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var sum, sumSq float32
			n := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if dx*dx+dy*dy > r2 {
						continue
					}
					v := float32(g.At(x+dx, y+dy))
					sum += v
					sumSq += v * v
					n++
				}
			}
			mean := sum / float32(n)
			variance := sumSq/float32(n) - mean*mean
			if variance < 0 {
				variance = 0
			}
			out[y*g.W+x] = variance
		}
	}
	return out
}

// sampleBorderClusters samples the outer ring of pix and groups the
// samples into Lab cluster centers via single-link grouping, the same
// pattern preprocess.RemoveBackground uses to characterize a border
// background.
func sampleBorderClusters(pix []uint8, w, h int) []labcolor.Lab {
	const clusterRadius = 8.0
	var border []labcolor.Lab
	addBorder := func(x, y int) {
		i := y*w + x
		border = append(border, labcolor.FromRGB(pix[i*4], pix[i*4+1], pix[i*4+2]))
	}
	for x := 0; x < w; x++ {
		addBorder(x, 0)
		addBorder(x, h-1)
	}
	for y := 0; y < h; y++ {
		addBorder(0, y)
		addBorder(w-1, y)
	}

	var clusters []labcolor.Lab
	for _, s := range border {
		found := false
		for _, c := range clusters {
			if labcolor.DeltaE(s, c) < clusterRadius {
				found = true
				break
			}
		}
		if !found {
			clusters = append(clusters, s)
		}
	}
	return clusters
}

func nearAnyCluster(c labcolor.Lab, clusters []labcolor.Lab, tolerance float32) bool {
	for _, cl := range clusters {
		if labcolor.DeltaE(c, cl) <= tolerance {
			return true
		}
	}
	return false
}

func sqrt32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}

// lcg is a minimal deterministic linear congruential generator for
// position jitter, used instead of math/rand so the same RandSeed
// always produces the same jitter sequence independent of package
// global state.
type lcg struct{ state uint64 }

func newLCG(seed int64) lcg { return lcg{state: uint64(seed) + 1} }

func (g *lcg) next() float32 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return float32(g.state>>40) / float32(1<<24)
}

func applyStyle(dots []Dot, style Style, rng *lcg) {
	for i := range dots {
		d := &dots[i]
		switch style {
		case StyleFineStippling:
			d.Radius = minf(d.Radius, 1)
		case StyleBoldPointillism:
			d.Radius = maxf(d.Radius, 1.5)
			d.Opacity = 0.7 + 0.3*rng.next()
			jitter(d, rng, 0.3)
		case StyleSketchStyle:
			d.Opacity = 0.5 + 0.5*rng.next()
			jitter(d, rng, 1.2)
		case StyleTechnicalDrawing:
			d.Opacity = 1
		case StyleWatercolorEffect:
			d.Radius = maxf(d.Radius, 2)
			d.Opacity = 0.3 + 0.4*rng.next()
			jitter(d, rng, 0.6)
		}
	}
}

func jitter(d *Dot, rng *lcg, amount float32) {
	d.X += (rng.next()*2 - 1) * amount
	d.Y += (rng.next()*2 - 1) * amount
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
