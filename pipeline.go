package vectorace

import (
	"github.com/esimov/vectorace/internal/imgutil"
	"github.com/esimov/vectorace/internal/preprocess"
)

// preprocessed holds every intermediate the backends need after the
// shared pipeline stage (spec.md §4.2): the possibly background-faded
// pixels, a gray map, and (when the caller asks for one) a binarized
// mask, morphologically cleaned when noise filtering is on.
type preprocessed struct {
	pix  []uint8
	gray *imgutil.GrayMap
	mask *imgutil.BinaryMask
}

// transparentAlphaThreshold matches the low-alpha training exclusion
// in region.Quantize: pixels below it carry no classifiable color.
const transparentAlphaThreshold = 10

// allTransparent reports whether every pixel of pix is below the
// classifiable-alpha threshold, i.e. the raster carries no content at
// all (spec.md §8 invariant 10, scenario E6).
func allTransparent(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] >= transparentAlphaThreshold {
			return false
		}
	}
	return true
}

// runPreprocess executes the shared stage of spec.md §4.2 in this
// order: background removal -> grayscale -> bilateral noise filter (run
// on the gray map and carried back into the RGB pixels) -> threshold ->
// morphology. There is no blur stage apart from the bilateral filter.
// needMask lets Edge, Regions and Dots skip the threshold/morphology
// stages they never read.
func runPreprocess(r Raster, c *SharedConfig, needMask bool) (*preprocessed, error) {
	pix := r.Pix
	if c.RemoveBackground {
		out, err := preprocess.RemoveBackground(pix, r.W, r.H, c.BackgroundAlgorithm, c.BackgroundSampleRatio, c.BackgroundTolerance, c.BackgroundStrength)
		if err != nil {
			return nil, wrapError(CodeInvalidParameter, err, "background removal")
		}
		pix = out
	}

	gray := imgutil.Grayscale(pix, r.W, r.H)

	if c.NoiseFilter {
		blurred, err := preprocess.BilateralFilter(c.environment(), gray, c.BilateralSpatialSigma, c.BilateralRangeSigma)
		if err != nil {
			return nil, wrapError(CodeInvalidParameter, err, "bilateral filter")
		}
		// Reconstruct RGB from the filtered luma so every downstream
		// color-based consumer (Quantize, SLIC, dot color sampling) sees
		// the filtered image too, not just the private gray map.
		pix = imgutil.RescaleByLuma(pix, gray, blurred, r.W, r.H)
		gray = blurred
	}

	if !needMask {
		return &preprocessed{pix: pix, gray: gray}, nil
	}

	mask, err := preprocess.Threshold(gray, c.ThresholdAlgorithm, c.ThresholdWindow, c.ThresholdK, c.ThresholdR)
	if err != nil {
		return nil, wrapError(CodeInvalidParameter, err, "threshold")
	}
	if c.NoiseFilter {
		mask = preprocess.OpenThenClose(mask)
	}

	return &preprocessed{pix: pix, gray: gray, mask: mask}, nil
}
