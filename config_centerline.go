package vectorace

import "github.com/esimov/vectorace/internal/preprocess"

// CenterlineConfig configures the Centerline backend (spec.md §4.4,
// §4.11).
type CenterlineConfig struct {
	Shared SharedConfig

	RidgeThreshold   float32
	MinRidgeStrength float32
	// MinBranchLength is the shortest ridge-walk chain (in pixels) kept
	// as an emitted polyline (spec.md §6).
	MinBranchLength int

	SimplifyDetail float32

	// StrokePxAt1080p is the base stroke width at a 1920×1080 reference
	// resolution; the emitted width scales by
	// √((W²+H²)/1920²) (spec.md §6).
	StrokePxAt1080p float32

	// EnableAdaptiveThreshold switches the binarization step from Otsu
	// to Bradley-Roth local thresholding (spec.md §6): a genuine
	// per-run toggle, not the unrelated background-removal "Adaptive"
	// algorithm.
	EnableAdaptiveThreshold     bool
	AdaptiveThresholdWindowSize int
	AdaptiveThresholdK          float32
}

// DefaultCenterlineConfig returns the spec.md §4.4 defaults.
func DefaultCenterlineConfig() CenterlineConfig {
	c := CenterlineConfig{
		Shared:                      DefaultSharedConfig(),
		RidgeThreshold:              1.5,
		MinRidgeStrength:            1.0,
		MinBranchLength:             3,
		SimplifyDetail:              0.5,
		StrokePxAt1080p:             1,
		EnableAdaptiveThreshold:     false,
		AdaptiveThresholdWindowSize: 15,
		AdaptiveThresholdK:          0.15,
	}
	c.Shared.ThresholdAlgorithm = preprocess.ThresholdOtsu
	return c
}

func (c *CenterlineConfig) validate() error {
	if err := c.Shared.validate(); err != nil {
		return err
	}
	if c.RidgeThreshold < 0 || c.MinRidgeStrength < 0 {
		return newError(CodeInvalidParameter, "ridge thresholds must be non-negative, got threshold=%v min=%v", c.RidgeThreshold, c.MinRidgeStrength)
	}
	if c.MinBranchLength < 1 {
		return newError(CodeInvalidParameter, "min branch length must be >= 1, got %d", c.MinBranchLength)
	}
	if c.SimplifyDetail < 0 || c.SimplifyDetail > 1 {
		return newError(CodeInvalidParameter, "simplify detail must be in [0,1], got %v", c.SimplifyDetail)
	}
	if c.StrokePxAt1080p <= 0 {
		return newError(CodeInvalidParameter, "stroke width at 1080p must be positive, got %v", c.StrokePxAt1080p)
	}
	if c.EnableAdaptiveThreshold && c.AdaptiveThresholdWindowSize < 3 {
		return newError(CodeInvalidParameter, "adaptive threshold window size must be >= 3, got %d", c.AdaptiveThresholdWindowSize)
	}
	return nil
}

// resolveThreshold applies the adaptive-threshold toggle to Shared just
// before preprocessing runs, overriding the Otsu default with
// Bradley-Roth local thresholding when enabled.
func (c *CenterlineConfig) resolveThreshold() SharedConfig {
	shared := c.Shared
	if c.EnableAdaptiveThreshold {
		shared.ThresholdAlgorithm = preprocess.ThresholdBradleyRoth
		shared.ThresholdWindow = c.AdaptiveThresholdWindowSize
		shared.ThresholdR = c.AdaptiveThresholdK
	}
	return shared
}
