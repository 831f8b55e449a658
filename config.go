package vectorace

import (
	"math"

	"github.com/esimov/vectorace/internal/preprocess"
	"github.com/esimov/vectorace/internal/xsched"
)

// SharedConfig holds the preprocessing and execution knobs common to
// every backend (spec.md §4.2, §4.14), generalized from the teacher's
// flat Processor struct (process.go:Processor) into a struct embedded
// by each backend's own config instead of one struct for everything.
type SharedConfig struct {
	// Environment controls worker count and is read once per run; nil
	// selects xsched.NewEnvironment(0) (all cores).
	Environment *xsched.Environment

	RemoveBackground    bool
	BackgroundAlgorithm preprocess.BackgroundAlgorithm
	BackgroundSampleRatio float32
	BackgroundTolerance   float32
	BackgroundStrength    float32

	NoiseFilter    bool
	BilateralSpatialSigma float32
	BilateralRangeSigma   float32

	ThresholdAlgorithm preprocess.ThresholdAlgorithm
	ThresholdWindow    int
	ThresholdK         float32
	ThresholdR         float32

	// MaxPixels caps W*H; rasters above it are rejected as
	// InvalidDimensions (spec.md §8) rather than processed.
	MaxPixels int

	Logger Logger
}

// DefaultSharedConfig returns the spec.md §4.2 defaults.
func DefaultSharedConfig() SharedConfig {
	return SharedConfig{
		RemoveBackground:      false,
		BackgroundAlgorithm:   preprocess.BackgroundAuto,
		BackgroundSampleRatio: 0.1,
		BackgroundTolerance:   12,
		BackgroundStrength:    0.8,
		NoiseFilter:           true,
		BilateralSpatialSigma: 1.5,
		BilateralRangeSigma:   20,
		ThresholdAlgorithm:    preprocess.ThresholdOtsu,
		ThresholdWindow:       15,
		ThresholdK:            0.5,
		ThresholdR:            0.15,
		MaxPixels:             64 * 1 << 20, // 64 megapixels
	}
}

func (c *SharedConfig) validate() error {
	if c.BackgroundSampleRatio < 0 || c.BackgroundSampleRatio > 1 {
		return newError(CodeInvalidParameter, "background sample ratio must be in [0,1], got %v", c.BackgroundSampleRatio)
	}
	if c.BilateralSpatialSigma <= 0 || c.BilateralRangeSigma <= 0 || nonFinite(c.BilateralSpatialSigma) || nonFinite(c.BilateralRangeSigma) {
		return newError(CodeInvalidParameter, "bilateral sigmas must be positive and finite, got spatial=%v range=%v", c.BilateralSpatialSigma, c.BilateralRangeSigma)
	}
	if c.ThresholdWindow < 3 {
		return newError(CodeInvalidParameter, "threshold window size must be >= 3, got %d", c.ThresholdWindow)
	}
	if c.MaxPixels <= 0 {
		return newError(CodeInvalidParameter, "max pixels must be positive, got %d", c.MaxPixels)
	}
	return nil
}

func (c *SharedConfig) environment() *xsched.Environment {
	if c.Environment == nil {
		return xsched.NewEnvironment(0)
	}
	return c.Environment
}

func (c *SharedConfig) logger() Logger {
	return loggerOrDefault(c.Logger)
}

func nonFinite(v float32) bool {
	return math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)
}
