package vectorace

import "github.com/esimov/vectorace/internal/dots"

// DotsConfig configures the Dots backend (spec.md §4.8, §4.11).
type DotsConfig struct {
	Shared          SharedConfig
	PreprocessFirst bool // preprocessing is optional for this backend

	VarianceRadius   int
	DensityThreshold float32
	MinRadius        float32
	MaxRadius        float32
	AdaptiveSizing   bool
	SpacingFactor    float32
	PreserveColor    bool
	DefaultR, DefaultG, DefaultB uint8
	Style            dots.Style
	RandSeed         int64

	// BackgroundTolerance excludes candidates near the border-sampled
	// background color (spec.md §6 dot_background_tolerance); 0 disables
	// the check.
	BackgroundTolerance float32
	// GradientBasedSizing sizes dots off raw local gradient magnitude
	// instead of the combined gradient*variance strength score (spec.md
	// §6 dot_gradient_based_sizing).
	GradientBasedSizing bool
}

// DefaultDotsConfig returns the spec.md §4.8 defaults.
func DefaultDotsConfig() DotsConfig {
	return DotsConfig{
		Shared:           DefaultSharedConfig(),
		PreprocessFirst:  false,
		VarianceRadius:   3,
		DensityThreshold: 8,
		MinRadius:        0.5,
		MaxRadius:        2.5,
		AdaptiveSizing:   true,
		SpacingFactor:    1.3,
		PreserveColor:    true,
		DefaultR:         0, DefaultG: 0, DefaultB: 0,
		Style:    dots.StyleNone,
		RandSeed: 1,

		BackgroundTolerance: 0,
		GradientBasedSizing: false,
	}
}

func (c *DotsConfig) validate() error {
	if c.PreprocessFirst {
		if err := c.Shared.validate(); err != nil {
			return err
		}
	}
	if c.MinRadius <= 0 || c.MaxRadius < c.MinRadius {
		return newError(CodeInvalidParameter, "invalid radius range [%v,%v]", c.MinRadius, c.MaxRadius)
	}
	if c.VarianceRadius < 1 {
		return newError(CodeInvalidParameter, "variance radius must be >= 1, got %d", c.VarianceRadius)
	}
	if c.SpacingFactor <= 0 {
		return newError(CodeInvalidParameter, "spacing factor must be positive, got %v", c.SpacingFactor)
	}
	if c.BackgroundTolerance < 0 {
		return newError(CodeInvalidParameter, "background tolerance must be non-negative, got %v", c.BackgroundTolerance)
	}
	return nil
}

func (c *DotsConfig) placeParams() dots.Params {
	return dots.Params{
		VarianceRadius:   c.VarianceRadius,
		DensityThreshold: c.DensityThreshold,
		MinRadius:        c.MinRadius,
		MaxRadius:        c.MaxRadius,
		AdaptiveSizing:   c.AdaptiveSizing,
		SpacingFactor:    c.SpacingFactor,
		PreserveColor:    c.PreserveColor,
		DefaultR:         c.DefaultR,
		DefaultG:         c.DefaultG,
		DefaultB:         c.DefaultB,
		Style:            c.Style,
		RandSeed:         c.RandSeed,

		BackgroundTolerance: c.BackgroundTolerance,
		GradientBasedSizing: c.GradientBasedSizing,
	}
}
