package vectorace

// EdgeConfig configures the Edge backend (spec.md §4.3, §4.11).
type EdgeConfig struct {
	Shared SharedConfig

	ETFRadius      int
	ETFIterations  int
	MinGrad        float32
	MinCoherency   float32
	MaxGap         int
	MaxLen         int
	StepSize       float32
	MaxAngleDev    float32

	SimplifyDetail float32 // δ ∈ [0,1], spec.md §4.9
	FitBezier      bool

	// StrokePxAt1080p is the base stroke width at a 1920×1080 reference
	// resolution; the emitted width scales by
	// √((W²+H²)/1920²) (spec.md §6).
	StrokePxAt1080p float32
	// LinePreserveColors samples the traced raster's midpoint color for
	// each polyline's stroke instead of a flat black (spec.md §6).
	LinePreserveColors bool
}

// DefaultEdgeConfig returns the spec.md §4.3 defaults.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		Shared:             DefaultSharedConfig(),
		ETFRadius:          2,
		ETFIterations:      4,
		MinGrad:            0.08,
		MinCoherency:       0.15,
		MaxGap:             4,
		MaxLen:             10000,
		StepSize:           0.5,
		MaxAngleDev:        30,
		SimplifyDetail:     0.5,
		FitBezier:          true,
		StrokePxAt1080p:    1,
		LinePreserveColors: false,
	}
}

func (c *EdgeConfig) validate() error {
	if err := c.Shared.validate(); err != nil {
		return err
	}
	if c.ETFRadius < 1 {
		return newError(CodeInvalidParameter, "ETF radius must be >= 1, got %d", c.ETFRadius)
	}
	if c.SimplifyDetail < 0 || c.SimplifyDetail > 1 {
		return newError(CodeInvalidParameter, "simplify detail must be in [0,1], got %v", c.SimplifyDetail)
	}
	if c.MaxLen <= 0 {
		return newError(CodeInvalidParameter, "max trace length must be positive, got %d", c.MaxLen)
	}
	if c.StrokePxAt1080p <= 0 {
		return newError(CodeInvalidParameter, "stroke width at 1080p must be positive, got %v", c.StrokePxAt1080p)
	}
	return nil
}
