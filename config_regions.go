package vectorace

import "github.com/esimov/vectorace/internal/region"

// RegionMergeMode selects between the RAG merge contracts of spec.md
// §4.6.
type RegionMergeMode int

const (
	MergeFelzenszwalbHuttenlocher RegionMergeMode = iota
	MergePredicateDeltaE
	MergePredicateGradientAware
)

// RegionsConfig configures the Regions backend (spec.md §4.5-§4.7,
// §4.11).
type RegionsConfig struct {
	Shared SharedConfig

	QuantizeK                   int
	QuantizeConvergenceThreshold float32
	QuantizeMaxIterations        int
	QuantizeMergeThreshold       float32

	SLICCompactness float32
	SLICIterations  int

	MergeMode       RegionMergeMode
	FHConstant      float32
	FHMinSize       int
	PredicateThreshold float32
	PredicateGradHigh  float32
	PredicateMaxIterations int

	FitGradients   bool
	MaxGradientStops int

	SimplifyDetail float32
}

// DefaultRegionsConfig returns the spec.md §4.5-§4.7 defaults.
func DefaultRegionsConfig() RegionsConfig {
	return RegionsConfig{
		Shared:                       DefaultSharedConfig(),
		QuantizeK:                    16,
		QuantizeConvergenceThreshold: 1.0,
		QuantizeMaxIterations:        20,
		QuantizeMergeThreshold:       3.0,
		SLICCompactness:              10,
		SLICIterations:               10,
		MergeMode:                    MergeFelzenszwalbHuttenlocher,
		FHConstant:                   300,
		FHMinSize:                    20,
		PredicateThreshold:           8,
		PredicateGradHigh:            60,
		PredicateMaxIterations:       10,
		FitGradients:                 true,
		MaxGradientStops:             4,
		SimplifyDetail:               0.4,
	}
}

func (c *RegionsConfig) validate() error {
	if err := c.Shared.validate(); err != nil {
		return err
	}
	if c.QuantizeK < 1 {
		return newError(CodeInvalidParameter, "quantize K must be >= 1, got %d", c.QuantizeK)
	}
	if c.SLICCompactness <= 0 {
		return newError(CodeInvalidParameter, "SLIC compactness must be positive, got %v", c.SLICCompactness)
	}
	if c.MaxGradientStops < 2 {
		return newError(CodeInvalidParameter, "max gradient stops must be >= 2, got %d", c.MaxGradientStops)
	}
	return nil
}

func (c *RegionsConfig) mergePredicate() (region.MergePredicate, bool) {
	switch c.MergeMode {
	case MergePredicateDeltaE:
		return region.DeltaEPredicate(c.PredicateThreshold), true
	case MergePredicateGradientAware:
		return region.GradientAwarePredicate(c.PredicateThreshold, c.PredicateGradHigh), true
	default:
		return nil, false
	}
}
