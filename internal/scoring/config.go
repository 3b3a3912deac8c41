package scoring

import "archetype-quiz-service/internal/domain"

// Defaults applied when the definition leaves a parameter unset.
const (
	DefaultMinThreshold         = 10.0
	DefaultSingleDominanceRatio = 0.50
	DefaultDualInclusionRatio   = 0.65
	DefaultTripleInclusionRatio = 0.45
	DefaultRankCeiling          = 12
	DefaultBinaryPairPoints     = 3.0
)

// Config is the resolved, fully populated set of scoring parameters.
type Config struct {
	MinThreshold         float64
	SingleDominanceRatio float64
	DualInclusionRatio   float64
	TripleInclusionRatio float64
	RankCeiling          int
	BinaryPairPoints     float64
}

// ResolveConfig fills unset parameters with their defaults.
func ResolveConfig(sc domain.ScoringConfig) Config {
	cfg := Config{
		MinThreshold:         DefaultMinThreshold,
		SingleDominanceRatio: DefaultSingleDominanceRatio,
		DualInclusionRatio:   DefaultDualInclusionRatio,
		TripleInclusionRatio: DefaultTripleInclusionRatio,
		RankCeiling:          DefaultRankCeiling,
		BinaryPairPoints:     DefaultBinaryPairPoints,
	}
	th := sc.Thresholds
	if th.MinThreshold != nil {
		cfg.MinThreshold = *th.MinThreshold
	}
	if th.SingleDominanceRatio != nil {
		cfg.SingleDominanceRatio = *th.SingleDominanceRatio
	}
	if th.DualInclusionRatio != nil {
		cfg.DualInclusionRatio = *th.DualInclusionRatio
	}
	if th.TripleInclusionRatio != nil {
		cfg.TripleInclusionRatio = *th.TripleInclusionRatio
	}
	if sc.RankCeiling != nil {
		cfg.RankCeiling = *sc.RankCeiling
	}
	if sc.BinaryPairPoints != nil {
		cfg.BinaryPairPoints = *sc.BinaryPairPoints
	}
	return cfg
}
