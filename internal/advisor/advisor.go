// Package advisor decides the modeling strategy for the import: pure
// hierarchical, pure standalone, or a mix of the two.
package advisor

import (
	"fmt"

	"pimprep/domain/analysis"
)

// SignificanceFloor is the minimum share (in percent) a population must
// hold before it influences the recommendation.
const SignificanceFloor = 10.0

const (
	ModelHierarchical = "hierarchical"
	ModelStandalone   = "standalone"
	ModelMixed        = "mixed"
)

// Advise computes the hierarchical/standalone split from the resolver's
// orphan count and recommends a model. Deterministic given its inputs.
func Advise(totalRows, orphanCount int) analysis.MixedModelSuggestion {
	if totalRows == 0 {
		return analysis.MixedModelSuggestion{
			RecommendedModel: ModelHierarchical,
			Reasoning:        "The dataset has no rows; defaulting to a hierarchical model.",
		}
	}

	hierarchical := float64(totalRows-orphanCount) / float64(totalRows) * 100
	standalone := 100 - hierarchical

	s := analysis.MixedModelSuggestion{
		HierarchicalPercentage: hierarchical,
		StandalonePercentage:   standalone,
	}

	switch {
	case hierarchical > SignificanceFloor && standalone > SignificanceFloor:
		s.ShouldUseMixed = true
		s.RecommendedModel = ModelMixed
		s.Reasoning = fmt.Sprintf(
			"%.1f%% of rows fit the hierarchy while %.1f%% lack hierarchy values; both groups are significant, so model the orphans as standalone records alongside the hierarchy.",
			hierarchical, standalone)
	case standalone <= SignificanceFloor:
		s.RecommendedModel = ModelHierarchical
		s.Reasoning = fmt.Sprintf(
			"%.1f%% of rows fit the hierarchy; the %.1f%% without hierarchy values are below the %.0f%% significance floor, so a pure hierarchical model is recommended.",
			hierarchical, standalone, SignificanceFloor)
	default:
		s.RecommendedModel = ModelStandalone
		s.Reasoning = fmt.Sprintf(
			"Only %.1f%% of rows fit the hierarchy; model the dataset as standalone records.",
			hierarchical)
	}
	return s
}
