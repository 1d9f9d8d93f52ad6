// Package classifier scores each column of a dataset by cardinality and
// completeness and assigns it to a hierarchy level band.
package classifier

import (
	"pimprep/domain/analysis"
	"pimprep/domain/core"
	"pimprep/domain/dataset"
)

// Weights of the combined hierarchy score. Low cardinality and high
// completeness both make a column a better taxonomy candidate.
const (
	cardinalityWeight  = 0.6
	completenessWeight = 0.4
)

// Thresholds holds the two cardinality cut points, both in (0,1) with
// Medium strictly above Low.
type Thresholds struct {
	Low    float64
	Medium float64
}

// Validate rejects threshold pairs the classifier cannot work with.
func (t Thresholds) Validate() error {
	if t.Medium <= t.Low {
		return core.NewThresholdError(t.Low, t.Medium)
	}
	return nil
}

// Classify computes a CardinalityScore for every header. A dataset with
// zero rows yields an empty score list; malformed short rows contribute
// empty cells and never abort the scan.
func Classify(ds *dataset.Dataset, t Thresholds) ([]analysis.CardinalityScore, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if ds.RowCount() == 0 {
		return []analysis.CardinalityScore{}, nil
	}

	scores := make([]analysis.CardinalityScore, 0, len(ds.Headers))
	for col, header := range ds.Headers {
		scores = append(scores, scoreColumn(ds, header, col, t))
	}
	return scores, nil
}

func scoreColumn(ds *dataset.Dataset, header string, col int, t Thresholds) analysis.CardinalityScore {
	total := ds.RowCount()
	distinct := make(map[string]struct{})
	nonEmpty := 0

	for row := 0; row < total; row++ {
		v := ds.Cell(row, col)
		if dataset.IsEmptyCell(v) {
			continue
		}
		nonEmpty++
		distinct[v] = struct{}{}
	}

	cardinality := float64(len(distinct)) / float64(total)
	completeness := float64(nonEmpty) / float64(total)

	return analysis.CardinalityScore{
		Header:         header,
		UniqueCount:    len(distinct),
		TotalCount:     total,
		Cardinality:    cardinality,
		Completeness:   completeness,
		HierarchyScore: cardinalityWeight*(1-cardinality) + completenessWeight*completeness,
		Classification: classify(cardinality, t),
	}
}

// classify maps a cardinality ratio onto a level band. The lower bound
// of each band is inclusive: cardinality == Low lands in level2.
func classify(cardinality float64, t Thresholds) analysis.Level {
	switch {
	case cardinality < t.Low:
		return analysis.Level1
	case cardinality < t.Medium:
		return analysis.Level2
	default:
		return analysis.Level3
	}
}
