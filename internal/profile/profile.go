// Package profile recommends how unassigned columns should be modeled
// in the target catalog: picklist for low-cardinality categoricals,
// numeric with a distribution summary for mostly-numeric columns, free
// text otherwise.
package profile

import (
	"fmt"
	"math"
	"strconv"

	"pimprep/domain/analysis"
	"pimprep/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// picklist candidacy mirrors categorical detection: few distinct
	// values both absolutely and relative to the row count
	picklistMaxDistinct = 20
	picklistMaxRatio    = 0.1

	// a column is treated as numeric when most of its values parse
	numericRatioFloor = 0.8
)

// Recommend profiles every header in the given list. Headers absent
// from the dataset or without any data yield no recommendation.
func Recommend(ds *dataset.Dataset, headers []string) []analysis.PropertyRecommendation {
	var out []analysis.PropertyRecommendation
	for _, header := range headers {
		if rec, ok := profileColumn(ds, header); ok {
			out = append(out, rec)
		}
	}
	return out
}

func profileColumn(ds *dataset.Dataset, header string) (analysis.PropertyRecommendation, bool) {
	col := ds.ColumnIndex(header)
	if col < 0 {
		return analysis.PropertyRecommendation{}, false
	}

	distinct := make(map[string]bool)
	var numeric []float64
	nonEmpty := 0
	for row := 0; row < ds.RowCount(); row++ {
		v := ds.Cell(row, col)
		if dataset.IsEmptyCell(v) {
			continue
		}
		nonEmpty++
		distinct[v] = true
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			numeric = append(numeric, f)
		}
	}
	if nonEmpty == 0 {
		return analysis.PropertyRecommendation{}, false
	}

	rec := analysis.PropertyRecommendation{Header: header, DistinctCount: len(distinct)}
	ratio := float64(len(distinct)) / float64(ds.RowCount())

	switch {
	case float64(len(numeric)) >= numericRatioFloor*float64(nonEmpty):
		rec.Kind = analysis.PropertyNumeric
		rec.Numeric = summarize(numeric)
		rec.Reason = fmt.Sprintf("%d of %d values are numeric", len(numeric), nonEmpty)
	case len(distinct) <= picklistMaxDistinct && ratio < picklistMaxRatio:
		rec.Kind = analysis.PropertyPicklist
		rec.Reason = fmt.Sprintf("only %d distinct values across %d rows", len(distinct), ds.RowCount())
	default:
		rec.Kind = analysis.PropertyText
		rec.Reason = fmt.Sprintf("%d distinct free-form values", len(distinct))
	}
	return rec, true
}

// summarize computes the distribution summary of a numeric column.
func summarize(values []float64) *analysis.NumericSummary {
	if len(values) == 0 {
		return nil
	}
	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviation(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	isNormal, p := testNormality(values, mean, stdDev)
	return &analysis.NumericSummary{
		Mean:     mean,
		StdDev:   stdDev,
		Min:      min,
		Max:      max,
		IsNormal: isNormal,
		ShapiroP: p,
	}
}

// testNormality approximates a Shapiro-Wilk test from skewness and
// kurtosis, with the combined statistic mapped through a chi-squared
// distribution. Good enough to annotate a recommendation; not a
// substitute for a proper test.
func testNormality(values []float64, mean, stdDev float64) (bool, float64) {
	if len(values) < 3 || stdDev == 0 {
		return false, 1.0
	}

	n := float64(len(values))
	sumCubed := 0.0
	sumFourth := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
		sumFourth += d * d * d * d
	}
	skewness := sumCubed / n
	kurtosis := sumFourth / n

	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2
	chiDist := distuv.ChiSquared{K: 2}
	p := 1 - chiDist.CDF(testStat*testStat)
	return p > 0.05, p
}
