package classifier

import (
	"testing"

	"pimprep/domain/analysis"
	"pimprep/domain/core"
	"pimprep/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Headers: []string{"Category", "Variant", "SKU", "Notes"},
		Rows: [][]string{
			{"Beverages", "Cola", "SKU-001", "first"},
			{"Beverages", "Cola Zero", "SKU-002", ""},
			{"Beverages", "Lemonade", "SKU-003", "second"},
			{"Snacks", "Chips", "SKU-004", ""},
			{"Snacks", "Chips", "SKU-005", "third"},
			{"Snacks", "Nuts", "SKU-006", ""},
			{"Snacks", "Nuts", "SKU-007", "fourth"},
			{"Beverages", "Cola", "SKU-008", ""},
			{"Beverages", "Lemonade", "SKU-009", "fifth"},
			{"Snacks", "Chips", "SKU-010", ""},
		},
	}
}

func TestClassifyBands(t *testing.T) {
	scores, err := Classify(testDataset(), Thresholds{Low: 0.3, Medium: 0.7})
	require.NoError(t, err)
	require.Len(t, scores, 4)

	byHeader := map[string]analysis.CardinalityScore{}
	for _, s := range scores {
		byHeader[s.Header] = s
	}

	// 2 distinct categories over 10 rows
	assert.Equal(t, analysis.Level1, byHeader["Category"].Classification)
	assert.InDelta(t, 0.2, byHeader["Category"].Cardinality, 1e-9)
	assert.Equal(t, 1.0, byHeader["Category"].Completeness)

	// 5 distinct variants over 10 rows
	assert.Equal(t, analysis.Level2, byHeader["Variant"].Classification)

	// fully unique SKU column
	assert.Equal(t, analysis.Level3, byHeader["SKU"].Classification)
	assert.Equal(t, 1.0, byHeader["SKU"].Cardinality)

	// half-empty notes column
	assert.InDelta(t, 0.5, byHeader["Notes"].Completeness, 1e-9)
}

func TestClassifyBoundsAreUnitInterval(t *testing.T) {
	scores, err := Classify(testDataset(), Thresholds{Low: 0.1, Medium: 0.5})
	require.NoError(t, err)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s.Cardinality, 0.0, s.Header)
		assert.LessOrEqual(t, s.Cardinality, 1.0, s.Header)
		assert.GreaterOrEqual(t, s.Completeness, 0.0, s.Header)
		assert.LessOrEqual(t, s.Completeness, 1.0, s.Header)
	}
}

func TestClassifyLowerBoundInclusive(t *testing.T) {
	// 5 distinct values over 10 rows => cardinality exactly 0.5
	ds := &dataset.Dataset{
		Headers: []string{"Size"},
		Rows: [][]string{
			{"XS"}, {"S"}, {"M"}, {"L"}, {"XL"},
			{"XS"}, {"S"}, {"M"}, {"L"}, {"XL"},
		},
	}
	scores, err := Classify(ds, Thresholds{Low: 0.5, Medium: 0.8})
	require.NoError(t, err)
	// cardinality == low belongs to level2, not level1
	assert.Equal(t, analysis.Level2, scores[0].Classification)

	scores, err = Classify(ds, Thresholds{Low: 0.2, Medium: 0.5})
	require.NoError(t, err)
	// cardinality == medium belongs to level3
	assert.Equal(t, analysis.Level3, scores[0].Classification)
}

func TestClassifyRejectsInvalidThresholds(t *testing.T) {
	_, err := Classify(testDataset(), Thresholds{Low: 0.5, Medium: 0.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidThresholds)

	_, err = Classify(testDataset(), Thresholds{Low: 0.6, Medium: 0.2})
	require.Error(t, err)
}

func TestClassifyEmptyDataset(t *testing.T) {
	ds := &dataset.Dataset{Headers: []string{"A", "B"}}
	scores, err := Classify(ds, Thresholds{Low: 0.1, Medium: 0.5})
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestClassifyShortRowsTreatedAsEmpty(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x", "1"}, {"y"}, {"z"}},
	}
	scores, err := Classify(ds, Thresholds{Low: 0.1, Medium: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, scores[1].Completeness, 1e-9)
	assert.Equal(t, 1, scores[1].UniqueCount)
}
