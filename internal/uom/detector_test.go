package uom

import (
	"testing"

	"pimprep/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchHeader(t *testing.T) {
	d := NewDetector()

	assert.Equal(t, "weight", d.MatchHeader("Net Weight"))
	assert.Equal(t, "uom", d.MatchHeader("Base UOM"))
	assert.Equal(t, "size", d.MatchHeader("Pack Size"))
	assert.Equal(t, "", d.MatchHeader("Category"))
	assert.Equal(t, "", d.MatchHeader("Product Name"))
}

func TestCustomKeywords(t *testing.T) {
	d := NewDetector("pallet", "  Volume ")

	assert.Equal(t, "pallet", d.MatchHeader("Units per Pallet"))
	assert.Equal(t, "volume", d.MatchHeader("Case VOLUME"))
	// base keywords remain active
	assert.Equal(t, "weight", d.MatchHeader("weight_kg"))
}

func TestDetectSuggestsSplit(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"Name", "Net Weight"},
		Rows: [][]string{
			{"Cola", "330ml"},
			{"Chips", "150 g"},
			{"Nuts", "200g"},
			{"Water", "n/a"},
			{"Juice", "1.5 l"},
		},
	}

	suggestions := NewDetector().Detect(ds)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, "Net Weight", s.Header)
	assert.True(t, s.SuggestedSplit)
	assert.Equal(t, "330ml", s.ExampleValue)
	assert.Equal(t, "ml", s.ExampleUnit)
	assert.Contains(t, s.ConvertibleWith, "l")
}

func TestDetectNoSplitWithoutMajority(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"Size"},
		Rows: [][]string{
			{"large"}, {"small"}, {"12g"}, {"medium"},
		},
	}

	suggestions := NewDetector().Detect(ds)
	require.Len(t, suggestions, 1)
	assert.False(t, suggestions[0].SuggestedSplit)
	assert.Empty(t, suggestions[0].ExampleUnit)
}

func TestDetectEmptyDataset(t *testing.T) {
	ds := &dataset.Dataset{Headers: []string{"Weight"}}
	suggestions := NewDetector().Detect(ds)
	require.Len(t, suggestions, 1)
	assert.False(t, suggestions[0].SuggestedSplit)
}

func TestHeadersSet(t *testing.T) {
	ds := &dataset.Dataset{Headers: []string{"SKU", "Width", "Depth", "Brand"}}
	matched := NewDetector().Headers(ds)
	assert.Equal(t, map[string]bool{"Width": true, "Depth": true}, matched)
}
