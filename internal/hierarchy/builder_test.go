package hierarchy

import (
	"testing"

	"pimprep/domain/analysis"
	"pimprep/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) (*Builder, Suggestions) {
	t.Helper()
	ds := &dataset.Dataset{
		Headers: []string{"Category", "Variant", "Product Name", "SKU", "Net Weight"},
		Rows: [][]string{
			{"Beverages", "Cola", "Cola Classic Can", "SKU-001", "330ml"},
			{"Beverages", "Lemonade", "Lemonade Bottle", "SKU-002", "500ml"},
			{"Snacks", "Chips", "Salted Chips Bag", "SKU-003", "150g"},
			{"Snacks", "Nuts", "Roasted Nuts Jar", "SKU-004", "200g"},
		},
	}
	scores := []analysis.CardinalityScore{
		{Header: "Category", UniqueCount: 2, TotalCount: 4, Cardinality: 0.5, Completeness: 1, Classification: analysis.Level1},
		{Header: "Variant", UniqueCount: 4, TotalCount: 4, Cardinality: 1, Completeness: 1, Classification: analysis.Level2},
		{Header: "Product Name", UniqueCount: 4, TotalCount: 4, Cardinality: 1, Completeness: 1, Classification: analysis.Level3},
		{Header: "SKU", UniqueCount: 4, TotalCount: 4, Cardinality: 1, Completeness: 1, Classification: analysis.Level3},
		{Header: "Net Weight", UniqueCount: 4, TotalCount: 4, Cardinality: 1, Completeness: 1, Classification: analysis.Level3},
	}
	uom := map[string]bool{"Net Weight": true}
	b, sugg := Build(ds, scores, uom)
	return b, sugg
}

func assertInvariants(t *testing.T, b *Builder) {
	t.Helper()
	seen := map[string]bool{}
	for i, l := range b.Levels {
		assert.Equal(t, i+1, l.Level, "levels must be numbered 1..N")
		for _, h := range l.Headers {
			assert.False(t, seen[h], "header %q assigned twice", h)
			seen[h] = true
		}
	}
	for _, h := range b.Unassigned {
		assert.False(t, seen[h], "header %q both assigned and unassigned", h)
		seen[h] = true
	}
}

func TestBuildDefault(t *testing.T) {
	b, sugg := buildFixture(t)

	require.Len(t, b.Levels, 3)
	assert.Equal(t, []string{"Category"}, b.Levels[0].Headers)
	assert.Equal(t, []string{"Variant"}, b.Levels[1].Headers)
	assert.ElementsMatch(t, []string{"Product Name", "SKU", "Net Weight"}, b.Levels[2].Headers)

	// SKU is complete, unique and identifier-named
	assert.Equal(t, "SKU", sugg.RecordID)
	assert.Equal(t, "SKU", b.Levels[2].RecordID)
	assert.Equal(t, "Product Name", sugg.RecordName)

	assert.Empty(t, b.IncompleteLevels())
	assertInvariants(t, b)
}

func TestRecordIDRequiresCompletenessAndUniqueness(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"Code", "Name"},
		Rows:    [][]string{{"A", "x"}, {"A", "y"}, {"", "z"}},
	}
	scores := []analysis.CardinalityScore{
		{Header: "Code", Cardinality: 1.0 / 3.0, Completeness: 2.0 / 3.0, Classification: analysis.Level2},
		{Header: "Name", Cardinality: 1, Completeness: 1, Classification: analysis.Level3},
	}
	_, sugg := Build(ds, scores, nil)

	// "Code" is identifier-named but neither complete nor unique; "Name"
	// qualifies on the numbers and becomes the fallback suggestion.
	assert.Equal(t, "Name", sugg.RecordID)
}

func TestNoRecordIDCandidate(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []string{"Color"},
		Rows:    [][]string{{"red"}, {"red"}},
	}
	scores := []analysis.CardinalityScore{
		{Header: "Color", Cardinality: 0.5, Completeness: 1, Classification: analysis.Level2},
	}
	_, sugg := Build(ds, scores, nil)
	assert.Empty(t, sugg.RecordID)
}

func TestAddAndRemoveLevel(t *testing.T) {
	b, _ := buildFixture(t)

	lvl := b.AddLevel("")
	assert.Equal(t, 4, lvl.Level)
	assert.Equal(t, "Level 4", lvl.Name)

	// removing the middle level returns its headers to the pool and
	// renumbers the rest
	require.NoError(t, b.RemoveLevel(2))
	require.Len(t, b.Levels, 3)
	assert.Equal(t, []string{"Variant"}, b.Unassigned)
	assert.Equal(t, "Parent", b.Levels[0].Name)
	assert.Equal(t, "SKU", b.Levels[1].Name)
	assert.Equal(t, 2, b.Levels[1].Level)
	assertInvariants(t, b)
}

func TestRemoveUnknownLevel(t *testing.T) {
	b, _ := buildFixture(t)
	assert.Error(t, b.RemoveLevel(9))
}

func TestMoveHeader(t *testing.T) {
	b, _ := buildFixture(t)

	require.NoError(t, b.MoveHeader("Product Name", 3, 2))
	assert.True(t, b.Levels[1].HasHeader("Product Name"))
	assert.False(t, b.Levels[2].HasHeader("Product Name"))
	assertInvariants(t, b)

	// moving to the unassigned pool
	require.NoError(t, b.MoveHeader("Product Name", 2, Unassigned))
	assert.Contains(t, b.Unassigned, "Product Name")
	assertInvariants(t, b)

	// moving from the wrong location fails without losing the header
	err := b.MoveHeader("Category", 2, 3)
	require.Error(t, err)
	assert.True(t, b.Levels[0].HasHeader("Category"))
	assertInvariants(t, b)
}

func TestMoveRecordIDFlagsIncompleteLevel(t *testing.T) {
	b, _ := buildFixture(t)

	require.NoError(t, b.MoveHeader("SKU", 3, Unassigned))

	// the move completes; the level is reported incomplete, not repaired
	assert.Contains(t, b.Unassigned, "SKU")
	assert.Empty(t, b.Levels[2].RecordID)
	assert.Equal(t, []int{3}, b.IncompleteLevels())
	assertInvariants(t, b)

	// the caller resolves it explicitly
	require.NoError(t, b.MoveHeader("SKU", Unassigned, 3))
	require.NoError(t, b.SetRecordID(3, "SKU"))
	assert.Empty(t, b.IncompleteLevels())
}

func TestReorderLevels(t *testing.T) {
	b, _ := buildFixture(t)

	require.NoError(t, b.ReorderLevels([]int{2, 1, 3}))
	assert.Equal(t, "Variant", b.Levels[0].Name)
	assert.Equal(t, 1, b.Levels[0].Level)
	assert.Equal(t, "Parent", b.Levels[1].Name)
	assert.Equal(t, 2, b.Levels[1].Level)
	assertInvariants(t, b)

	assert.Error(t, b.ReorderLevels([]int{1, 1, 2}))
	assert.Error(t, b.ReorderLevels([]int{1, 2}))
}

func TestInvariantsAfterOperationSequence(t *testing.T) {
	b, _ := buildFixture(t)

	b.AddLevel("Packaging")
	require.NoError(t, b.MoveHeader("Net Weight", 3, 4))
	require.NoError(t, b.ReorderLevels([]int{4, 1, 2, 3}))
	require.NoError(t, b.RemoveLevel(1))
	require.NoError(t, b.MoveHeader("Net Weight", Unassigned, 3))
	assertInvariants(t, b)
}

func TestTaxonomyHeaders(t *testing.T) {
	b, _ := buildFixture(t)
	assert.Equal(t, []string{"Category", "Variant"}, b.TaxonomyHeaders())

	single := &Builder{Levels: []analysis.HierarchyLevel{{Level: 1, Name: "SKU", Headers: []string{"SKU"}}}}
	assert.Nil(t, single.TaxonomyHeaders())
}
