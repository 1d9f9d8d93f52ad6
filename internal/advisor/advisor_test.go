package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdviseMixed(t *testing.T) {
	s := Advise(100, 15)

	assert.InDelta(t, 85.0, s.HierarchicalPercentage, 1e-9)
	assert.InDelta(t, 15.0, s.StandalonePercentage, 1e-9)
	assert.True(t, s.ShouldUseMixed)
	assert.Equal(t, ModelMixed, s.RecommendedModel)
	assert.NotEmpty(t, s.Reasoning)
}

func TestAdviseHierarchical(t *testing.T) {
	s := Advise(100, 5)

	assert.False(t, s.ShouldUseMixed)
	assert.Equal(t, ModelHierarchical, s.RecommendedModel)
}

func TestAdviseStandalone(t *testing.T) {
	s := Advise(100, 95)

	assert.False(t, s.ShouldUseMixed)
	assert.Equal(t, ModelStandalone, s.RecommendedModel)
	assert.InDelta(t, 5.0, s.HierarchicalPercentage, 1e-9)
}

func TestAdviseFloorIsExclusive(t *testing.T) {
	// exactly 10% orphans does not exceed the floor
	s := Advise(100, 10)
	assert.False(t, s.ShouldUseMixed)
	assert.Equal(t, ModelHierarchical, s.RecommendedModel)
}

func TestAdviseEmptyDataset(t *testing.T) {
	s := Advise(0, 0)
	assert.False(t, s.ShouldUseMixed)
	assert.Equal(t, ModelHierarchical, s.RecommendedModel)
	assert.Zero(t, s.HierarchicalPercentage)
	assert.Zero(t, s.StandalonePercentage)
}
