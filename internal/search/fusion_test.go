package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseHybrid_DeduplicatesByKeyWithMaxScore(t *testing.T) {
	semantic := []Hit{{ResourceID: "r1", Field: "a", Index: 0, Text: "passage", Score: 0.5}}
	fulltext := []Hit{{ResourceID: "r1", Field: "a", Index: 0, Text: "passage", Score: 0.8}}

	fused := fuseHybrid(semantic, fulltext, 5)

	require.Len(t, fused, 1)
	assert.Equal(t, 0.8, fused[0].Score, "fusion keeps the max score, not a sum")
	assert.Equal(t, StrategyHybrid, fused[0].Strategy)
}

func TestFuseHybrid_MaxKeepsHigherFirstScore(t *testing.T) {
	semantic := []Hit{{ResourceID: "r1", Field: "a", Index: 0, Score: 0.9}}
	fulltext := []Hit{{ResourceID: "r1", Field: "a", Index: 0, Score: 0.2}}

	fused := fuseHybrid(semantic, fulltext, 5)

	require.Len(t, fused, 1)
	assert.Equal(t, 0.9, fused[0].Score)
}

func TestFuseHybrid_SortsByScoreAndTruncates(t *testing.T) {
	semantic := []Hit{
		{ResourceID: "r1", Field: "a", Index: 0, Score: 0.9},
		{ResourceID: "r2", Field: "a", Index: 1, Score: 0.3},
	}
	fulltext := []Hit{
		{ResourceID: "r3", Field: "b", Index: 2, Score: 0.6},
	}

	fused := fuseHybrid(semantic, fulltext, 2)

	require.Len(t, fused, 2)
	assert.Equal(t, 0.9, fused[0].Score)
	assert.Equal(t, 0.6, fused[1].Score)
}

func TestFuseHybrid_DistinctIndicesAreDistinctPassages(t *testing.T) {
	semantic := []Hit{{ResourceID: "r1", Field: "a", Index: 0, Score: 0.5}}
	fulltext := []Hit{{ResourceID: "r1", Field: "a", Index: 1, Score: 0.8}}

	fused := fuseHybrid(semantic, fulltext, 5)
	assert.Len(t, fused, 2)
}

func TestFuseHybrid_EmptyInputs(t *testing.T) {
	assert.Empty(t, fuseHybrid(nil, nil, 5))
}
