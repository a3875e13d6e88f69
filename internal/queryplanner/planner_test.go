package queryplanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/fulltext"
	"github.com/sourcelens/engine/internal/symbolindex"
)

func newTestPlanner() *Planner {
	syms := symbolindex.NewIndex()
	syms.Insert(codeintel.Symbol{
		Name:       "User",
		Kind:       codeintel.SymbolStruct,
		DefinedAt:  codeintel.Location{File: "a.rs", Line: 1, Column: 12, ByteOffset: 11},
		References: []codeintel.Location{{File: "a.rs", Line: 1, Column: 12, ByteOffset: 11}},
	})
	ft := fulltext.NewIndex()
	return NewPlanner(syms, ft, time.Minute)
}

func TestSymbolQueryHitsSymbolIndexLayer(t *testing.T) {
	p := newTestPlanner()
	resp, err := p.Search(context.Background(), codeintel.NewSymbolQuery("User", nil))
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, codeintel.LayerSymbolIndex, resp.Results[0].MatchedLayer)
	assert.Equal(t, 1.0, resp.Results[0].Score)
	assert.False(t, resp.Metadata.CacheHit)
}

func TestSearchIsCachedOnSecondCall(t *testing.T) {
	p := newTestPlanner()
	q := codeintel.NewSymbolQuery("User", nil)

	_, err := p.Search(context.Background(), q)
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, resp.Metadata.CacheHit)
}

func TestInvalidateCacheForcesRecompute(t *testing.T) {
	p := newTestPlanner()
	q := codeintel.NewSymbolQuery("User", nil)

	_, _ = p.Search(context.Background(), q)
	p.InvalidateCache()

	resp, err := p.Search(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, resp.Metadata.CacheHit)
}

func TestDeduplicatesByLocation(t *testing.T) {
	p := newTestPlanner()
	dup := codeintel.SearchResult{Location: codeintel.Location{File: "a.rs", Line: 1, Column: 1}, Score: 0.9}
	same := dup
	final := p.finalize([]codeintel.SearchResult{dup, same})
	assert.Len(t, final, 1)
}

func TestMaxResultsTruncates(t *testing.T) {
	p := newTestPlanner()
	p.MaxResults = 2
	var results []codeintel.SearchResult
	for i := 0; i < 5; i++ {
		results = append(results, codeintel.SearchResult{
			Location: codeintel.Location{File: "a.rs", Line: i + 1, Column: 1},
			Score:    float64(i),
		})
	}
	assert.Len(t, p.finalize(results), 2)
}
