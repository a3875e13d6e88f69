package fulltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
)

func TestSearchRanksExactFieldMatchFirst(t *testing.T) {
	idx := NewIndex()
	idx.Index(Document{
		Path:        "a.go",
		Language:    codeintel.LangGo,
		Content:     "func helper() { doSomethingUnrelated() }",
		SymbolNames: []string{"helper"},
	})
	idx.Index(Document{
		Path:        "b.go",
		Language:    codeintel.LangGo,
		Content:     "func other() { helper() }",
		SymbolNames: []string{"other"},
	})

	hits := idx.Search("helper", codeintel.FullTextFilters{})
	require.NotEmpty(t, hits)
	assert.Equal(t, "a.go", hits[0].Doc.Path, "exact symbol-name match should outrank bag-of-words match")
}

func TestSearchLanguageFilter(t *testing.T) {
	idx := NewIndex()
	idx.Index(Document{Path: "a.go", Language: codeintel.LangGo, Content: "widget factory"})
	idx.Index(Document{Path: "b.py", Language: codeintel.LangPython, Content: "widget factory"})

	py := codeintel.LangPython
	hits := idx.Search("widget", codeintel.FullTextFilters{Language: &py})
	require.Len(t, hits, 1)
	assert.Equal(t, "b.py", hits[0].Doc.Path)
}

func TestReindexReplacesPreviousContent(t *testing.T) {
	idx := NewIndex()
	idx.Index(Document{Path: "a.go", Content: "alpha"})
	idx.Index(Document{Path: "a.go", Content: "beta"})

	hits := idx.Search("alpha", codeintel.FullTextFilters{})
	assert.Empty(t, hits, "stale content must not be findable after reindex")

	hits = idx.Search("beta", codeintel.FullTextFilters{})
	assert.Len(t, hits, 1)
}

func TestFuzzyMatchesNearMisses(t *testing.T) {
	idx := NewIndex()
	idx.Index(Document{Path: "a.go", SymbolNames: []string{"connectDatabase"}})

	hits := idx.Fuzzy("conectDatabase")
	require.NotEmpty(t, hits)
	assert.Equal(t, "a.go", hits[0].Doc.Path)
}
