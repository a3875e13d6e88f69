package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
)

func TestFindDeadCodeFlagsUnreferencedPrivateSymbol(t *testing.T) {
	def := codeintel.Location{File: "a.go", Line: 10}
	sym := codeintel.Symbol{
		Name:       "helperOnlyCalledOnce",
		Kind:       codeintel.SymbolFunction,
		DefinedAt:  def,
		Visibility: codeintel.VisibilityPrivate,
		References: []codeintel.Location{def},
	}
	findings := FindDeadCode([]codeintel.Symbol{sym})
	require.Len(t, findings, 1)
	assert.Equal(t, 0.9, findings[0].Confidence)
}

func TestFindDeadCodeLowersConfidenceForExported(t *testing.T) {
	def := codeintel.Location{File: "a.go", Line: 10}
	sym := codeintel.Symbol{
		Name:       "PublicHelper",
		DefinedAt:  def,
		Visibility: codeintel.VisibilityPublic,
		References: []codeintel.Location{def},
	}
	findings := FindDeadCode([]codeintel.Symbol{sym})
	require.Len(t, findings, 1)
	assert.Less(t, findings[0].Confidence, 0.9)
}

func TestFindDeadCodeSkipsReferencedSymbols(t *testing.T) {
	def := codeintel.Location{File: "a.go", Line: 10}
	sym := codeintel.Symbol{
		Name:      "used",
		DefinedAt: def,
		References: []codeintel.Location{
			def,
			{File: "b.go", Line: 5},
		},
	}
	assert.Empty(t, FindDeadCode([]codeintel.Symbol{sym}))
}

func TestFindDeadCodeSkipsEntryPoints(t *testing.T) {
	def := codeintel.Location{File: "main.go", Line: 1}
	sym := codeintel.Symbol{Name: "main", DefinedAt: def, References: []codeintel.Location{def}}
	assert.Empty(t, FindDeadCode([]codeintel.Symbol{sym}))
}
