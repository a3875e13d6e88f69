package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/fulltext"
	"github.com/sourcelens/engine/internal/symbolindex"
)

func TestPlanRenameProducesEditAtSymbolLocation(t *testing.T) {
	syms := symbolindex.NewIndex()
	def := codeintel.Location{File: "a.go", Line: 1, Column: 6, ByteOffset: 5}
	syms.Insert(codeintel.Symbol{
		Name:       "Widget",
		Kind:       codeintel.SymbolStruct,
		DefinedAt:  def,
		References: []codeintel.Location{def},
	})
	ft := fulltext.NewIndex()

	sources := map[string][]byte{"a.go": []byte("type Widget struct{}")}
	planner := NewRenamePlanner(syms, ft, func(f string) ([]byte, error) { return sources[f], nil })

	plan, err := planner.PlanRename("Widget", "Gadget", codeintel.QueryScope{Kind: codeintel.ScopeGlobal})
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)
	assert.Equal(t, "Widget", string(plan.Edits[0].OldBytes))
	assert.Equal(t, "Gadget", string(plan.Edits[0].NewBytes))
	assert.Equal(t, codeintel.RiskLow, plan.Risk)
}

func TestPlanRenamePromotesRiskOnExternalReference(t *testing.T) {
	syms := symbolindex.NewIndex()
	def := codeintel.Location{File: "a.go", Line: 1, Column: 6, ByteOffset: 5}
	syms.Insert(codeintel.Symbol{
		Name:       "Widget",
		Kind:       codeintel.SymbolStruct,
		DefinedAt:  def,
		Visibility: codeintel.VisibilityPublic,
		References: []codeintel.Location{def},
	})
	ft := fulltext.NewIndex()
	sources := map[string][]byte{"a.go": []byte("type Widget struct{}")}
	planner := NewRenamePlanner(syms, ft, func(f string) ([]byte, error) { return sources[f], nil })

	plan, err := planner.PlanRename("Widget", "Gadget", codeintel.QueryScope{Kind: codeintel.ScopeGlobal})
	require.NoError(t, err)
	assert.Equal(t, codeintel.RiskHigh, plan.Risk)
}

func TestPlanRenamePromotesRiskWhenTargetNameExists(t *testing.T) {
	syms := symbolindex.NewIndex()
	def := codeintel.Location{File: "a.go", Line: 1, Column: 6, ByteOffset: 5}
	syms.Insert(codeintel.Symbol{Name: "Widget", DefinedAt: def, References: []codeintel.Location{def}})
	syms.Insert(codeintel.Symbol{Name: "Gadget", DefinedAt: codeintel.Location{File: "b.go"}, References: []codeintel.Location{{File: "b.go"}}})
	ft := fulltext.NewIndex()
	sources := map[string][]byte{"a.go": []byte("type Widget struct{}")}
	planner := NewRenamePlanner(syms, ft, func(f string) ([]byte, error) { return sources[f], nil })

	plan, err := planner.PlanRename("Widget", "Gadget", codeintel.QueryScope{Kind: codeintel.ScopeFile, Path: "a.go"})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Warnings)
	assert.Equal(t, codeintel.RiskMedium, plan.Risk)
}

func TestWholeWordOffsetsSkipsPartialMatches(t *testing.T) {
	offsets := wholeWordOffsets([]byte("Run RunAll run_all Run"), "Run")
	require.Len(t, offsets, 2)
}

func TestAssessRenameRiskThresholds(t *testing.T) {
	assert.Equal(t, codeintel.RiskLow, assessRenameRisk(2, 0, 1, codeintel.QueryScope{Kind: codeintel.ScopeFile}))
	assert.Equal(t, codeintel.RiskMedium, assessRenameRisk(16, 0, 1, codeintel.QueryScope{Kind: codeintel.ScopeFile}))
	assert.Equal(t, codeintel.RiskHigh, assessRenameRisk(51, 0, 1, codeintel.QueryScope{Kind: codeintel.ScopeFile}))
	assert.Equal(t, codeintel.RiskHigh, assessRenameRisk(1, 1, 1, codeintel.QueryScope{Kind: codeintel.ScopeFile}))
}
