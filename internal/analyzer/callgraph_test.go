package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sourcelens/engine/internal/codeintel"
)

func buildGraph() *codeintel.CallGraph {
	return &codeintel.CallGraph{
		Nodes: []codeintel.CallGraphNode{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}},
		Edges: []codeintel.CallGraphEdge{
			{Caller: 1, Callee: 2},
			{Caller: 2, Callee: 3},
			{Caller: 3, Callee: 1},
		},
	}
}

func TestTransitiveCalleesFollowsChain(t *testing.T) {
	tr := NewCallGraphTraversal(buildGraph())
	callees := tr.TransitiveCallees(1, 5)
	assert.ElementsMatch(t, []int{2, 3}, callees)
}

func TestTransitiveCalleesRespectsCycleViaVisitedSet(t *testing.T) {
	tr := NewCallGraphTraversal(buildGraph())
	callees := tr.TransitiveCallees(1, 10)
	assert.Len(t, callees, 2, "a visited-set must prevent infinite recursion around the 1->2->3->1 cycle")
}

func TestCyclesDetectsTheLoop(t *testing.T) {
	tr := NewCallGraphTraversal(buildGraph())
	cycles := tr.Cycles(1, 10)
	assert.NotEmpty(t, cycles)
}

func TestCallersOfReturnsDirectCallersOnly(t *testing.T) {
	tr := NewCallGraphTraversal(buildGraph())
	assert.Equal(t, []int{1}, tr.Callers(2))
}
