package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyGraphDirectAndTransitive(t *testing.T) {
	g := NewDependencyGraph([][2]string{
		{"main.go", "handler.go"},
		{"handler.go", "service.go"},
		{"service.go", "repo.go"},
	})
	assert.Equal(t, []string{"handler.go"}, g.Direct("main.go"))
	assert.ElementsMatch(t, []string{"handler.go", "service.go", "repo.go"}, g.Transitive("main.go"))
}

func TestDependencyGraphReverse(t *testing.T) {
	g := NewDependencyGraph([][2]string{
		{"a.go", "shared.go"},
		{"b.go", "shared.go"},
	})
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, g.Reverse("shared.go"))
}

func TestDependencyGraphCyclesDetectsImportLoop(t *testing.T) {
	g := NewDependencyGraph([][2]string{
		{"a.go", "b.go"},
		{"b.go", "c.go"},
		{"c.go", "a.go"},
	})
	cycles := g.Cycles()
	assert.NotEmpty(t, cycles)
}

func TestDependencyGraphNoCyclesOnAcyclicGraph(t *testing.T) {
	g := NewDependencyGraph([][2]string{
		{"a.go", "b.go"},
		{"b.go", "c.go"},
	})
	assert.Empty(t, g.Cycles())
}
