// Package analyzer holds the pure AST-consumer analyzers from spec section
// 4.5: cyclomatic/cognitive complexity, dead code, duplication, dependency
// graphs, pattern detection, and call graph traversal. Every analyzer is a
// pure function of a codeintel.ParsedAst (plus, where noted, the Symbol
// Index), and depends only on the language-generic NodeKindSet capability,
// never on grammar-specific node names (spec section 9's polymorphism
// note).
package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/codeintel"
)

// ComplexityReport is the result of measuring one function's complexity.
type ComplexityReport struct {
	FunctionName        string
	CyclomaticComplexity int
	CognitiveComplexity  int
	Improvements         []Improvement
}

// Improvement is a non-binding suggestion attached to an analyzer's report
// when an obvious refactor would reduce the reported metric (supplemented
// from original_source/codex-rs per SPEC_FULL.md).
type Improvement struct {
	Description string
	Impact      ImpactLevel
}

type ImpactLevel int

const (
	ImpactLow ImpactLevel = iota
	ImpactMedium
	ImpactHigh
)

// shortCircuitOperators are boolean operators that short-circuit and so
// count as decision points for cyclomatic complexity, independent of
// language - tree-sitter grammars generally surface these as
// binary_expression nodes with a recognizable operator child, so we match
// by the operator token rather than the node kind.
var shortCircuitOperators = map[string]bool{
	"&&": true, "||": true,
	"and": true, "or": true,
}

// CyclomaticComplexity counts 1 + the number of decision nodes in the
// function subtree rooted at fn: the language's control-flow branch nodes
// plus short-circuit boolean operators.
func CyclomaticComplexity(fn *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) int {
	count := 1
	walk(fn, func(n *tree_sitter.Node) {
		if n.IsError() {
			return
		}
		kind := n.Kind()
		if kinds.IsControlFlow(kind) {
			count++
			return
		}
		if shortCircuitOperators[nodeText(n, source)] {
			count++
		}
	})
	return count
}

// CognitiveComplexity weighs each decision node by 1+nesting, where
// nesting increments on entry to a block-structured control-flow node and
// decrements on exit.
func CognitiveComplexity(fn *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) int {
	total := 0
	var descend func(n *tree_sitter.Node, nesting int)
	descend = func(n *tree_sitter.Node, nesting int) {
		if n == nil || n.IsError() {
			return
		}
		childNesting := nesting
		if kinds.IsControlFlow(n.Kind()) {
			total += 1 + nesting
			childNesting = nesting + 1
		} else if shortCircuitOperators[nodeText(n, source)] {
			total += 1 + nesting
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			descend(n.Child(i), childNesting)
		}
	}
	descend(fn, 0)
	return total
}

// AnalyzeComplexity produces a ComplexityReport for one function node,
// attaching a split-the-function Improvement when cyclomatic complexity
// exceeds 10.
func AnalyzeComplexity(name string, fn *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) ComplexityReport {
	report := ComplexityReport{
		FunctionName:         name,
		CyclomaticComplexity: CyclomaticComplexity(fn, source, kinds),
		CognitiveComplexity:  CognitiveComplexity(fn, source, kinds),
	}
	if report.CyclomaticComplexity > 10 {
		report.Improvements = append(report.Improvements, Improvement{
			Description: "split into smaller functions to reduce branching",
			Impact:      ImpactMedium,
		})
	}
	return report
}

func walk(n *tree_sitter.Node, visit func(*tree_sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), visit)
	}
}

func nodeText(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}
