package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/codeintel"
)

// FileReport aggregates every analyzer's output for one file, the unit
// callers typically fetch a report at (spec section 4.5).
type FileReport struct {
	File        string
	Complexity  []ComplexityReport
	Duplication []DuplicationGroup
	DeadCode    []DeadCodeFinding
	Patterns    []PatternMatch
}

// ValidationReport carries structural concerns surfaced while analyzing a
// file, supplemented from original_source/codex-rs's ast_agent_tools.rs
// per SPEC_FULL.md so analyzer output and refactor-plan validation share
// one shape.
type ValidationReport struct {
	SyntaxErrors   []codeintel.Location
	SyntaxWarnings []codeintel.Location
}

// ValidateAst turns a ParsedAst's recorded error nodes into a
// ValidationReport: true error nodes are reported as errors, and nodes
// the parser recovered from but marked incomplete (IsMissing) are
// reported as warnings since the tree is still usable.
func ValidateAst(ast *codeintel.ParsedAst, file string) ValidationReport {
	var report ValidationReport
	root := ast.Tree.RootNode()
	walk(root, func(n *tree_sitter.Node) {
		loc := codeintel.Location{
			File:   file,
			Line:   int(n.StartPosition().Row) + 1,
			Column: int(n.StartPosition().Column) + 1,
		}
		switch {
		case n.IsError():
			report.SyntaxErrors = append(report.SyntaxErrors, loc)
		case n.IsMissing():
			report.SyntaxWarnings = append(report.SyntaxWarnings, loc)
		}
	})
	return report
}
