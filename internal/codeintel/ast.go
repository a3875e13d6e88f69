package codeintel

import (
	"time"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParsedAst is the result of parsing one file's bytes. Source and Tree are
// bit-coupled: every node's byte range indexes into Source, and the pair is
// never mutated independently - the AST Cache owns this value exclusively
// and hands out shared read-only references.
type ParsedAst struct {
	Tree          *tree_sitter.Tree
	Language      Language
	Source        []byte
	ParseDuration time.Duration
	NodeCount     int
	errorNodes    []Location
}

// ErrorNodes returns the locations of error/missing nodes produced when the
// parser tolerated malformed source. Downstream analyzers treat these as
// opaque and skip them.
func (a *ParsedAst) ErrorNodes() []Location {
	return a.errorNodes
}

// SetErrorNodes is called once by the parser pool after walking the tree
// for ERROR/MISSING nodes.
func (a *ParsedAst) SetErrorNodes(locs []Location) {
	a.errorNodes = locs
}

// Close releases the underlying tree-sitter tree. Safe to call multiple
// times.
func (a *ParsedAst) Close() {
	if a.Tree != nil {
		a.Tree.Close()
		a.Tree = nil
	}
}
