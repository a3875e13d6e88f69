// Package symbolextract walks a parsed AST and emits the codeintel.Symbol
// records the Symbol Index and Full-Text Index are built from. Spec section
// 6's language registry plug-in contract is deliberately generic
// ({language_tag, extensions[], parse, node_kind_sets}), so extraction here
// is one language-agnostic walker keyed on codeintel.NodeKindSet rather than
// the teacher's one-file-per-language extractor set in
// internal/symbollinker - the generic walker IS the plug-in contract spec
// section 6 asks for.
package symbolextract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/codeintel"
)

// Extract walks ast's root node and returns one Symbol per
// function/class/method definition it finds at any nesting depth, classified
// via kinds. Unnamed or unidentifiable definitions get
// codeintel.UnknownSymbolName rather than being skipped, so callers always
// see one Symbol per definition node.
func Extract(file string, ast *codeintel.ParsedAst, kinds codeintel.NodeKindSet) []codeintel.Symbol {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var symbols []codeintel.Symbol
	walkDefs(ast.Tree.RootNode(), ast.Source, file, kinds, Scope{}, &symbols)
	return symbols
}

// Scope tracks the enclosing class/function name while descending, mirroring
// codeintel.Scope's fields.
type Scope struct {
	Class    string
	Function string
}

func walkDefs(n *tree_sitter.Node, source []byte, file string, kinds codeintel.NodeKindSet, scope Scope, out *[]codeintel.Symbol) {
	if n == nil {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		switch {
		case kinds.IsClassDef(kind):
			name := identifierName(child, source, kinds)
			*out = append(*out, newSymbol(name, codeintel.SymbolClass, file, child, source, scope))
			walkDefs(child, source, file, kinds, Scope{Class: name}, out)
		case kinds.IsFunctionDef(kind):
			name := identifierName(child, source, kinds)
			symKind := codeintel.SymbolFunction
			if scope.Class != "" {
				symKind = codeintel.SymbolMethod
			}
			*out = append(*out, newSymbol(name, symKind, file, child, source, scope))
			walkDefs(child, source, file, kinds, Scope{Class: scope.Class, Function: name}, out)
		default:
			walkDefs(child, source, file, kinds, scope, out)
		}
	}
}

// identifierName returns the text of the definition node's first identifier
// child, or codeintel.UnknownSymbolName when none is found - e.g. an
// anonymous function literal.
func identifierName(def *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) string {
	for i := uint(0); i < def.ChildCount(); i++ {
		child := def.Child(i)
		if child == nil {
			continue
		}
		if kinds.IsIdentifier(child.Kind()) {
			return nodeText(child, source)
		}
	}
	return codeintel.UnknownSymbolName
}

func newSymbol(name string, kind codeintel.SymbolKind, file string, n *tree_sitter.Node, source []byte, scope Scope) codeintel.Symbol {
	start := n.StartPosition()
	loc := codeintel.Location{
		File:       file,
		Line:       int(start.Row) + 1,
		Column:     int(start.Column) + 1,
		ByteOffset: int(n.StartByte()),
	}
	return codeintel.Symbol{
		Name:      name,
		Kind:      kind,
		DefinedAt: loc,
		Scope: codeintel.Scope{
			Class:    scope.Class,
			Function: scope.Function,
		},
		Visibility: visibilityOf(name),
		References: []codeintel.Location{loc},
	}
}

// visibilityOf applies the Go exported-identifier convention (leading
// uppercase letter) used throughout the pack's own analyzers
// (internal/analysis/go_analyzer.go's isExported) as the language-generic
// default; languages without this convention simply report
// VisibilityUnspecified; callers needing a language-specific rule can expand
// this function itself.
func visibilityOf(name string) codeintel.Visibility {
	if name == "" || name == codeintel.UnknownSymbolName {
		return codeintel.VisibilityUnspecified
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return codeintel.VisibilityPublic
	}
	if name[0] >= 'a' && name[0] <= 'z' || name[0] == '_' {
		return codeintel.VisibilityPrivate
	}
	return codeintel.VisibilityUnspecified
}

func nodeText(n *tree_sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}
