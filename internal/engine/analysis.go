package engine

import (
	"context"
	"os"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/analyzer"
	"github.com/sourcelens/engine/internal/astcache"
	"github.com/sourcelens/engine/internal/codeintel"
	cierrors "github.com/sourcelens/engine/internal/errors"
	"github.com/sourcelens/engine/internal/langreg"
)

// FunctionComplexity reports one function definition's complexity within
// a file, identified by name and starting line rather than a node handle -
// the AST backing it is released once AnalyzeComplexity returns.
type FunctionComplexity struct {
	analyzer.ComplexityReport
	Line int
}

// AnalyzeComplexity computes cyclomatic/cognitive complexity for every
// function definition in path, per spec section 4.5's Analyzer Library.
func (e *Engine) AnalyzeComplexity(ctx context.Context, path string) ([]FunctionComplexity, error) {
	ast, _, grammar, err := e.parseForAnalysis(ctx, path)
	if err != nil {
		return nil, err
	}
	defer ast.Close()

	var reports []FunctionComplexity
	walkFunctions(ast.Tree.RootNode(), grammar.NodeKinds, func(fn *tree_sitter.Node) {
		name := functionName(fn, ast.Source, grammar.NodeKinds)
		report := analyzer.AnalyzeComplexity(name, fn, ast.Source, grammar.NodeKinds)
		reports = append(reports, FunctionComplexity{
			ComplexityReport: report,
			Line:             int(fn.StartPosition().Row) + 1,
		})
	})
	return reports, nil
}

// FindDuplicates runs the duplication analyzer over every indexed file
// under root, grouping transitively-similar functions/classes across file
// boundaries.
func (e *Engine) FindDuplicates(ctx context.Context, root string) ([]analyzer.DuplicationGroup, error) {
	var blocks []analyzer.CodeBlock
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || e.Excluded(mustRel(root, path)) {
			return nil
		}
		if _, ok := e.Registry.DetectFromPath(path); !ok {
			return nil
		}
		ast, _, grammar, parseErr := e.parseForAnalysis(ctx, path)
		if parseErr != nil {
			return nil // skip unparsable files, matching IndexDirectory's recovery policy
		}
		defer ast.Close()
		blocks = append(blocks, analyzer.ExtractCodeBlocks(path, ast.Tree.RootNode(), ast.Source, grammar.NodeKinds)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return analyzer.DetectDuplicates(blocks), nil
}

// FindDeadCode runs the dead-code analyzer over every symbol currently in
// the Symbol Index.
func (e *Engine) FindDeadCode() []analyzer.DeadCodeFinding {
	return analyzer.FindDeadCode(e.Symbols.All())
}

func mustRel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// parseForAnalysis re-parses path through the same Parser Pool and AST
// Cache IndexFile uses, so repeated analyzer runs over an unchanged file
// hit the cache rather than reparsing.
func (e *Engine) parseForAnalysis(ctx context.Context, path string) (*codeintel.ParsedAst, codeintel.Language, *langreg.Grammar, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, codeintel.LangUnknown, nil, err
	}
	lang, ok := e.Registry.DetectFromPath(path)
	if !ok {
		return nil, codeintel.LangUnknown, nil, cierrors.NewCodeIntelError(cierrors.ErrLanguageDetectionFailed, path, nil)
	}
	grammar, _ := e.Registry.LookupLanguage(lang)

	fp := astcache.Fingerprint64(source)
	ast, ok := e.Cache.Get(fp, lang)
	if !ok {
		ast, err = e.Pool.Parse(ctx, source, lang)
		if err != nil {
			return nil, lang, grammar, err
		}
		e.Cache.Put(fp, lang, ast)
	}
	return ast, lang, grammar, nil
}

func walkFunctions(n *tree_sitter.Node, kinds codeintel.NodeKindSet, visit func(*tree_sitter.Node)) {
	if n == nil {
		return
	}
	if kinds.IsFunctionDef(n.Kind()) {
		visit(n)
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		walkFunctions(n.Child(i), kinds, visit)
	}
}

// functionName recovers a function node's declared name by scanning its
// direct children for the grammar's identifier kind, returning the first
// one found, or "<anonymous>" when no direct child is an identifier.
func functionName(fn *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) string {
	for i := uint(0); i < fn.ChildCount(); i++ {
		child := fn.Child(i)
		if kinds.IsIdentifier(child.Kind()) {
			return string(source[child.StartByte():child.EndByte()])
		}
	}
	return "<anonymous>"
}
