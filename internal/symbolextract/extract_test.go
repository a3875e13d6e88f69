package symbolextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/langreg"
)

func parseAs(t *testing.T, tsLang *tree_sitter.Language, lang codeintel.Language, src string) *codeintel.ParsedAst {
	t.Helper()
	parser := tree_sitter.NewParser()
	require.NoError(t, parser.SetLanguage(tsLang))
	source := []byte(src)
	tree := parser.Parse(source, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)
	return &codeintel.ParsedAst{Tree: tree, Language: lang, Source: source}
}

func parseGo(t *testing.T, src string) *codeintel.ParsedAst {
	t.Helper()
	return parseAs(t, tree_sitter.NewLanguage(tree_sitter_go.Language()), codeintel.LangGo, src)
}

func parsePython(t *testing.T, src string) *codeintel.ParsedAst {
	t.Helper()
	return parseAs(t, tree_sitter.NewLanguage(tree_sitter_python.Language()), codeintel.LangPython, src)
}

func kindsFor(t *testing.T, lang codeintel.Language) codeintel.NodeKindSet {
	t.Helper()
	reg := langreg.NewBuiltinRegistry()
	g, ok := reg.LookupLanguage(lang)
	require.True(t, ok)
	return g.NodeKinds
}

func goKinds(t *testing.T) codeintel.NodeKindSet {
	return kindsFor(t, codeintel.LangGo)
}

func TestExtractFindsTopLevelFunction(t *testing.T) {
	ast := parseGo(t, `package p
func DoThing() int { return 1 }`)
	symbols := Extract("a.go", ast, goKinds(t))
	require.Len(t, symbols, 1)
	assert.Equal(t, "DoThing", symbols[0].Name)
	assert.Equal(t, codeintel.SymbolFunction, symbols[0].Kind)
	assert.Equal(t, codeintel.VisibilityPublic, symbols[0].Visibility)
}

func TestExtractMarksUnexportedPrivate(t *testing.T) {
	ast := parseGo(t, `package p
func doThing() int { return 1 }`)
	symbols := Extract("a.go", ast, goKinds(t))
	require.Len(t, symbols, 1)
	assert.Equal(t, codeintel.VisibilityPrivate, symbols[0].Visibility)
}

func TestExtractClassifiesMethodsInsideClassDef(t *testing.T) {
	ast := parsePython(t, "class Widget:\n    def render(self):\n        pass\n")
	symbols := Extract("a.py", ast, kindsFor(t, codeintel.LangPython))
	var found bool
	for _, s := range symbols {
		if s.Name == "render" {
			found = true
			assert.Equal(t, codeintel.SymbolMethod, s.Kind)
			assert.Equal(t, "Widget", s.Scope.Class)
		}
	}
	assert.True(t, found, "expected to find render method symbol")
}

func TestExtractDefinedAtLineMatchesSource(t *testing.T) {
	ast := parseGo(t, `package p

func Second() {}`)
	symbols := Extract("a.go", ast, goKinds(t))
	require.Len(t, symbols, 1)
	assert.Equal(t, 3, symbols[0].DefinedAt.Line)
}

func TestExtractEmptyTreeReturnsNoSymbols(t *testing.T) {
	ast := parseGo(t, `package p`)
	symbols := Extract("a.go", ast, goKinds(t))
	assert.Empty(t, symbols)
}
