package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/langreg"
)

func parseGoForTest(t *testing.T, src string) (*tree_sitter.Node, []byte) {
	t.Helper()
	parser := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_go.Language())
	require.NoError(t, parser.SetLanguage(lang))
	source := []byte(src)
	tree := parser.Parse(source, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)
	return tree.RootNode(), source
}

func goKinds(t *testing.T) codeintel.NodeKindSet {
	t.Helper()
	reg := langreg.NewBuiltinRegistry()
	g, ok := reg.LookupLanguage(codeintel.LangGo)
	require.True(t, ok)
	return g.NodeKinds
}

func findFunctionNode(t *testing.T, root *tree_sitter.Node) *tree_sitter.Node {
	t.Helper()
	var found *tree_sitter.Node
	walk(root, func(n *tree_sitter.Node) {
		if found == nil && n.Kind() == "function_declaration" {
			found = n
		}
	})
	require.NotNil(t, found)
	return found
}

func TestCyclomaticComplexitySimpleFunctionIsOne(t *testing.T) {
	root, source := parseGoForTest(t, `package p
func f() int { return 1 }`)
	fn := findFunctionNode(t, root)
	assert := require.New(t)
	assert.Equal(1, CyclomaticComplexity(fn, source, goKinds(t)))
}

func TestCyclomaticComplexityCountsBranches(t *testing.T) {
	root, source := parseGoForTest(t, `package p
func f(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	for i := 0; i < x; i++ {
		if i == 2 && x > 1 {
			return i
		}
	}
	return 0
}`)
	fn := findFunctionNode(t, root)
	got := CyclomaticComplexity(fn, source, goKinds(t))
	require.Greater(t, got, 3, "if/else-if/for/nested-if/&& should each add a decision point")
}

func TestCognitiveComplexityWeighsNesting(t *testing.T) {
	root, source := parseGoForTest(t, `package p
func shallow(x int) int {
	if x > 0 {
		return 1
	}
	return 0
}`)
	shallowFn := findFunctionNode(t, root)
	shallowScore := CognitiveComplexity(shallowFn, source, goKinds(t))

	root2, source2 := parseGoForTest(t, `package p
func nested(x int) int {
	if x > 0 {
		if x > 10 {
			if x > 100 {
				return 3
			}
		}
	}
	return 0
}`)
	nestedFn := findFunctionNode(t, root2)
	nestedScore := CognitiveComplexity(nestedFn, source2, goKinds(t))

	require.Greater(t, nestedScore, shallowScore, "deeper nesting must weigh more heavily than flat branching")
}

func TestAnalyzeComplexityFlagsHighCyclomaticComplexity(t *testing.T) {
	src := "package p\nfunc f(x int) int {\n"
	for i := 0; i < 15; i++ {
		src += "\tif x > 0 { x-- }\n"
	}
	src += "\treturn x\n}\n"
	root, source := parseGoForTest(t, src)
	fn := findFunctionNode(t, root)
	report := AnalyzeComplexity("f", fn, source, goKinds(t))
	require.NotEmpty(t, report.Improvements)
}
