package codeintel

// SymbolKind is the closed set of symbol kinds recognized across all
// supported languages.
type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolClass
	SymbolStruct
	SymbolEnum
	SymbolInterface
	SymbolTrait
	SymbolVariable
	SymbolConstant
	SymbolType
	SymbolModule
	SymbolNamespace
	SymbolField
	SymbolParameter
	SymbolMacro
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolClass:
		return "class"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolInterface:
		return "interface"
	case SymbolTrait:
		return "trait"
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolType:
		return "type"
	case SymbolModule:
		return "module"
	case SymbolNamespace:
		return "namespace"
	case SymbolField:
		return "field"
	case SymbolParameter:
		return "parameter"
	case SymbolMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// Visibility classifies a symbol's exposure outside its defining scope.
type Visibility int

const (
	VisibilityUnspecified Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityInternal
)

// Scope records the lexical nesting a symbol was defined in. Any field may
// be empty when the symbol is defined at a shallower level (e.g. a
// module-level function has no Class/Function scope).
type Scope struct {
	Module    string
	Class     string
	Function  string
	Namespace string
}

// Symbol is a named program entity with a single definition location and a
// set of occurrences. DefinedAt is always present in References; symbols
// sharing a Name but differing in DefinedAt are distinct entries.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	DefinedAt  Location
	Scope      Scope
	Visibility Visibility
	References []Location
}

// IsReference reports whether loc is an occurrence of this symbol other
// than its definition.
func (s *Symbol) IsReference(loc Location) bool {
	return loc != s.DefinedAt
}

// AddReference records loc as an occurrence, inserting the definition site
// itself on first use so References always satisfies the DefinedAt
// invariant.
func (s *Symbol) AddReference(loc Location) {
	if len(s.References) == 0 {
		s.References = append(s.References, s.DefinedAt)
	}
	for _, existing := range s.References {
		if existing == loc {
			return
		}
	}
	s.References = append(s.References, loc)
}

// CallGraphNode is one function/method in a call graph arena, addressed by
// a stable integer ID rather than a pointer - see DESIGN.md for why the
// graphs in this package are ID-addressed arenas.
type CallGraphNode struct {
	ID       int
	Name     string
	Location Location
	Module   string
}

// CallGraphEdge connects two nodes by ID. CallSite is the location of the
// call expression itself. Callee may reference an ID with no corresponding
// node when the call target is external to the indexed set.
type CallGraphEdge struct {
	Caller   int
	Callee   int
	CallSite Location
}

// CallGraph is the per-file or per-function call graph: nodes addressed by
// ID, edges between IDs. No code in this module assigns IDs to unresolved
// external calls.
type CallGraph struct {
	Nodes []CallGraphNode
	Edges []CallGraphEdge
}

// SemanticIndex is everything extracted from one file's AST.
type SemanticIndex struct {
	File      string
	Language  Language
	Functions []Symbol
	Classes   []Symbol
	Imports   []string
	Exports   []string
	Symbols   []Symbol
	CallGraph CallGraph
}
