package codeintel

// Language is the closed enumeration of source languages the engine
// understands. The zero value is LangUnknown.
type Language int

const (
	LangUnknown Language = iota
	LangRust
	LangPython
	LangJavaScript
	LangTypeScript
	LangGo
	LangJava
	LangC
	LangCPP
	LangCSharp
	LangBash
	LangHTML
	LangCSS
	LangJSON
	LangYAML
	LangTOML
	LangRuby
	LangPHP
	LangLua
	LangHaskell
	LangElixir
	LangScala
	LangOCaml
	LangClojure
	LangZig
	LangSwift
	LangKotlin
	LangObjectiveC
	LangDockerfile
	LangHCL
	LangNix
	LangMake
	LangMarkdown
	LangRST
)

var languageNames = map[Language]string{
	LangUnknown:    "unknown",
	LangRust:       "rust",
	LangPython:     "python",
	LangJavaScript: "javascript",
	LangTypeScript: "typescript",
	LangGo:         "go",
	LangJava:       "java",
	LangC:          "c",
	LangCPP:        "cpp",
	LangCSharp:     "csharp",
	LangBash:       "bash",
	LangHTML:       "html",
	LangCSS:        "css",
	LangJSON:       "json",
	LangYAML:       "yaml",
	LangTOML:       "toml",
	LangRuby:       "ruby",
	LangPHP:        "php",
	LangLua:        "lua",
	LangHaskell:    "haskell",
	LangElixir:     "elixir",
	LangScala:      "scala",
	LangOCaml:      "ocaml",
	LangClojure:    "clojure",
	LangZig:        "zig",
	LangSwift:      "swift",
	LangKotlin:     "kotlin",
	LangObjectiveC: "objective-c",
	LangDockerfile: "dockerfile",
	LangHCL:        "hcl",
	LangNix:        "nix",
	LangMake:       "make",
	LangMarkdown:   "markdown",
	LangRST:        "rst",
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// NodeKindSet names the node kinds a grammar uses for each of the
// language-generic categories the analyzers key on. A capability record is
// registered per language so analyzers never depend on grammar-specific
// node names directly (see internal/langreg).
type NodeKindSet struct {
	FunctionDef  []string
	ClassDef     []string
	Import       []string
	Call         []string
	Identifier   []string
	ControlFlow  []string
	Literal      []string
}

// containsIn reports whether kind appears in list, one category of the set.
func (s NodeKindSet) containsIn(list []string, kind string) bool {
	for _, k := range list {
		if k == kind {
			return true
		}
	}
	return false
}

func (s NodeKindSet) IsFunctionDef(kind string) bool { return s.containsIn(s.FunctionDef, kind) }
func (s NodeKindSet) IsClassDef(kind string) bool    { return s.containsIn(s.ClassDef, kind) }
func (s NodeKindSet) IsImport(kind string) bool      { return s.containsIn(s.Import, kind) }
func (s NodeKindSet) IsCall(kind string) bool        { return s.containsIn(s.Call, kind) }
func (s NodeKindSet) IsIdentifier(kind string) bool  { return s.containsIn(s.Identifier, kind) }
func (s NodeKindSet) IsControlFlow(kind string) bool { return s.containsIn(s.ControlFlow, kind) }
func (s NodeKindSet) IsLiteral(kind string) bool     { return s.containsIn(s.Literal, kind) }

// UnknownSymbolName is the single sentinel used whenever identifier
// extraction fails. The original tooling used two sentinels ("anonymous" and
// "unknown"); this engine collapses them into one per the product decision
// recorded in SPEC_FULL.md.
const UnknownSymbolName = "<unknown>"
