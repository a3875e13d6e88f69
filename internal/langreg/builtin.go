package langreg

import (
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/sourcelens/engine/internal/codeintel"
)

// NewBuiltinRegistry builds a Registry pre-populated with every grammar
// this module vendors via its tree-sitter dependencies. Languages named in
// the closed enumeration that have no vendored grammar (Bash, HTML, CSS,
// JSON, YAML, TOML, Ruby, Lua, Haskell, Elixir, Scala, OCaml, Clojure,
// Swift, Kotlin, Objective-C, Dockerfile, HCL, Nix, Make, Markdown, RST) are
// left unregistered; parsing them fails with UnsupportedLanguage until a
// grammar is registered for them.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(goGrammar())
	r.Register(pythonGrammar())
	r.Register(javascriptGrammar())
	r.Register(typescriptGrammar())
	r.Register(rustGrammar())
	r.Register(cppGrammar())
	r.Register(cGrammar())
	r.Register(javaGrammar())
	r.Register(csharpGrammar())
	r.Register(phpGrammar())
	r.Register(zigGrammar())
	return r
}

func goGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangGo,
		Extensions: []string{".go"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_go.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_declaration", "method_declaration", "func_literal"},
			ClassDef:    []string{"type_declaration", "type_spec"},
			Import:      []string{"import_spec", "import_declaration"},
			Call:        []string{"call_expression"},
			Identifier:  []string{"identifier", "field_identifier", "type_identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "expression_switch_statement", "type_switch_statement", "communication_case", "expression_case", "select_statement"},
			Literal:     []string{"interpreted_string_literal", "raw_string_literal", "int_literal", "float_literal"},
		},
	}
}

func pythonGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangPython,
		Extensions: []string{".py", ".pyi"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_python.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_definition"},
			ClassDef:    []string{"class_definition"},
			Import:      []string{"import_statement", "import_from_statement"},
			Call:        []string{"call"},
			Identifier:  []string{"identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "while_statement", "try_statement", "except_clause", "match_statement", "case_clause"},
			Literal:     []string{"string", "integer", "float"},
		},
	}
}

func javascriptGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangJavaScript,
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_declaration", "generator_function_declaration", "arrow_function", "function_expression", "method_definition"},
			ClassDef:    []string{"class_declaration"},
			Import:      []string{"import_statement"},
			Call:        []string{"call_expression"},
			Identifier:  []string{"identifier", "property_identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "for_in_statement", "while_statement", "switch_case", "catch_clause"},
			Literal:     []string{"string", "number", "template_string"},
		},
	}
}

func typescriptGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangTypeScript,
		Extensions: []string{".ts", ".tsx"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_declaration", "generator_function_declaration", "arrow_function", "function_expression", "method_definition"},
			ClassDef:    []string{"class_declaration", "interface_declaration"},
			Import:      []string{"import_statement"},
			Call:        []string{"call_expression"},
			Identifier:  []string{"identifier", "property_identifier", "type_identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "for_in_statement", "while_statement", "switch_case", "catch_clause"},
			Literal:     []string{"string", "number", "template_string"},
		},
	}
}

func rustGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangRust,
		Extensions: []string{".rs"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_item"},
			ClassDef:    []string{"struct_item", "enum_item", "trait_item", "impl_item"},
			Import:      []string{"use_declaration"},
			Call:        []string{"call_expression", "macro_invocation"},
			Identifier:  []string{"identifier", "type_identifier", "field_identifier"},
			ControlFlow: []string{"if_expression", "match_expression", "match_arm", "loop_expression", "while_expression", "for_expression"},
			Literal:     []string{"string_literal", "integer_literal", "float_literal"},
		},
	}
}

func cppGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangCPP,
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_cpp.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_definition"},
			ClassDef:    []string{"class_specifier", "struct_specifier"},
			Import:      []string{"preproc_include"},
			Call:        []string{"call_expression"},
			Identifier:  []string{"identifier", "field_identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "while_statement", "switch_statement", "case_statement", "catch_clause"},
			Literal:     []string{"string_literal", "number_literal"},
		},
	}
}

func cGrammar() *Grammar {
	g := cppGrammar()
	g.Language = codeintel.LangC
	g.Extensions = []string{".c", ".h"}
	return g
}

func javaGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangJava,
		Extensions: []string{".java"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_java.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"method_declaration", "constructor_declaration"},
			ClassDef:    []string{"class_declaration", "interface_declaration", "enum_declaration"},
			Import:      []string{"import_declaration"},
			Call:        []string{"method_invocation"},
			Identifier:  []string{"identifier", "type_identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "while_statement", "switch_expression", "switch_block_statement_group", "catch_clause"},
			Literal:     []string{"string_literal", "decimal_integer_literal"},
		},
	}
}

func csharpGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangCSharp,
		Extensions: []string{".cs"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_csharp.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"method_declaration", "constructor_declaration", "local_function_statement"},
			ClassDef:    []string{"class_declaration", "interface_declaration", "struct_declaration", "enum_declaration"},
			Import:      []string{"using_directive"},
			Call:        []string{"invocation_expression"},
			Identifier:  []string{"identifier"},
			ControlFlow: []string{"if_statement", "for_statement", "while_statement", "switch_statement", "switch_section", "catch_clause"},
			Literal:     []string{"string_literal", "integer_literal"},
		},
	}
}

func phpGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangPHP,
		Extensions: []string{".php"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"function_definition", "method_declaration"},
			ClassDef:    []string{"class_declaration", "interface_declaration"},
			Import:      []string{"namespace_use_declaration", "require_expression", "include_expression"},
			Call:        []string{"function_call_expression", "member_call_expression"},
			Identifier:  []string{"name", "variable_name"},
			ControlFlow: []string{"if_statement", "for_statement", "while_statement", "switch_statement", "case_statement", "catch_clause"},
			Literal:     []string{"string", "integer"},
		},
	}
}

func zigGrammar() *Grammar {
	return &Grammar{
		Language:   codeintel.LangZig,
		Extensions: []string{".zig"},
		TSLanguage: tree_sitter.NewLanguage(tree_sitter_zig.Language()),
		NodeKinds: codeintel.NodeKindSet{
			FunctionDef: []string{"FnProto"},
			ClassDef:    []string{"ContainerDecl"},
			Import:      []string{"BUILTINIDENTIFIER"},
			Call:        []string{"SuffixExpr"},
			Identifier:  []string{"IDENTIFIER"},
			ControlFlow: []string{"IfStatement", "WhileStatement", "ForStatement", "SwitchExpr"},
			Literal:     []string{"STRINGLITERAL", "NUMBER"},
		},
	}
}
