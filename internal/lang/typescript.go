package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/dusk-indust/codenav/internal/symbol"
)

// TypeScript classes are reported as structs. Arrow functions bound to a
// declarator are functions; the function pattern precedes the variable
// pattern so the same declarator is not reported twice. Other arrow
// functions and function expressions are anonymous functions.
var typescriptPatterns = []Pattern{
	{Kind: symbol.KindMethod, Query: `
(method_definition name: (_) @name) @definition`},
	{Kind: symbol.KindFunction, Query: `
(function_declaration name: (identifier) @name) @definition
(generator_function_declaration name: (identifier) @name) @definition
(variable_declarator name: (identifier) @name value: (arrow_function)) @definition
(arrow_function) @definition
(function_expression) @definition`},
	{Kind: symbol.KindStruct, Query: `
(class_declaration name: (_) @name) @definition
(abstract_class_declaration name: (_) @name) @definition`},
	{Kind: symbol.KindInterface, Query: `
(interface_declaration name: (_) @name) @definition`},
	{Kind: symbol.KindEnum, Query: `
(enum_declaration name: (_) @name) @definition`},
	{Kind: symbol.KindImport, Query: `
(import_statement source: (string) @name) @definition`},
	{Kind: symbol.KindVariable, Query: `
(program (lexical_declaration (variable_declarator name: (identifier) @name) @definition))
(program (variable_declaration (variable_declarator name: (identifier) @name) @definition))
(program (export_statement (lexical_declaration (variable_declarator name: (identifier) @name) @definition)))`},
}

func typescriptDescriptor() *Descriptor {
	return newTypeScriptFamily(LangTypeScript, []string{".ts", ".mts", ".cts"},
		tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
}

func tsxDescriptor() *Descriptor {
	return newTypeScriptFamily(LangTSX, []string{".tsx"},
		tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()))
}

func newTypeScriptFamily(lang Language, exts []string, grammar *tree_sitter.Language) *Descriptor {
	return &Descriptor{
		lang:       lang,
		extensions: exts,
		grammar:    grammar,
		patterns:   typescriptPatterns,
		comments:   set("comment"),
		identifiers: set(
			"identifier", "type_identifier", "property_identifier",
			"shorthand_property_identifier",
		),
		decorations: set("decorator"),
		wrappers: map[string]bool{
			"export_statement":     true,
			"lexical_declaration":  false,
			"variable_declaration": false,
		},
		shape:    typescriptFunctionShape,
		compiled: &querySet{},
	}
}

func typescriptFunctionShape(node *tree_sitter.Node, source []byte) (FunctionShape, bool) {
	fn := node
	if node.Kind() == "variable_declarator" {
		fn = node.ChildByFieldName("value")
		if fn == nil {
			return FunctionShape{}, false
		}
	}

	switch fn.Kind() {
	case "function_declaration", "generator_function_declaration", "method_definition",
		"arrow_function", "function_expression":
	default:
		return FunctionShape{}, false
	}

	shape := FunctionShape{Body: fn.ChildByFieldName("body")}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		shape.Params = typescriptParams(params, source)
	} else if single := fn.ChildByFieldName("parameter"); single != nil {
		// x => x
		shape.Params = []symbol.Param{{Name: NodeText(single, source)}}
	} else {
		shape.Params = []symbol.Param{}
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		shape.ReturnType = typeAnnotation(ret, source)
	}
	return shape, true
}

func typescriptParams(list *tree_sitter.Node, source []byte) []symbol.Param {
	params := []symbol.Param{}
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			params = append(params, symbol.Param{
				Name: CollapseWhitespace(NodeText(p.ChildByFieldName("pattern"), source)),
				Type: typeAnnotation(p.ChildByFieldName("type"), source),
			})
		default:
			params = append(params, symbol.Param{Name: CollapseWhitespace(NodeText(p, source))})
		}
	}
	return params
}
