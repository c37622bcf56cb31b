package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/dusk-indust/codenav/internal/symbol"
)

func goDescriptor() *Descriptor {
	return &Descriptor{
		lang:       LangGo,
		extensions: []string{".go"},
		grammar:    tree_sitter.NewLanguage(tree_sitter_go.Language()),
		patterns: []Pattern{
			{Kind: symbol.KindFunction, Query: `
(function_declaration name: (identifier) @name) @definition
(func_literal) @definition`},
			{Kind: symbol.KindStruct, Query: `
(type_spec name: (type_identifier) @name type: (struct_type)) @definition`},
			{Kind: symbol.KindInterface, Query: `
(type_spec name: (type_identifier) @name type: (interface_type)) @definition`},
			{Kind: symbol.KindMethod, Query: `
(method_declaration name: (field_identifier) @name) @definition`},
			{Kind: symbol.KindImport, Query: `
(import_spec path: (_) @name) @definition`},
			{Kind: symbol.KindVariable, Query: `
(source_file (var_declaration (var_spec name: (identifier) @name) @definition))
(source_file (var_declaration (var_spec_list (var_spec name: (identifier) @name) @definition)))
(source_file (const_declaration (const_spec name: (identifier) @name) @definition))`},
		},
		comments: set("comment"),
		identifiers: set(
			"identifier", "type_identifier", "field_identifier", "package_identifier",
		),
		decorations: set(),
		wrappers: map[string]bool{
			"type_declaration":  false,
			"var_declaration":   false,
			"const_declaration": false,
		},
		shape:    goFunctionShape,
		compiled: &querySet{},
	}
}

// goFunctionShape handles function_declaration, method_declaration and
// func_literal. The receiver of a method is not part of its parameters.
func goFunctionShape(node *tree_sitter.Node, source []byte) (FunctionShape, bool) {
	switch node.Kind() {
	case "function_declaration", "method_declaration", "func_literal":
	default:
		return FunctionShape{}, false
	}

	shape := FunctionShape{
		Params: goParams(node.ChildByFieldName("parameters"), source),
		Body:   node.ChildByFieldName("body"),
	}
	if result := node.ChildByFieldName("result"); result != nil {
		shape.ReturnType = CollapseWhitespace(NodeText(result, source))
	}
	return shape, true
}

// goParams flattens a parameter_list. "x, y int" yields two params sharing
// the type; unnamed parameters keep an empty name.
func goParams(list *tree_sitter.Node, source []byte) []symbol.Param {
	params := []symbol.Param{}
	for _, decl := range namedChildren(list) {
		typ := CollapseWhitespace(NodeText(decl.ChildByFieldName("type"), source))
		if decl.Kind() == "variadic_parameter_declaration" {
			typ = "..." + typ
		}
		names := fieldNodes(decl, "name")
		if len(names) == 0 {
			params = append(params, symbol.Param{Type: typ})
			continue
		}
		for i := range names {
			params = append(params, symbol.Param{
				Name: names[i].Utf8Text(source),
				Type: typ,
			})
		}
	}
	return params
}
