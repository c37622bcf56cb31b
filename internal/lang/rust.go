package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/dusk-indust/codenav/internal/symbol"
)

// Traits are reported as interfaces. Functions inside impl and trait bodies
// are methods.
func rustDescriptor() *Descriptor {
	return &Descriptor{
		lang:       LangRust,
		extensions: []string{".rs"},
		grammar:    tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		patterns: []Pattern{
			{Kind: symbol.KindMethod, Query: `
(impl_item body: (declaration_list (function_item name: (identifier) @name) @definition))
(trait_item body: (declaration_list (function_item name: (identifier) @name) @definition))
(trait_item body: (declaration_list (function_signature_item name: (identifier) @name) @definition))`},
			{Kind: symbol.KindFunction, Query: `
(function_item name: (identifier) @name) @definition
(closure_expression) @definition`},
			{Kind: symbol.KindStruct, Query: `
(struct_item name: (_) @name) @definition`},
			{Kind: symbol.KindEnum, Query: `
(enum_item name: (_) @name) @definition`},
			{Kind: symbol.KindInterface, Query: `
(trait_item name: (_) @name) @definition`},
			{Kind: symbol.KindImport, Query: `
(use_declaration argument: (_) @name) @definition`},
			{Kind: symbol.KindVariable, Query: `
(const_item name: (identifier) @name) @definition
(static_item name: (identifier) @name) @definition`},
		},
		comments:    set("line_comment", "block_comment"),
		identifiers: set("identifier", "type_identifier", "field_identifier"),
		decorations: set("attribute_item"),
		wrappers:    map[string]bool{},
		shape:       rustFunctionShape,
		compiled:    &querySet{},
	}
}

func rustFunctionShape(node *tree_sitter.Node, source []byte) (FunctionShape, bool) {
	switch node.Kind() {
	case "function_item", "function_signature_item", "closure_expression":
	default:
		return FunctionShape{}, false
	}

	shape := FunctionShape{
		Params: rustParams(node.ChildByFieldName("parameters"), source),
		Body:   node.ChildByFieldName("body"),
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		shape.ReturnType = CollapseWhitespace(NodeText(ret, source))
	}
	return shape, true
}

func rustParams(list *tree_sitter.Node, source []byte) []symbol.Param {
	params := []symbol.Param{}
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "parameter":
			params = append(params, symbol.Param{
				Name: CollapseWhitespace(NodeText(p.ChildByFieldName("pattern"), source)),
				Type: CollapseWhitespace(NodeText(p.ChildByFieldName("type"), source)),
			})
		case "self_parameter":
			params = append(params, symbol.Param{Name: CollapseWhitespace(NodeText(p, source))})
		case "attribute_item":
		case "identifier":
			// closure parameters without annotations
			params = append(params, symbol.Param{Name: NodeText(p, source)})
		default:
			params = append(params, symbol.Param{Type: CollapseWhitespace(NodeText(p, source))})
		}
	}
	return params
}
