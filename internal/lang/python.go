package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/dusk-indust/codenav/internal/symbol"
)

// Python classes are reported as structs. Methods are listed before
// functions so a function_definition inside a class body keeps the method
// kind. Lambdas are anonymous functions.
func pythonDescriptor() *Descriptor {
	return &Descriptor{
		lang:       LangPython,
		extensions: []string{".py", ".pyi"},
		grammar:    tree_sitter.NewLanguage(tree_sitter_python.Language()),
		patterns: []Pattern{
			{Kind: symbol.KindMethod, Query: `
(class_definition body: (block (function_definition name: (identifier) @name) @definition))
(class_definition body: (block (decorated_definition definition: (function_definition name: (identifier) @name) @definition)))`},
			{Kind: symbol.KindFunction, Query: `
(function_definition name: (identifier) @name) @definition
(lambda) @definition`},
			{Kind: symbol.KindStruct, Query: `
(class_definition name: (identifier) @name) @definition`},
			{Kind: symbol.KindImport, Query: `
(import_statement name: (dotted_name) @name) @definition
(import_statement name: (aliased_import name: (dotted_name) @name)) @definition
(import_from_statement module_name: (_) @name) @definition`},
			{Kind: symbol.KindVariable, Query: `
(module (expression_statement (assignment left: (identifier) @name) @definition))`},
		},
		comments:    set("comment"),
		identifiers: set("identifier"),
		decorations: set(),
		wrappers: map[string]bool{
			"decorated_definition": true,
			"expression_statement": false,
		},
		docstrings: true,
		shape:      pythonFunctionShape,
		compiled:   &querySet{},
	}
}

func pythonFunctionShape(node *tree_sitter.Node, source []byte) (FunctionShape, bool) {
	switch node.Kind() {
	case "function_definition":
	case "lambda":
		// lambda x, y=1: body
		return FunctionShape{
			Params: pythonParams(node.ChildByFieldName("parameters"), source),
			Body:   node.ChildByFieldName("body"),
		}, true
	default:
		return FunctionShape{}, false
	}

	shape := FunctionShape{
		Params: pythonParams(node.ChildByFieldName("parameters"), source),
		Body:   node.ChildByFieldName("body"),
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		shape.ReturnType = CollapseWhitespace(NodeText(ret, source))
	}
	return shape, true
}

func pythonParams(list *tree_sitter.Node, source []byte) []symbol.Param {
	params := []symbol.Param{}
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, symbol.Param{Name: NodeText(p, source)})
		case "typed_parameter":
			// The name is the first named child; it may be a splat pattern.
			var name string
			if first := p.NamedChild(0); first != nil {
				name = NodeText(first, source)
			}
			params = append(params, symbol.Param{
				Name: name,
				Type: CollapseWhitespace(NodeText(p.ChildByFieldName("type"), source)),
			})
		case "default_parameter", "typed_default_parameter":
			params = append(params, symbol.Param{
				Name: NodeText(p.ChildByFieldName("name"), source),
				Type: CollapseWhitespace(NodeText(p.ChildByFieldName("type"), source)),
			})
		}
	}
	return params
}
