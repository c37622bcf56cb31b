package lang

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/symbol"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NodeText returns the source text covered by node, or "" for nil.
func NodeText(node *tree_sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(source)
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// SpanOf returns the byte span of node.
func SpanOf(node *tree_sitter.Node) symbol.Span {
	if node == nil {
		return symbol.Span{}
	}
	return symbol.Span{Start: node.StartByte(), End: node.EndByte()}
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *tree_sitter.Node) []*tree_sitter.Node {
	if node == nil {
		return nil
	}
	count := node.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || strings.HasSuffix(child.Kind(), "comment") {
			continue
		}
		out = append(out, child)
	}
	return out
}

// fieldNodes returns every child of node stored under field.
func fieldNodes(node *tree_sitter.Node, field string) []tree_sitter.Node {
	cursor := node.Walk()
	defer cursor.Close()
	return node.ChildrenByFieldName(field, cursor)
}

// typeAnnotation strips the leading colon TypeScript keeps in
// type_annotation nodes.
func typeAnnotation(node *tree_sitter.Node, source []byte) string {
	text := CollapseWhitespace(NodeText(node, source))
	return strings.TrimSpace(strings.TrimPrefix(text, ":"))
}
