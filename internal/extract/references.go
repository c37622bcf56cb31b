package extract

import (
	"bytes"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/lang"
	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// References returns the spans of identifier leaves whose text equals name,
// in source order. Matching is lexical: no scope or binding analysis is done,
// so shadowed names and unrelated symbols of the same name are included.
// Spans listed in exclude (definition name positions) are skipped.
func References(tree *syntax.Tree, name string, exclude map[symbol.Span]bool) []symbol.Span {
	if name == "" {
		return nil
	}
	desc := tree.Language()
	source := tree.Source()
	want := []byte(name)

	var spans []symbol.Span
	cursor := tree.Root().Walk()
	defer cursor.Close()

	for {
		node := cursor.Node()
		if node.ChildCount() == 0 && desc.IsIdentifier(node.Kind()) &&
			node.EndByte()-node.StartByte() == uint(len(want)) &&
			bytes.Equal(source[node.StartByte():node.EndByte()], want) {
			span := lang.SpanOf(node)
			if !exclude[span] {
				spans = append(spans, span)
			}
		}

		if cursor.GotoFirstChild() || cursor.GotoNextSibling() {
			continue
		}
		for {
			if !cursor.GotoParent() {
				return spans
			}
			if cursor.GotoNextSibling() {
				break
			}
		}
	}
}

// DefinitionNameSpans returns the span of the name node of every record in
// records that has one, keyed for use as a References exclude set.
func DefinitionNameSpans(tree *syntax.Tree, records []symbol.Record) map[symbol.Span]bool {
	out := make(map[symbol.Span]bool)
	root := tree.Root()
	source := tree.Source()
	for _, rec := range records {
		if !rec.Kind.IsDefinition() || rec.Name == "" {
			continue
		}
		def := root.DescendantForByteRange(rec.Span.Start, rec.Span.End)
		if def == nil {
			continue
		}
		if nameNode := findName(def, rec.Name, source); nameNode != nil {
			out[lang.SpanOf(nameNode)] = true
		}
	}
	return out
}

// findName returns the first descendant of node (breadth first over named
// children, at most two levels deep) whose text equals name.
func findName(node *tree_sitter.Node, name string, source []byte) *tree_sitter.Node {
	if n := node.ChildByFieldName("name"); n != nil && n.Utf8Text(source) == name {
		return n
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if n := child.ChildByFieldName("name"); n != nil && n.Utf8Text(source) == name {
			return n
		}
	}
	return nil
}

// Function re-derives the structured signature of a callable record from
// the tree it was extracted from. ok is false when no function node covers
// the record span.
func Function(tree *syntax.Tree, rec symbol.Record) (symbol.Signature, bool) {
	if !rec.Kind.IsCallable() {
		return symbol.Signature{}, false
	}
	desc := tree.Language()
	source := tree.Source()

	node := tree.Root().DescendantForByteRange(rec.Span.Start, rec.Span.End)
	for node != nil && lang.SpanOf(node) == rec.Span {
		if shape, ok := desc.Function(node, source); ok {
			sig := symbol.Signature{
				Name:       rec.Name,
				Kind:       rec.Kind,
				Params:     shape.Params,
				ReturnType: shape.ReturnType,
				Doc:        rec.Doc,
				Span:       rec.Span,
				Body:       lang.SpanOf(shape.Body),
			}
			if sig.Params == nil {
				sig.Params = []symbol.Param{}
			}
			return sig, true
		}
		node = node.Parent()
	}
	return symbol.Signature{}, false
}
