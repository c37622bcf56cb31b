// Package syntax turns source bytes into tree-sitter syntax trees and
// enumerates the regions the grammar could not parse.
package syntax

import (
	"fmt"
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/lang"
	"github.com/dusk-indust/codenav/internal/symbol"
)

// Tree is a parse result. It owns the underlying C tree and must be closed
// by whoever holds it; in the navigation engine that is always a cache entry.
type Tree struct {
	tree   *tree_sitter.Tree
	source []byte
	lang   *lang.Descriptor
	errors []symbol.Span
}

// Parse parses content with the descriptor's grammar. It performs no I/O and
// never fails on malformed input: broken regions are reported by Errors and
// the recovered structure is still available. An error is returned only when
// the grammar cannot be loaded.
func Parse(content []byte, desc *lang.Descriptor) (*Tree, error) {
	if desc == nil {
		return nil, fmt.Errorf("parse: %w", lang.ErrUnsupported)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(desc.Grammar()); err != nil {
		return nil, fmt.Errorf("set language %s: %w", desc.Language(), err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", desc.Language())
	}

	return &Tree{
		tree:   tree,
		source: content,
		lang:   desc,
		errors: collectErrors(tree.RootNode()),
	}, nil
}

// Root returns the root node. The node is only valid until Close.
func (t *Tree) Root() *tree_sitter.Node {
	return t.tree.RootNode()
}

// Source returns the bytes the tree was parsed from. Callers must not modify
// the slice.
func (t *Tree) Source() []byte {
	return t.source
}

// Language returns the descriptor the tree was parsed with.
func (t *Tree) Language() *lang.Descriptor {
	return t.lang
}

// Errors returns a copy of the syntax error spans in source order. An empty
// result means a clean parse.
func (t *Tree) Errors() []symbol.Span {
	return append([]symbol.Span(nil), t.errors...)
}

// Partial reports whether the tree contains recovered syntax errors.
func (t *Tree) Partial() bool {
	return len(t.errors) > 0
}

// Close releases the C tree. It is safe to call more than once.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// collectErrors walks the tree and records every ERROR node and, for MISSING
// nodes, the span of the construct the grammar had to complete. ERROR nodes
// are not descended into. Subtrees without errors are skipped entirely.
func collectErrors(root *tree_sitter.Node) []symbol.Span {
	if root == nil || !root.HasError() {
		return nil
	}

	seen := make(map[symbol.Span]bool)
	var spans []symbol.Span
	add := func(s symbol.Span) {
		if !seen[s] {
			seen[s] = true
			spans = append(spans, s)
		}
	}

	var walk func(node *tree_sitter.Node)
	walk = func(node *tree_sitter.Node) {
		switch {
		case node.IsError():
			add(lang.SpanOf(node))
			return
		case node.IsMissing():
			region := node
			if parent := node.Parent(); parent != nil {
				region = parent
			}
			add(lang.SpanOf(region))
			return
		case !node.HasError():
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans
}
