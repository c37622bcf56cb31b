// Package outline nests a file's symbol records into a containment forest.
package outline

import (
	"sort"

	"github.com/dusk-indust/codenav/internal/symbol"
)

// Node is one symbol and the symbols whose spans it strictly contains.
type Node struct {
	Symbol   symbol.Record `json:"symbol"`
	Children []*Node       `json:"children,omitempty"`
}

// Build nests records by span containment. Each record becomes a child of
// the narrowest preceding record whose span contains it, or a root when
// there is none. When two records have identical spans the one listed first
// is the parent. Every level is in source order.
func Build(records []symbol.Record) []*Node {
	sorted := make([]symbol.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	var roots []*Node
	var stack []*Node
	for _, rec := range sorted {
		node := &Node{Symbol: rec}
		for len(stack) > 0 && !stack[len(stack)-1].Symbol.Span.Contains(rec.Span) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// Walk visits nodes depth first in source order. depth is 0 for roots.
// Returning false from fn skips the node's children.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	var visit func(ns []*Node, depth int)
	visit = func(ns []*Node, depth int) {
		for _, n := range ns {
			if fn(n, depth) {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(nodes, 0)
}

// Count returns the number of nodes in the forest.
func Count(nodes []*Node) int {
	total := 0
	Walk(nodes, func(*Node, int) bool {
		total++
		return true
	})
	return total
}
