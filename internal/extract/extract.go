// Package extract runs a language's query patterns over a syntax tree and
// flattens the matches into symbol records.
package extract

import (
	"fmt"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/lang"
	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// recordKey identifies one emitted record. A definition node matched by two
// patterns under the same name is reported once, with the earlier pattern's
// kind.
type recordKey struct {
	start, end uint
	name       string
}

// spanKey identifies a definition node by its byte range.
type spanKey struct {
	start, end uint
}

// Extract returns the symbols of tree in source order. path is recorded as
// each symbol's containing path. Matches without a resolvable name are kept
// with an empty name, unless the unnamed function is the direct value of a
// named callable definition (const f = () => ...), which already reports it.
// The only error is a pattern that fails to compile.
func Extract(tree *syntax.Tree, desc *lang.Descriptor, path string) ([]symbol.Record, error) {
	compiled, err := desc.Queries()
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	root := tree.Root()
	source := tree.Source()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	seen := make(map[recordKey]bool)
	named := make(map[spanKey]bool)
	var records []symbol.Record
	var owners []*spanKey

	for _, pattern := range compiled {
		matches := cursor.Matches(pattern.Query, root, source)
		for match := matches.Next(); match != nil; match = matches.Next() {
			var def *tree_sitter.Node
			var name string
			for _, capture := range match.Captures {
				switch {
				case capture.Index == uint32(pattern.Definition):
					node := capture.Node
					def = &node
				case pattern.HasName && capture.Index == uint32(pattern.Name):
					name = capture.Node.Utf8Text(source)
				}
			}
			if def == nil {
				continue
			}
			if pattern.Kind == symbol.KindImport {
				name = strings.Trim(name, "\"'`")
			}

			key := recordKey{start: def.StartByte(), end: def.EndByte(), name: name}
			if seen[key] {
				continue
			}
			seen[key] = true

			var owner *spanKey
			switch {
			case name != "" && pattern.Kind.IsCallable():
				named[spanKey{def.StartByte(), def.EndByte()}] = true
			case name == "":
				if parent := def.Parent(); parent != nil {
					owner = &spanKey{parent.StartByte(), parent.EndByte()}
				}
			}
			records = append(records, buildRecord(def, desc, source, path, pattern.Kind, name))
			owners = append(owners, owner)
		}
	}

	records = dropBoundAnonymous(records, owners, named)
	sortRecords(records)
	return records, nil
}

// dropBoundAnonymous removes unnamed records whose parent node is a named
// callable definition. owners is parallel to records.
func dropBoundAnonymous(records []symbol.Record, owners []*spanKey, named map[spanKey]bool) []symbol.Record {
	kept := records[:0]
	for i, rec := range records {
		if owner := owners[i]; owner != nil && named[*owner] {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func buildRecord(def *tree_sitter.Node, desc *lang.Descriptor, source []byte, path string, kind symbol.Kind, name string) symbol.Record {
	rec := symbol.Record{
		Name: name,
		Kind: kind,
		Span: lang.SpanOf(def),
		Path: path,
	}
	if kind != symbol.KindImport {
		rec.Doc = docComment(def, desc, source)
	}
	if kind.IsCallable() {
		rec.Signature = signatureText(def, desc, source)
	}
	return rec
}

// sortRecords orders records by span start, outer spans before inner spans
// that start at the same byte, and otherwise keeps extraction order.
func sortRecords(records []symbol.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Span, records[j].Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
}

// signatureText is the declaration header: everything from the start of the
// definition up to its body, whitespace collapsed and the body opener
// dropped.
func signatureText(def *tree_sitter.Node, desc *lang.Descriptor, source []byte) string {
	end := def.EndByte()
	if shape, ok := desc.Function(def, source); ok && shape.Body != nil {
		end = shape.Body.StartByte()
	}
	text := lang.CollapseWhitespace(string(source[def.StartByte():end]))
	for {
		trimmed := text
		for _, suffix := range []string{"{", "=>", ":", "="} {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
		}
		if trimmed == text {
			return text
		}
		text = trimmed
	}
}
