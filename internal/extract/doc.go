package extract

import (
	"bytes"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/lang"
)

// docComment returns the comment block immediately preceding def. The block
// must be separated from the definition (or its decorations) by whitespace
// holding at most one line break, and a comment that trails code on its own
// line never counts. Languages with docstrings fall back to a leading string
// literal in the body.
func docComment(def *tree_sitter.Node, desc *lang.Descriptor, source []byte) string {
	anchor := liftDefinition(def, desc)

	next := anchor
	prev := anchor.PrevSibling()
	for prev != nil && desc.IsDecoration(prev.Kind()) {
		next = prev
		prev = prev.PrevSibling()
	}

	var block []string
	for prev != nil && desc.IsComment(prev.Kind()) {
		if !adjacent(source, prev.EndByte(), next.StartByte()) || trailsCode(source, prev.StartByte()) {
			break
		}
		block = append(block, prev.Utf8Text(source))
		next = prev
		prev = prev.PrevSibling()
	}

	if len(block) > 0 {
		// Collected bottom-up.
		for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
			block[i], block[j] = block[j], block[i]
		}
		return stripComment(strings.Join(block, "\n"))
	}

	if desc.UsesDocstrings() {
		return docstring(def, source)
	}
	return ""
}

// liftDefinition climbs from def through wrapper nodes (export statements,
// single-spec declarations, decorated definitions) so comments attached to
// the wrapper are found.
func liftDefinition(def *tree_sitter.Node, desc *lang.Descriptor) *tree_sitter.Node {
	anchor := def
	for {
		parent := anchor.Parent()
		if parent == nil || parent.Parent() == nil {
			return anchor
		}
		if !desc.LiftsThrough(parent.Kind(), parent.NamedChildCount() == 1) {
			return anchor
		}
		anchor = parent
	}
}

// adjacent reports whether source[from:to] is whitespace with at most one
// newline.
func adjacent(source []byte, from, to uint) bool {
	if from > to || int(to) > len(source) {
		return false
	}
	gap := source[from:to]
	if len(bytes.TrimSpace(gap)) != 0 {
		return false
	}
	return bytes.Count(gap, []byte{'\n'}) <= 1
}

// trailsCode reports whether anything other than whitespace precedes offset
// on its line.
func trailsCode(source []byte, offset uint) bool {
	lineStart := bytes.LastIndexByte(source[:offset], '\n') + 1
	return len(bytes.TrimSpace(source[lineStart:offset])) != 0
}

// stripComment removes comment markers line by line and trims the result.
func stripComment(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, "*/")
		for _, marker := range []string{"///", "//!", "//", "/**", "/*", "#", "*"} {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimPrefix(line, marker)
				break
			}
		}
		out = append(out, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// docstring returns the text of a string literal that opens def's body.
func docstring(def *tree_sitter.Node, source []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	text := str.Utf8Text(source)
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			text = text[len(quote) : len(text)-len(quote)]
			break
		}
	}
	return strings.TrimSpace(text)
}
