// Package export renders outlines for terminal and diagram output.
package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/codenav/internal/outline"
)

// Text renders an outline as an indented tree, one symbol per line:
//
//	struct Circle  [12:140]
//	  method area  [80:140]
func Text(forest []*outline.Node) string {
	var sb strings.Builder
	outline.Walk(forest, func(n *outline.Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(fmt.Sprintf("%s %s  [%d:%d]", n.Symbol.Kind, displayName(n), n.Symbol.Span.Start, n.Symbol.Span.End))
		if n.Symbol.Signature != "" && n.Symbol.Kind.IsCallable() {
			sb.WriteString("  " + n.Symbol.Signature)
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

func displayName(n *outline.Node) string {
	if n.Symbol.Name == "" {
		return "<anonymous>"
	}
	return n.Symbol.Name
}
