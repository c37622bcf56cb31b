package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/codenav/internal/outline"
)

// Mermaid produces a Mermaid graph TD diagram of a file outline. The file is
// the root node; containment becomes arrows from parent to child.
func Mermaid(path string, forest []*outline.Node) string {
	// Mermaid IDs must be alphanumeric.
	nextID := 0
	newID := func() string {
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	fileID := newID()
	sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", fileID, escape(shortPath(path))))

	var emit func(parentID string, nodes []*outline.Node)
	emit = func(parentID string, nodes []*outline.Node) {
		for _, n := range nodes {
			id := newID()
			label := fmt.Sprintf("%s %.40s", n.Symbol.Kind, displayName(n))
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, escape(label)))
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", parentID, id))
			emit(id, n.Children)
		}
	}
	emit(fileID, forest)

	return sb.String()
}

// escape replaces characters that end a quoted Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
