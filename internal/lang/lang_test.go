package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codenav/internal/symbol"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		path string
		want Language
	}{
		{"main.go", LangGo},
		{"pkg/sub/model.go", LangGo},
		{"app.py", LangPython},
		{"stubs.pyi", LangPython},
		{"lib.rs", LangRust},
		{"index.ts", LangTypeScript},
		{"view.tsx", LangTSX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Language())
			assert.True(t, r.Supports(tt.path))
		})
	}
}

func TestRegistry_ResolveUnsupported(t *testing.T) {
	r := NewRegistry()

	for _, path := range []string{"README.md", "Makefile", "main.GO", "archive.tar.gz"} {
		t.Run(path, func(t *testing.T) {
			d, err := r.Resolve(path)
			assert.Nil(t, d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported), "got %v", err)
			assert.False(t, r.Supports(path))
		})
	}
}

func TestRegistry_Languages(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t,
		[]Language{LangGo, LangPython, LangRust, LangTSX, LangTypeScript},
		r.Languages())
	assert.Contains(t, r.Extensions(), ".go")
	assert.Contains(t, r.Extensions(), ".tsx")
}

func TestRegistry_WithOverrides(t *testing.T) {
	base := NewRegistry()

	r, err := base.WithOverrides(map[string][]string{
		"python": {".py3"},
		"rust":   {},
	})
	require.NoError(t, err)

	d, err := r.Resolve("script.py3")
	require.NoError(t, err)
	assert.Equal(t, LangPython, d.Language())

	_, err = r.Resolve("script.py")
	assert.ErrorIs(t, err, ErrUnsupported, "old python extension is replaced")

	_, err = r.Resolve("lib.rs")
	assert.ErrorIs(t, err, ErrUnsupported, "rust is disabled")
	_, ok := r.Get(LangRust)
	assert.False(t, ok)

	// The receiver is untouched.
	_, err = base.Resolve("script.py")
	assert.NoError(t, err)

	_, err = base.WithOverrides(map[string][]string{"cobol": {".cbl"}})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDescriptor_QueriesCompile(t *testing.T) {
	r := NewRegistry()

	for _, l := range r.Languages() {
		t.Run(string(l), func(t *testing.T) {
			d, ok := r.Get(l)
			require.True(t, ok)

			compiled, err := d.Queries()
			require.NoError(t, err)
			require.Len(t, compiled, len(d.Patterns()))

			seen := make(map[symbol.Kind]bool)
			for _, c := range compiled {
				assert.NotNil(t, c.Query)
				assert.True(t, c.Kind.Valid())
				seen[c.Kind] = true
			}
			assert.True(t, seen[symbol.KindFunction], "every language extracts functions")
			assert.True(t, seen[symbol.KindImport], "every language extracts imports")

			// Compilation happens once.
			again, err := d.Queries()
			require.NoError(t, err)
			assert.Equal(t, compiled[0].Query, again[0].Query)
		})
	}
}

func TestDescriptor_LiftsThrough(t *testing.T) {
	r := NewRegistry()

	goDesc, _ := r.Get(LangGo)
	assert.True(t, goDesc.LiftsThrough("type_declaration", true))
	assert.False(t, goDesc.LiftsThrough("type_declaration", false), "grouped type specs keep their own docs")
	assert.False(t, goDesc.LiftsThrough("source_file", true))

	pyDesc, _ := r.Get(LangPython)
	assert.True(t, pyDesc.LiftsThrough("decorated_definition", false))
	assert.True(t, pyDesc.UsesDocstrings())

	rsDesc, _ := r.Get(LangRust)
	assert.True(t, rsDesc.IsComment("line_comment"))
	assert.True(t, rsDesc.IsDecoration("attribute_item"))
	assert.False(t, rsDesc.IsIdentifier("string_literal"))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "(a int, b string)", CollapseWhitespace("(a int,\n\t b   string)"))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
