// Package lang is the language registry: a fixed table mapping file
// extensions to tree-sitter grammars and the query patterns that extract
// symbols from them.
package lang

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/codenav/internal/symbol"
)

// ErrUnsupported is returned when no grammar is registered for a file.
var ErrUnsupported = errors.New("unsupported language")

// Language identifies one supported grammar.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// Capture names every pattern uses. @definition marks the node whose span
// becomes the record span; @name is optional and resolves the record name.
const (
	CaptureDefinition = "definition"
	CaptureName       = "name"
)

// Pattern is one named extraction pattern: a tree-sitter query whose matches
// all produce records of Kind.
type Pattern struct {
	Kind  symbol.Kind
	Query string
}

// CompiledPattern is a Pattern compiled against its grammar. Compiled
// queries are immutable and safe to share between goroutines.
type CompiledPattern struct {
	Kind       symbol.Kind
	Query      *tree_sitter.Query
	Definition uint
	Name       uint
	HasName    bool
}

// FunctionShape is the language-specific breakdown of a function node.
type FunctionShape struct {
	Params     []symbol.Param
	ReturnType string
	Body       *tree_sitter.Node
}

type shapeFunc func(node *tree_sitter.Node, source []byte) (FunctionShape, bool)

// Descriptor describes one language. It is built once by the registry and
// never mutated afterwards.
type Descriptor struct {
	lang       Language
	extensions []string
	grammar    *tree_sitter.Language
	patterns   []Pattern

	comments    map[string]bool
	identifiers map[string]bool
	decorations map[string]bool
	// wrappers maps a parent node kind to whether a definition lifts through
	// it even when it has named siblings.
	wrappers   map[string]bool
	docstrings bool
	shape      shapeFunc

	compiled *querySet
}

type querySet struct {
	once     sync.Once
	patterns []CompiledPattern
	err      error
}

// Language returns the descriptor's language tag.
func (d *Descriptor) Language() Language { return d.lang }

// Grammar returns the tree-sitter grammar handle.
func (d *Descriptor) Grammar() *tree_sitter.Language { return d.grammar }

// Extensions returns a copy of the extensions mapped to this language.
func (d *Descriptor) Extensions() []string {
	return append([]string(nil), d.extensions...)
}

// Patterns returns a copy of the ordered extraction patterns.
func (d *Descriptor) Patterns() []Pattern {
	return append([]Pattern(nil), d.patterns...)
}

// IsComment reports whether nodes of kind are comments.
func (d *Descriptor) IsComment(kind string) bool { return d.comments[kind] }

// IsIdentifier reports whether leaf nodes of kind count as name references.
func (d *Descriptor) IsIdentifier(kind string) bool { return d.identifiers[kind] }

// IsDecoration reports whether a sibling of kind may sit between a doc
// comment and the definition it documents (attributes, annotations).
func (d *Descriptor) IsDecoration(kind string) bool { return d.decorations[kind] }

// LiftsThrough reports whether a definition whose parent has the given kind
// should take the parent's position for doc comment lookup.
func (d *Descriptor) LiftsThrough(parentKind string, soleChild bool) bool {
	always, ok := d.wrappers[parentKind]
	if !ok {
		return false
	}
	return always || soleChild
}

// UsesDocstrings reports whether a leading string in a body is documentation.
func (d *Descriptor) UsesDocstrings() bool { return d.docstrings }

// Function breaks a function-like node into parameters, return annotation and
// body. ok is false when the node is not a function in this language.
func (d *Descriptor) Function(node *tree_sitter.Node, source []byte) (FunctionShape, bool) {
	if d.shape == nil || node == nil {
		return FunctionShape{}, false
	}
	return d.shape(node, source)
}

// Queries compiles the descriptor's patterns on first use.
func (d *Descriptor) Queries() ([]CompiledPattern, error) {
	d.compiled.once.Do(func() {
		d.compiled.patterns, d.compiled.err = compilePatterns(d.grammar, d.patterns)
	})
	return d.compiled.patterns, d.compiled.err
}

func compilePatterns(grammar *tree_sitter.Language, patterns []Pattern) ([]CompiledPattern, error) {
	out := make([]CompiledPattern, 0, len(patterns))
	for i, p := range patterns {
		q, qErr := tree_sitter.NewQuery(grammar, p.Query)
		if qErr != nil {
			for _, c := range out {
				c.Query.Close()
			}
			return nil, fmt.Errorf("compile %s pattern %d: %s", p.Kind, i, qErr.Error())
		}
		def, ok := q.CaptureIndexForName(CaptureDefinition)
		if !ok {
			q.Close()
			for _, c := range out {
				c.Query.Close()
			}
			return nil, fmt.Errorf("%s pattern %d has no @%s capture", p.Kind, i, CaptureDefinition)
		}
		name, hasName := q.CaptureIndexForName(CaptureName)
		out = append(out, CompiledPattern{
			Kind:       p.Kind,
			Query:      q,
			Definition: def,
			Name:       name,
			HasName:    hasName,
		})
	}
	return out, nil
}

func set(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// --- Registry ---

// Registry resolves file paths to language descriptors.
type Registry struct {
	descriptors map[Language]*Descriptor
	byExt       map[string]*Descriptor
}

// builtins lists every compiled-in language in registration order.
var builtins = []func() *Descriptor{
	goDescriptor,
	pythonDescriptor,
	rustDescriptor,
	typescriptDescriptor,
	tsxDescriptor,
}

// NewRegistry creates a Registry with every built-in language enabled.
func NewRegistry() *Registry {
	descs := make([]*Descriptor, 0, len(builtins))
	for _, build := range builtins {
		descs = append(descs, build())
	}
	return newRegistry(descs)
}

func newRegistry(descs []*Descriptor) *Registry {
	r := &Registry{
		descriptors: make(map[Language]*Descriptor, len(descs)),
		byExt:       make(map[string]*Descriptor),
	}
	for _, d := range descs {
		r.descriptors[d.lang] = d
		for _, ext := range d.extensions {
			r.byExt[ext] = d
		}
	}
	return r
}

// WithOverrides returns a new Registry whose extension table is replaced for
// each language named in overrides. An empty extension list disables the
// language. Compiled queries are shared with the receiver.
func (r *Registry) WithOverrides(overrides map[string][]string) (*Registry, error) {
	for name := range overrides {
		if _, ok := r.descriptors[Language(name)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
		}
	}

	descs := make([]*Descriptor, 0, len(r.descriptors))
	for _, lang := range r.Languages() {
		d := r.descriptors[lang]
		exts, ok := overrides[string(lang)]
		if !ok {
			descs = append(descs, d)
			continue
		}
		if len(exts) == 0 {
			continue
		}
		clone := *d
		clone.extensions = append([]string(nil), exts...)
		descs = append(descs, &clone)
	}
	return newRegistry(descs), nil
}

// Resolve returns the descriptor for path by exact extension match. Unknown
// extensions yield an error wrapping ErrUnsupported.
func (r *Registry) Resolve(path string) (*Descriptor, error) {
	ext := filepath.Ext(path)
	if d, ok := r.byExt[ext]; ok {
		return d, nil
	}
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupported, filepath.Base(path))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
}

// Supports reports whether Resolve would succeed for path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[filepath.Ext(path)]
	return ok
}

// Get returns the descriptor registered for lang.
func (r *Registry) Get(lang Language) (*Descriptor, bool) {
	d, ok := r.descriptors[lang]
	return d, ok
}

// Languages returns the enabled languages in sorted order.
func (r *Registry) Languages() []Language {
	langs := make([]Language, 0, len(r.descriptors))
	for l := range r.descriptors {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Extensions returns every mapped extension in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
