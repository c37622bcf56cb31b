package query

import (
	"github.com/dusk-indust/codenav/internal/outline"
	"github.com/dusk-indust/codenav/internal/symbol"
)

// SymbolsResult lists every symbol of one file in source order. Partial is
// set when the file had syntax errors; the symbols are then whatever the
// parser could recover.
type SymbolsResult struct {
	Path     string          `json:"path"`
	Language string          `json:"language"`
	Symbols  []symbol.Record `json:"symbols"`
	Errors   []symbol.Span   `json:"errors,omitempty"`
	Partial  bool            `json:"partial"`
}

// DefinitionResult is the outcome of a definition lookup. Found is false
// when no definition exists; that is not an error. When several files define
// the name, Definition is the first in path order and Ambiguous is set.
type DefinitionResult struct {
	Name       string          `json:"name"`
	Found      bool            `json:"found"`
	Definition *symbol.Record  `json:"definition,omitempty"`
	Candidates []symbol.Record `json:"candidates,omitempty"`
	Ambiguous  bool            `json:"ambiguous"`
}

// Reference is one textual occurrence of a name.
type Reference struct {
	Path   string      `json:"path"`
	Span   symbol.Span `json:"span"`
	Line   int         `json:"line"`
	Column int         `json:"column"`
	Text   string      `json:"text"`
}

// ReferencesResult lists occurrences ordered by path then offset.
type ReferencesResult struct {
	Name         string      `json:"name"`
	References   []Reference `json:"references"`
	FilesScanned int         `json:"filesScanned"`
}

// OutlineResult is the containment forest of one file.
type OutlineResult struct {
	Path    string          `json:"path"`
	Outline []*outline.Node `json:"outline"`
	Errors  []symbol.Span   `json:"errors,omitempty"`
	Partial bool            `json:"partial"`
}

// FunctionResult holds the structured signature of a function or method.
type FunctionResult struct {
	Path     string            `json:"path"`
	Name     string            `json:"name"`
	Found    bool              `json:"found"`
	Function *symbol.Signature `json:"function,omitempty"`
}

// ImportsResult lists the import targets of one file in source order.
type ImportsResult struct {
	Path    string          `json:"path"`
	Imports []string        `json:"imports"`
	Records []symbol.Record `json:"records"`
}
