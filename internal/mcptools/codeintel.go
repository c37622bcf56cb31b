package mcptools

import (
	"github.com/dusk-indust/codenav/internal/query"
	"github.com/dusk-indust/codenav/internal/symbol"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.
//
// Every output carries Unsupported: it is set, with no other data, when the
// requested file has no registered language.

// GetSymbolsInput is the input for the get_symbols MCP tool.
type GetSymbolsInput struct {
	Path string `json:"path" jsonschema:"file path, absolute or relative to the server root"`
}

// GetSymbolsOutput is the result of the get_symbols MCP tool.
type GetSymbolsOutput struct {
	Path        string          `json:"path"`
	Language    string          `json:"language,omitempty"`
	Symbols     []symbol.Record `json:"symbols"`
	Errors      []symbol.Span   `json:"errors,omitempty"`
	Partial     bool            `json:"partial"`
	Unsupported bool            `json:"unsupported,omitempty"`
}

// FindDefinitionInput is the input for the find_definition MCP tool.
type FindDefinitionInput struct {
	Name  string `json:"name" jsonschema:"exact symbol name to look up"`
	Scope string `json:"scope,omitempty" jsonschema:"file or directory to search (default: the server root)"`
}

// FindDefinitionOutput is the result of the find_definition MCP tool.
type FindDefinitionOutput struct {
	Name        string          `json:"name"`
	Found       bool            `json:"found"`
	Definition  *symbol.Record  `json:"definition,omitempty"`
	Candidates  []symbol.Record `json:"candidates,omitempty"`
	Ambiguous   bool            `json:"ambiguous"`
	Unsupported bool            `json:"unsupported,omitempty"`
}

// FindReferencesInput is the input for the find_references MCP tool.
type FindReferencesInput struct {
	Name  string `json:"name" jsonschema:"identifier to search for (exact, lexical match)"`
	Scope string `json:"scope,omitempty" jsonschema:"file or directory to search (default: the server root)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of references returned (default: 200)"`
}

// FindReferencesOutput is the result of the find_references MCP tool.
type FindReferencesOutput struct {
	Name         string            `json:"name"`
	References   []query.Reference `json:"references"`
	Total        int               `json:"total"`
	Truncated    bool              `json:"truncated"`
	FilesScanned int               `json:"filesScanned"`
	Unsupported  bool              `json:"unsupported,omitempty"`
}

// GetOutlineInput is the input for the get_outline MCP tool.
type GetOutlineInput struct {
	Path string `json:"path" jsonschema:"file path, absolute or relative to the server root"`
}

// OutlineEntry is one outline node in depth-first order. Parent is the index
// of the enclosing entry, or -1 for top-level symbols.
type OutlineEntry struct {
	Name      string      `json:"name"`
	Kind      symbol.Kind `json:"kind"`
	Span      symbol.Span `json:"span"`
	Signature string      `json:"signature,omitempty"`
	Depth     int         `json:"depth"`
	Parent    int         `json:"parent"`
}

// GetOutlineOutput is the result of the get_outline MCP tool.
type GetOutlineOutput struct {
	Path        string         `json:"path"`
	Entries     []OutlineEntry `json:"entries"`
	Errors      []symbol.Span  `json:"errors,omitempty"`
	Partial     bool           `json:"partial"`
	Unsupported bool           `json:"unsupported,omitempty"`
}

// ParseFunctionInput is the input for the parse_function MCP tool.
type ParseFunctionInput struct {
	Path string `json:"path" jsonschema:"file path, absolute or relative to the server root"`
	Name string `json:"name" jsonschema:"function or method name"`
}

// ParseFunctionOutput is the result of the parse_function MCP tool.
type ParseFunctionOutput struct {
	Path        string            `json:"path"`
	Name        string            `json:"name"`
	Found       bool              `json:"found"`
	Function    *symbol.Signature `json:"function,omitempty"`
	Unsupported bool              `json:"unsupported,omitempty"`
}

// GetImportsInput is the input for the get_imports MCP tool.
type GetImportsInput struct {
	Path string `json:"path" jsonschema:"file path, absolute or relative to the server root"`
}

// GetImportsOutput is the result of the get_imports MCP tool.
type GetImportsOutput struct {
	Path        string   `json:"path"`
	Imports     []string `json:"imports"`
	Unsupported bool     `json:"unsupported,omitempty"`
}
