// Package symbol defines the records produced by symbol extraction and
// consumed by the navigation queries.
package symbol

// --- Enums ---

// Kind classifies an extracted symbol.
type Kind string

const (
	KindFunction  Kind = "function"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindInterface Kind = "interface"
	KindMethod    Kind = "method"
	KindImport    Kind = "import"
	KindVariable  Kind = "variable"
)

// Kinds lists every symbol kind in declaration order.
var Kinds = []Kind{
	KindFunction, KindStruct, KindEnum, KindInterface,
	KindMethod, KindImport, KindVariable,
}

// IsDefinition reports whether records of this kind define a named entity
// that find_definition may return. Imports and variables do not qualify.
func (k Kind) IsDefinition() bool {
	switch k {
	case KindFunction, KindStruct, KindEnum, KindInterface, KindMethod:
		return true
	}
	return false
}

// IsCallable reports whether the kind carries a parameter list.
func (k Kind) IsCallable() bool {
	return k == KindFunction || k == KindMethod
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// --- Models ---

// Span is a half-open byte range [Start, End) in a source file.
type Span struct {
	Start uint `json:"start"`
	End   uint `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether o lies entirely within s. A span contains itself.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Within reports whether the span fits inside a file of size n bytes.
func (s Span) Within(n int) bool {
	return s.Start <= s.End && s.End <= uint(n)
}

// Record is one extracted symbol. Signature and Doc are empty when absent.
type Record struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Span      Span   `json:"span"`
	Path      string `json:"path"`
	Signature string `json:"signature,omitempty"`
	Doc       string `json:"doc,omitempty"`
}

// Param is one entry of a function parameter list. Type is empty for
// untyped languages or when the grammar does not annotate it.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Signature is the structured shape of a function or method re-derived from
// its syntax node.
type Signature struct {
	Name       string  `json:"name"`
	Kind       Kind    `json:"kind"`
	Params     []Param `json:"params"`
	ReturnType string  `json:"returnType,omitempty"`
	Doc        string  `json:"doc,omitempty"`
	Span       Span    `json:"span"`
	Body       Span    `json:"body"`
}
