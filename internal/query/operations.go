package query

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dusk-indust/codenav/internal/extract"
	"github.com/dusk-indust/codenav/internal/outline"
	"github.com/dusk-indust/codenav/internal/symbol"
	"github.com/dusk-indust/codenav/internal/syntax"
)

// GetSymbols returns every symbol of path in source order. An unsupported
// file yields an error wrapping ErrUnsupported, which callers can tell apart
// from a supported file with no symbols.
func (e *Engine) GetSymbols(ctx context.Context, path string) (res SymbolsResult, err error) {
	ctx, finish := e.span(ctx, "get_symbols", attribute.String("path", path))
	defer finish(&err)

	f, err := e.describe(path)
	if err != nil {
		return SymbolsResult{}, err
	}
	ent, err := e.entry(ctx, f)
	if err != nil {
		return SymbolsResult{}, err
	}
	return SymbolsResult{
		Path:     f.rel,
		Language: string(f.desc.Language()),
		Symbols:  nonNil(ent.Symbols()),
		Errors:   ent.Errors(),
		Partial:  ent.Partial(),
	}, nil
}

// FindDefinition searches every supported file under scope (the root when
// empty) for a function, struct, enum, interface or method named exactly
// name. Candidates are ordered by path then offset; the first is returned as
// Definition.
func (e *Engine) FindDefinition(ctx context.Context, name, scope string) (res DefinitionResult, err error) {
	ctx, finish := e.span(ctx, "find_definition",
		attribute.String("name", name), attribute.String("scope", scope))
	defer finish(&err)

	res = DefinitionResult{Name: name}
	if name == "" {
		return res, nil
	}

	perFile, _, err := scan(ctx, e, scope, func(ctx context.Context, f sourceFile) ([]symbol.Record, bool, error) {
		ent, err := e.entry(ctx, f)
		if err != nil {
			return nil, false, err
		}
		var matches []symbol.Record
		for _, rec := range ent.Symbols() {
			if rec.Name == name && rec.Kind.IsDefinition() {
				matches = append(matches, rec)
			}
		}
		return matches, len(matches) > 0, nil
	})
	if err != nil {
		return res, err
	}

	for _, recs := range perFile {
		res.Candidates = append(res.Candidates, recs...)
	}
	sort.SliceStable(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Span.Start < b.Span.Start
	})
	if len(res.Candidates) > 0 {
		first := res.Candidates[0]
		res.Found = true
		res.Definition = &first
		res.Ambiguous = len(res.Candidates) > 1
	}
	return res, nil
}

// FindReferences lists identifier occurrences of name under scope, excluding
// the name positions of its definitions. Matching is lexical: there is no
// scope or type resolution, so unrelated symbols that share the name and
// shadowed locals are reported too.
func (e *Engine) FindReferences(ctx context.Context, name, scope string) (res ReferencesResult, err error) {
	ctx, finish := e.span(ctx, "find_references",
		attribute.String("name", name), attribute.String("scope", scope))
	defer finish(&err)

	res = ReferencesResult{Name: name, References: []Reference{}}
	if name == "" {
		return res, nil
	}
	needle := []byte(name)

	perFile, scanned, err := scan(ctx, e, scope, func(ctx context.Context, f sourceFile) ([]Reference, bool, error) {
		src, err := e.read(f)
		if err != nil {
			return nil, false, err
		}
		if !bytes.Contains(src.Content, needle) {
			return nil, false, nil
		}

		var refs []Reference
		err = e.viewSource(ctx, f, src, func(records []symbol.Record, tree *syntax.Tree) error {
			var defs []symbol.Record
			for _, rec := range records {
				if rec.Name == name {
					defs = append(defs, rec)
				}
			}
			spans := extract.References(tree, name, extract.DefinitionNameSpans(tree, defs))
			refs = locate(f.rel, tree.Source(), spans)
			return nil
		})
		return refs, len(refs) > 0, err
	})
	if err != nil {
		return res, err
	}

	res.FilesScanned = scanned
	for _, refs := range perFile {
		res.References = append(res.References, refs...)
	}
	// Walk order puts a/x.go before a.go; results are ordered by path string.
	sort.SliceStable(res.References, func(i, j int) bool {
		a, b := res.References[i], res.References[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Span.Start < b.Span.Start
	})
	return res, nil
}

// GetOutline nests the symbols of path by containment.
func (e *Engine) GetOutline(ctx context.Context, path string) (res OutlineResult, err error) {
	ctx, finish := e.span(ctx, "get_outline", attribute.String("path", path))
	defer finish(&err)

	f, err := e.describe(path)
	if err != nil {
		return OutlineResult{}, err
	}
	ent, err := e.entry(ctx, f)
	if err != nil {
		return OutlineResult{}, err
	}
	forest := outline.Build(ent.Symbols())
	if forest == nil {
		forest = []*outline.Node{}
	}
	return OutlineResult{
		Path:    f.rel,
		Outline: forest,
		Errors:  ent.Errors(),
		Partial: ent.Partial(),
	}, nil
}

// ParseFunction returns the parameters, return annotation and body span of
// the first function or method in path named name.
func (e *Engine) ParseFunction(ctx context.Context, path, name string) (res FunctionResult, err error) {
	ctx, finish := e.span(ctx, "parse_function",
		attribute.String("path", path), attribute.String("name", name))
	defer finish(&err)

	f, err := e.describe(path)
	if err != nil {
		return FunctionResult{}, err
	}
	res = FunctionResult{Path: f.rel, Name: name}

	err = e.view(ctx, f, func(records []symbol.Record, tree *syntax.Tree) error {
		for _, rec := range records {
			if rec.Name != name || !rec.Kind.IsCallable() {
				continue
			}
			if sig, ok := extract.Function(tree, rec); ok {
				res.Found = true
				res.Function = &sig
				return nil
			}
		}
		return nil
	})
	return res, err
}

// GetImports lists the import targets of path in source order.
func (e *Engine) GetImports(ctx context.Context, path string) (res ImportsResult, err error) {
	ctx, finish := e.span(ctx, "get_imports", attribute.String("path", path))
	defer finish(&err)

	f, err := e.describe(path)
	if err != nil {
		return ImportsResult{}, err
	}
	ent, err := e.entry(ctx, f)
	if err != nil {
		return ImportsResult{}, err
	}
	res = ImportsResult{Path: f.rel, Imports: []string{}, Records: []symbol.Record{}}
	for _, rec := range ent.Symbols() {
		if rec.Kind == symbol.KindImport {
			res.Imports = append(res.Imports, rec.Name)
			res.Records = append(res.Records, rec)
		}
	}
	return res, nil
}

// locate turns spans (in source order) into references with 1-based line
// and column numbers and the trimmed text of the line.
func locate(path string, source []byte, spans []symbol.Span) []Reference {
	refs := make([]Reference, 0, len(spans))
	line, lineStart, pos := 1, 0, 0
	for _, span := range spans {
		start := int(span.Start)
		for pos < start {
			if source[pos] == '\n' {
				line++
				lineStart = pos + 1
			}
			pos++
		}
		lineEnd := bytes.IndexByte(source[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(source)
		} else {
			lineEnd += lineStart
		}
		refs = append(refs, Reference{
			Path:   path,
			Span:   span,
			Line:   line,
			Column: start - lineStart + 1,
			Text:   strings.TrimSpace(string(source[lineStart:lineEnd])),
		})
	}
	return refs
}

func nonNil(recs []symbol.Record) []symbol.Record {
	if recs == nil {
		return []symbol.Record{}
	}
	return recs
}
