package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/dusk-indust/codenav/internal/logging"
	"github.com/dusk-indust/codenav/internal/outline"
	"github.com/dusk-indust/codenav/internal/query"
)

const defaultReferenceLimit = 200

// NavService adapts the query engine to MCP tool handlers.
type NavService struct {
	engine *query.Engine
	logger *logrus.Logger
}

// NewNavService creates a NavService answering from engine.
func NewNavService(engine *query.Engine, logger *logrus.Logger) *NavService {
	return &NavService{engine: engine, logger: logging.OrDiscard(logger)}
}

// unsupported reports whether err is the missing-language signal, logging it
// so operators can see which files clients ask about.
func (s *NavService) unsupported(tool string, err error) bool {
	if !errors.Is(err, query.ErrUnsupported) {
		return false
	}
	s.logger.WithField("tool", tool).WithError(err).Debug("unsupported file")
	return true
}

// GetSymbols lists every symbol of a file in source order.
func (s *NavService) GetSymbols(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSymbolsInput,
) (*mcp.CallToolResult, GetSymbolsOutput, error) {
	if input.Path == "" {
		return nil, GetSymbolsOutput{}, fmt.Errorf("path is required")
	}

	res, err := s.engine.GetSymbols(ctx, input.Path)
	if s.unsupported("get_symbols", err) {
		return nil, GetSymbolsOutput{Path: input.Path, Unsupported: true}, nil
	}
	if err != nil {
		return nil, GetSymbolsOutput{}, err
	}
	return nil, GetSymbolsOutput{
		Path:     res.Path,
		Language: res.Language,
		Symbols:  res.Symbols,
		Errors:   res.Errors,
		Partial:  res.Partial,
	}, nil
}

// FindDefinition locates the definition of a name under a scope.
func (s *NavService) FindDefinition(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindDefinitionInput,
) (*mcp.CallToolResult, FindDefinitionOutput, error) {
	if input.Name == "" {
		return nil, FindDefinitionOutput{}, fmt.Errorf("name is required")
	}

	res, err := s.engine.FindDefinition(ctx, input.Name, input.Scope)
	if s.unsupported("find_definition", err) {
		return nil, FindDefinitionOutput{Name: input.Name, Unsupported: true}, nil
	}
	if err != nil {
		return nil, FindDefinitionOutput{}, err
	}
	return nil, FindDefinitionOutput{
		Name:       res.Name,
		Found:      res.Found,
		Definition: res.Definition,
		Candidates: res.Candidates,
		Ambiguous:  res.Ambiguous,
	}, nil
}

// FindReferences lists lexical occurrences of a name under a scope.
func (s *NavService) FindReferences(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindReferencesInput,
) (*mcp.CallToolResult, FindReferencesOutput, error) {
	if input.Name == "" {
		return nil, FindReferencesOutput{}, fmt.Errorf("name is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultReferenceLimit
	}

	res, err := s.engine.FindReferences(ctx, input.Name, input.Scope)
	if s.unsupported("find_references", err) {
		return nil, FindReferencesOutput{Name: input.Name, Unsupported: true}, nil
	}
	if err != nil {
		return nil, FindReferencesOutput{}, err
	}

	out := FindReferencesOutput{
		Name:         res.Name,
		References:   res.References,
		Total:        len(res.References),
		FilesScanned: res.FilesScanned,
	}
	if len(out.References) > limit {
		out.References = out.References[:limit]
		out.Truncated = true
	}
	return nil, out, nil
}

// GetOutline returns a file's symbols nested by containment, flattened in
// depth-first order.
func (s *NavService) GetOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetOutlineInput,
) (*mcp.CallToolResult, GetOutlineOutput, error) {
	if input.Path == "" {
		return nil, GetOutlineOutput{}, fmt.Errorf("path is required")
	}

	res, err := s.engine.GetOutline(ctx, input.Path)
	if s.unsupported("get_outline", err) {
		return nil, GetOutlineOutput{Path: input.Path, Unsupported: true}, nil
	}
	if err != nil {
		return nil, GetOutlineOutput{}, err
	}
	return nil, GetOutlineOutput{
		Path:    res.Path,
		Entries: flattenOutline(res.Outline),
		Errors:  res.Errors,
		Partial: res.Partial,
	}, nil
}

// flattenOutline lists the forest depth first, recording each node's parent
// index.
func flattenOutline(forest []*outline.Node) []OutlineEntry {
	entries := make([]OutlineEntry, 0, outline.Count(forest))
	parents := []int{}
	outline.Walk(forest, func(n *outline.Node, depth int) bool {
		parents = parents[:depth]
		parent := -1
		if depth > 0 {
			parent = parents[depth-1]
		}
		parents = append(parents, len(entries))
		entries = append(entries, OutlineEntry{
			Name:      n.Symbol.Name,
			Kind:      n.Symbol.Kind,
			Span:      n.Symbol.Span,
			Signature: n.Symbol.Signature,
			Depth:     depth,
			Parent:    parent,
		})
		return true
	})
	return entries
}

// ParseFunction returns the structured signature of a function or method.
func (s *NavService) ParseFunction(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseFunctionInput,
) (*mcp.CallToolResult, ParseFunctionOutput, error) {
	if input.Path == "" || input.Name == "" {
		return nil, ParseFunctionOutput{}, fmt.Errorf("path and name are required")
	}

	res, err := s.engine.ParseFunction(ctx, input.Path, input.Name)
	if s.unsupported("parse_function", err) {
		return nil, ParseFunctionOutput{Path: input.Path, Name: input.Name, Unsupported: true}, nil
	}
	if err != nil {
		return nil, ParseFunctionOutput{}, err
	}
	return nil, ParseFunctionOutput{
		Path:     res.Path,
		Name:     res.Name,
		Found:    res.Found,
		Function: res.Function,
	}, nil
}

// GetImports lists a file's import targets.
func (s *NavService) GetImports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetImportsInput,
) (*mcp.CallToolResult, GetImportsOutput, error) {
	if input.Path == "" {
		return nil, GetImportsOutput{}, fmt.Errorf("path is required")
	}

	res, err := s.engine.GetImports(ctx, input.Path)
	if s.unsupported("get_imports", err) {
		return nil, GetImportsOutput{Path: input.Path, Unsupported: true}, nil
	}
	if err != nil {
		return nil, GetImportsOutput{}, err
	}
	return nil, GetImportsOutput{Path: res.Path, Imports: res.Imports}, nil
}
