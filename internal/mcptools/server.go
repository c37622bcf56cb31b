package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// Version returns the build version reported to MCP clients.
func Version() string { return version }

// NewNavMCPServer creates an MCP server with the 6 navigation tools registered.
func NewNavMCPServer(svc *NavService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codenav",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_symbols",
		Description: "List every symbol (functions, methods, types, imports, top-level variables) in a source file in source order, with byte spans, signatures and doc comments. Files with syntax errors return the recoverable symbols and partial=true.",
	}, svc.GetSymbols)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_definition",
		Description: "Find where a function, method, struct, enum or interface is defined, by exact name. Searches all supported files under the scope. found=false means no definition exists.",
	}, svc.FindDefinition)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_references",
		Description: "List identifier occurrences of a name under the scope with line numbers and source lines. Matching is textual: it does not resolve scopes, so unrelated symbols with the same name are included.",
	}, svc.FindReferences)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_outline",
		Description: "Return a file's symbols nested by containment (methods inside classes, closures inside functions), flattened depth-first with parent indexes.",
	}, svc.GetOutline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_function",
		Description: "Return the parameter list, return type, doc comment and body span of a function or method in a file.",
	}, svc.ParseFunction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_imports",
		Description: "List the import targets of a source file in source order.",
	}, svc.GetImports)

	return server
}

// RunMCPServer starts an HTTP server exposing the navigation MCP tools.
func RunMCPServer(ctx context.Context, svc *NavService, addr string) error {
	server := NewNavMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	svc.logger.WithField("addr", addr).Info("mcp server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *NavService) error {
	svc.logger.Info("mcp server on stdio")
	return NewNavMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}
