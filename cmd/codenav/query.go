package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/codenav/internal/export"
	"github.com/dusk-indust/codenav/internal/query"
)

// queryFunc runs one engine operation and returns the value printed as JSON.
type queryFunc func(ctx context.Context, e *query.Engine, args []string) (any, error)

// newQueryCmd builds a one-shot query subcommand that prints its result as
// indented JSON on stdout.
func newQueryCmd(opts *rootOptions, use, short string, args cobra.PositionalArgs, run queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			a, err := opts.build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := run(cmd.Context(), a.engine, argv)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSymbolsCmd(opts *rootOptions) *cobra.Command {
	return newQueryCmd(opts, "symbols <path>", "List the symbols of a file in source order", cobra.ExactArgs(1),
		func(ctx context.Context, e *query.Engine, args []string) (any, error) {
			return e.GetSymbols(ctx, args[0])
		})
}

func newDefinitionCmd(opts *rootOptions) *cobra.Command {
	var scope string
	cmd := newQueryCmd(opts, "definition <name>", "Find where a name is defined", cobra.ExactArgs(1),
		func(ctx context.Context, e *query.Engine, args []string) (any, error) {
			return e.FindDefinition(ctx, args[0], scope)
		})
	cmd.Flags().StringVar(&scope, "scope", "", "file or directory to search (default: the root)")
	return cmd
}

func newReferencesCmd(opts *rootOptions) *cobra.Command {
	var scope string
	cmd := newQueryCmd(opts, "references <name>", "List lexical references to a name", cobra.ExactArgs(1),
		func(ctx context.Context, e *query.Engine, args []string) (any, error) {
			return e.FindReferences(ctx, args[0], scope)
		})
	cmd.Flags().StringVar(&scope, "scope", "", "file or directory to search (default: the root)")
	return cmd
}

func newOutlineCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "outline <path>",
		Short: "Print a file's symbols nested by containment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := a.engine.GetOutline(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return printJSON(out, res)
			case "text":
				_, err = io.WriteString(out, export.Text(res.Outline))
			case "mermaid":
				_, err = io.WriteString(out, export.Mermaid(res.Path, res.Outline))
			default:
				err = fmt.Errorf("unknown format %q: want json, text or mermaid", format)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, text or mermaid")
	return cmd
}

func newFunctionCmd(opts *rootOptions) *cobra.Command {
	return newQueryCmd(opts, "function <path> <name>", "Print the signature of a function or method", cobra.ExactArgs(2),
		func(ctx context.Context, e *query.Engine, args []string) (any, error) {
			return e.ParseFunction(ctx, args[0], args[1])
		})
}

func newImportsCmd(opts *rootOptions) *cobra.Command {
	return newQueryCmd(opts, "imports <path>", "List the imports of a file", cobra.ExactArgs(1),
		func(ctx context.Context, e *query.Engine, args []string) (any, error) {
			return e.GetImports(ctx, args[0])
		})
}
