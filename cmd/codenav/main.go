package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/codenav/internal/mcptools"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	Root      string
	Config    string
	LogLevel  string
	LogFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "codenav",
		Short: "Symbol navigation for Go, Python, Rust and TypeScript sources",
		Long: `codenav parses source files with tree-sitter and answers navigation
queries: symbol lists, definitions, references, outlines, function
signatures and imports. Run "codenav serve" to expose the same queries
as MCP tools.`,
		Version:       mcptools.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Root, "root", "", "directory queries are answered under (default: config root or current directory)")
	flags.StringVar(&opts.Config, "config", "", "config file (default: codenav.yml or codenav.toml in the root)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newServeCmd(opts),
		newSymbolsCmd(opts),
		newDefinitionCmd(opts),
		newReferencesCmd(opts),
		newOutlineCmd(opts),
		newFunctionCmd(opts),
		newImportsCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), mcptools.Version())
			return nil
		},
	}
}
