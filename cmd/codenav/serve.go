package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/codenav/internal/mcptools"
	"github.com/dusk-indust/codenav/internal/metrics"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

type serveOptions struct {
	Transport   string
	Addr        string
	MetricsAddr string
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation tools over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, so)
		},
	}

	cmd.Flags().StringVar(&so.Transport, "transport", transportStdio, "MCP transport: stdio or http")
	cmd.Flags().StringVar(&so.Addr, "addr", ":8080", "listen address for the http transport")
	cmd.Flags().StringVar(&so.MetricsAddr, "metrics-addr", "", "serve /metrics and /health on this address (default: config metricsAddr)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, so *serveOptions) error {
	switch so.Transport {
	case transportStdio, transportHTTP:
	default:
		return fmt.Errorf("unknown transport %q: want %s or %s", so.Transport, transportStdio, transportHTTP)
	}

	// Logs always go to stderr: stdout carries the stdio transport.
	a, err := opts.build(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsAddr := so.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = a.cfg.MetricsAddr
	}
	if metricsAddr != "" {
		health := func() any {
			return map[string]any{"status": "up", "cache": a.cache.Stats()}
		}
		srv := metrics.NewServer(metricsAddr, a.registry, health, a.logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(shutdownCtx)
		}()
	}

	svc := mcptools.NewNavService(a.engine, a.logger)
	if so.Transport == transportHTTP {
		return mcptools.RunMCPServer(ctx, svc, so.Addr)
	}
	return mcptools.RunMCPServerStdio(ctx, svc)
}
