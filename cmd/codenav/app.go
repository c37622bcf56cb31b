package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dusk-indust/codenav/internal/cache"
	"github.com/dusk-indust/codenav/internal/config"
	"github.com/dusk-indust/codenav/internal/logging"
	"github.com/dusk-indust/codenav/internal/metrics"
	"github.com/dusk-indust/codenav/internal/query"
)

// app is the wired engine and its supporting components for one command.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	registry *prometheus.Registry
	cache    *cache.Cache
	engine   *query.Engine
}

// loadConfig reads the config named by --config, or looks for one in the
// root directory, then applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	base := o.Root
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("working directory: %w", err)
		}
		base = wd
	}

	var (
		cfg *config.Config
		err error
	)
	if o.Config != "" {
		cfg, err = config.LoadFile(o.Config)
	} else {
		cfg, err = config.Load(base)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	root, err := cfg.ResolveRoot(base)
	if err != nil {
		return nil, "", fmt.Errorf("resolving root: %w", err)
	}
	if o.Root != "" {
		// An explicit --root wins over the config file's root.
		if root, err = filepath.Abs(o.Root); err != nil {
			return nil, "", fmt.Errorf("resolving root: %w", err)
		}
	}
	return cfg, root, nil
}

// build wires config, logging, metrics, cache and engine. Logs go to logOut.
func (o *rootOptions) build(logOut io.Writer) (*app, error) {
	cfg, root, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.WithField("file", cfg.Source).Debug("config loaded")
	}

	langs, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	excludes, err := cfg.ExcludeMatcher()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collectors := metrics.New(registry)

	c := cache.New(cache.Options{
		MaxEntries: cfg.CacheEntries,
		Shards:     cfg.CacheShards,
		Logger:     logger,
		Metrics:    collectors,
	})

	engine := query.NewEngine(root, langs, c,
		query.WithLogger(logger),
		query.WithMetrics(collectors),
		query.WithWorkers(cfg.Workers),
		query.WithExcludes(excludes),
	)

	logger.WithFields(logrus.Fields{
		"root":      engine.Root(),
		"languages": langs.Languages(),
	}).Debug("engine ready")

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		cache:    c,
		engine:   engine,
	}, nil
}
