package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/codenav/internal/lang"
)

// FileNames lists the config files Load looks for, in order.
var FileNames = []string{"codenav.yml", "codenav.yaml", "codenav.toml"}

// Config holds project-level settings loaded from codenav.yml or
// codenav.toml.
type Config struct {
	Root         string              `yaml:"root,omitempty" toml:"root"`
	CacheEntries int                 `yaml:"cacheEntries,omitempty" toml:"cacheEntries"`
	CacheShards  int                 `yaml:"cacheShards,omitempty" toml:"cacheShards"`
	Workers      int                 `yaml:"workers,omitempty" toml:"workers"`
	ExcludeDirs  []string            `yaml:"excludeDirs,omitempty" toml:"excludeDirs"`
	ExcludeGlobs []string            `yaml:"excludeGlobs,omitempty" toml:"excludeGlobs"`
	Languages    map[string][]string `yaml:"languages,omitempty" toml:"languages"`
	LogLevel     string              `yaml:"logLevel,omitempty" toml:"logLevel"`
	LogFormat    string              `yaml:"logFormat,omitempty" toml:"logFormat"`
	MetricsAddr  string              `yaml:"metricsAddr,omitempty" toml:"metricsAddr"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Root:         ".",
		CacheEntries: 256,
		CacheShards:  16,
		Workers:      runtime.NumCPU(),
		ExcludeDirs:  []string{"node_modules", "target", "__pycache__", ".venv"},
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load attempts to read codenav.yml, codenav.yaml or codenav.toml from the
// given directory. Returns the defaults (not an error) if no config file
// exists. Fields absent from the file keep their default values.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Defaults(), nil
}

// LoadFile reads one config file. The format is chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unknown format", path)
	}
	cfg.Source = path
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.CacheEntries < 0:
		return fmt.Errorf("cacheEntries must not be negative, got %d", c.CacheEntries)
	case c.CacheShards < 0:
		return fmt.Errorf("cacheShards must not be negative, got %d", c.CacheShards)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q: want text or json", c.LogFormat)
	}

	reg := lang.NewRegistry()
	for name, exts := range c.Languages {
		if _, ok := reg.Get(lang.Language(name)); !ok {
			return fmt.Errorf("languages: %w: %s", lang.ErrUnsupported, name)
		}
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("languages.%s: extension %q must start with a dot", name, ext)
			}
		}
	}

	if _, err := c.ExcludeMatcher(); err != nil {
		return err
	}
	return nil
}

// Registry returns the built-in language registry with the configured
// extension overrides applied.
func (c *Config) Registry() (*lang.Registry, error) {
	reg := lang.NewRegistry()
	if len(c.Languages) == 0 {
		return reg, nil
	}
	return reg.WithOverrides(c.Languages)
}

// ResolveRoot returns Root as an absolute path. A relative root is taken
// relative to the directory holding the config file, or to base when the
// config came from defaults.
func (c *Config) ResolveRoot(base string) (string, error) {
	root := c.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		dir := base
		if c.Source != "" {
			dir = filepath.Dir(c.Source)
		}
		root = filepath.Join(dir, root)
	}
	return filepath.Abs(root)
}
