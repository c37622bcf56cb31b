package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codenav/internal/lang"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Empty(t, cfg.Source)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "codenav.yml", `
cacheEntries: 64
workers: 2
excludeGlobs:
  - "*.pb.go"
languages:
  python: [".py", ".py3"]
logFormat: json
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, 64, cfg.CacheEntries)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 16, cfg.CacheShards, "unset fields keep defaults")
	assert.Equal(t, []string{"*.pb.go"}, cfg.ExcludeGlobs)
	assert.Equal(t, "json", cfg.LogFormat)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	d, err := reg.Resolve("x.py3")
	require.NoError(t, err)
	assert.Equal(t, lang.LangPython, d.Language())
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "codenav.toml", `
root = "src"
cacheShards = 4
excludeDirs = ["build"]
metricsAddr = ":9102"

[languages]
rust = []
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.CacheShards)
	assert.Equal(t, []string{"build"}, cfg.ExcludeDirs)
	assert.Equal(t, ":9102", cfg.MetricsAddr)

	root, err := cfg.ResolveRoot("/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), root)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.False(t, reg.Supports("lib.rs"), "empty list disables the language")
}

func TestLoad_YMLBeatsTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "codenav.yml", "workers: 3\n")
	writeFile(t, dir, "codenav.toml", "workers = 5\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "codenav.yml", "workers: [oops\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative entries", func(c *Config) { c.CacheEntries = -1 }},
		{"negative shards", func(c *Config) { c.CacheShards = -2 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"unknown language", func(c *Config) { c.Languages = map[string][]string{"cobol": {".cbl"}} }},
		{"extension without dot", func(c *Config) { c.Languages = map[string][]string{"go": {"go"}} }},
		{"bad glob", func(c *Config) { c.ExcludeGlobs = []string{"[unclosed"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Defaults().Validate())
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"node_modules", "gen*"}, []string{"*.pb.go", "testdata/**"})
	require.NoError(t, err)

	assert.True(t, m.SkipDir("web/node_modules"))
	assert.True(t, m.SkipDir("generated"))
	assert.False(t, m.SkipDir("internal"))

	assert.True(t, m.SkipFile("api/v1/service.pb.go"))
	assert.True(t, m.SkipFile("testdata/fixtures/a.go"))
	assert.False(t, m.SkipFile("internal/a.go"))

	var none *Matcher
	assert.False(t, none.SkipDir("x"))
	assert.False(t, none.SkipFile("x"))
}
