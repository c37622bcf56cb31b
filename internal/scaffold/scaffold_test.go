package scaffold

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/codenav/internal/config"
)

func TestConfigTemplate_Loads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), ConfigTemplate, 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 256, cfg.CacheEntries)
	assert.Contains(t, cfg.ExcludeGlobs, "*.pb.go")

	root, err := cfg.ResolveRoot("/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestMCPEntry(t *testing.T) {
	var entry struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	require.NoError(t, json.Unmarshal(MCPEntry, &entry))
	assert.Equal(t, "codenav", entry.Command)
	assert.Equal(t, []string{"serve"}, entry.Args)
}
