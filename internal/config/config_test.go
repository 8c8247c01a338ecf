package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenetier.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./scenes", cfg.SourceDir)
	assert.Equal(t, ".scn", cfg.SceneExtension)
	assert.Equal(t, "webp", cfg.TextureFormat)
	require.Len(t, cfg.Tiers, 4)
	assert.Equal(t, "ultra", cfg.Tiers[0].Name)
	assert.Equal(t, "low", cfg.Tiers[3].Name)
}

func TestLoadFilePreservesTierOrder(t *testing.T) {
	path := writeConfig(t, `
source_dir = "/assets/in"
dest_dir = "/assets/out"

[[tiers]]
name = "ultra"
simplify_ratio = 1.0
texture_size = 4096
mesh_compression = false

[[tiers]]
name = "low"
simplify_ratio = 0.2
texture_size = 512
mesh_compression = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/assets/in", cfg.SourceDir)
	require.Len(t, cfg.Tiers, 2)
	assert.Equal(t, "ultra", cfg.Tiers[0].Name)
	assert.Equal(t, "low", cfg.Tiers[1].Name)
	assert.True(t, cfg.Tiers[1].MeshCompression)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCENETIER_SOURCE_DIR", "/env/in")
	t.Setenv("SCENETIER_DEST_DIR", "/env/out")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/in", cfg.SourceDir)
	assert.Equal(t, "/env/out", cfg.DestDir)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad ratio",
			content: `
[[tiers]]
name = "broken"
simplify_ratio = 1.5
texture_size = 512
`,
		},
		{
			name: "duplicate tier name",
			content: `
[[tiers]]
name = "high"
simplify_ratio = 0.8
texture_size = 2048

[[tiers]]
name = "high"
simplify_ratio = 0.4
texture_size = 1024
`,
		},
		{
			name:    "bad texture format",
			content: `texture_format = "bmp"`,
		},
		{
			name:    "extension without dot",
			content: `scene_extension = "scn"`,
		},
		{
			name:    "not toml",
			content: `{"tiers": []}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			var cerr *ConfigError
			assert.True(t, errors.As(err, &cerr), "want *ConfigError, got %T", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
}
