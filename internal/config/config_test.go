package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for configuration:
// - Defaults load without any config file present
// - .codegraph/config.yml values override the defaults
// - CODEGRAPH_* environment variables override the file
// - Validation rejects bad languages, backends, globs and hop counts

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.Build.Languages)
	assert.Equal(t, "treesitter", cfg.Build.JavaBackend)
	assert.Contains(t, cfg.Build.Ignore, "**/__pycache__/**")
	assert.Equal(t, 1, cfg.Query.DefaultNeighbors)
}

func TestLoadConfig_FromFile(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ".codegraph")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	yml := `build:
  languages:
    - java
  java_backend: cst
  ignore:
    - "gen/**"
query:
  default_neighbors: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(yml), 0o644))

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"java"}, cfg.Build.Languages)
	assert.Equal(t, "cst", cfg.Build.JavaBackend)
	assert.Equal(t, []string{"gen/**"}, cfg.Build.Ignore)
	assert.Equal(t, 2, cfg.Query.DefaultNeighbors)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CODEGRAPH_BUILD_JAVA_BACKEND", "cst")
	t.Setenv("CODEGRAPH_QUERY_DEFAULT_NEIGHBORS", "3")

	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "cst", cfg.Build.JavaBackend)
	assert.Equal(t, 3, cfg.Query.DefaultNeighbors)
}

func TestLoadConfig_InvalidFileValue(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, ".codegraph")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("build:\n  java_backend: antlr\n"), 0o644))

	_, err := LoadConfigFromDir(root)
	assert.ErrorIs(t, err, ErrInvalidJavaBackend)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Validate(Default()))
	})

	t.Run("unsupported language", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Build.Languages = []string{"cobol"}
		assert.ErrorIs(t, Validate(cfg), ErrInvalidLanguage)
	})

	t.Run("unsupported java backend", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Build.JavaBackend = "antlr"
		assert.ErrorIs(t, Validate(cfg), ErrInvalidJavaBackend)
	})

	t.Run("bad ignore glob", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Build.Ignore = append(cfg.Build.Ignore, "[unclosed")
		assert.ErrorIs(t, Validate(cfg), ErrInvalidIgnorePattern)
	})

	t.Run("negative neighbors", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Query.DefaultNeighbors = -1
		assert.ErrorIs(t, Validate(cfg), ErrInvalidNeighbors)
	})

	t.Run("multiple errors accumulate", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Build.Languages = []string{"cobol"}
		cfg.Query.DefaultNeighbors = -1
		err := Validate(cfg)
		assert.ErrorIs(t, err, ErrInvalidLanguage)
		assert.ErrorIs(t, err, ErrInvalidNeighbors)
	})
}
