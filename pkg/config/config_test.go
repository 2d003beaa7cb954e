package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `extensions:
  - go
  - md
exclude_patterns:
  - vendor/
max_file_size_kb: 256
structure: false
token_model: gpt-4o
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "md"}, cfg.Extensions)
	assert.Equal(t, []string{"vendor/"}, cfg.ExcludePatterns)
	assert.Equal(t, 256, cfg.MaxFileSizeKB)
	require.NotNil(t, cfg.Structure)
	assert.False(t, *cfg.Structure)
	assert.Nil(t, cfg.Gitignore)
	assert.Equal(t, "gpt-4o", cfg.TokenModel)
}

func TestLoadMissingDefaultIsEmpty(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadMissingExplicitFileIsError(t *testing.T) {
	_, err := Load(t.TempDir(), "nonexistent.yaml")
	assert.Error(t, err)
}

func TestLoadExplicitRelativePath(t *testing.T) {
	dir := t.TempDir()
	content := "output: out/context.md\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir, "custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "out/context.md", cfg.Output)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("extensions: [unclosed\n"), 0o644))

	_, err := Load(dir, "")
	assert.Error(t, err)
}
