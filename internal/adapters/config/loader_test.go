package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoader_MissingFileYieldsDefaults(t *testing.T) {
	l := NewLoader()
	cfg, err := l.Load(filepath.Join(t.TempDir(), "kiln.yaml"))
	require.NoError(t, err)
	require.Equal(t, 4, cfg.MaxThreads)
	require.Equal(t, []string{".h", ".hh", ".hpp"}, cfg.HeaderExtensions)
	require.Equal(t, ".kiln/depdb.json", cfg.DepDBPath)
}

func TestLoader_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kiln.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_threads: 2\n"), 0o644))

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.MaxThreads)
	require.Equal(t, []string{".h", ".hh", ".hpp"}, cfg.HeaderExtensions)
}

func TestLoader_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kiln.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	l := NewLoader()
	_, err := l.Load(path)
	require.Error(t, err)
}
