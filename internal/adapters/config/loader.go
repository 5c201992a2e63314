// Package config loads the engine's own scalar settings from a small
// YAML document. It deliberately never describes a build graph: the
// graph is always constructed programmatically by the caller, per the
// engine's non-goals.
package config

import (
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader { return &Loader{} }

// document is the on-disk shape of the engine settings file. Every field
// is optional; Load fills in defaults for anything absent.
type document struct {
	MaxThreads       int      `yaml:"max_threads"`
	HeaderExtensions []string `yaml:"header_extensions"`
	DepDBPath        string   `yaml:"dep_db_path"`
}

// Load reads path and returns the engine settings it carries, applying
// defaults for any absent field. A missing file is not an error: it
// yields the defaults unchanged.
func (l *Loader) Load(path string) (ports.EngineConfig, error) {
	cfg := ports.EngineConfig{
		MaxThreads:       4,
		HeaderExtensions: []string{".h", ".hh", ".hpp"},
		DepDBPath:        ".kiln/depdb.json",
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return ports.EngineConfig{}, zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return ports.EngineConfig{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "path", path)
	}

	if doc.MaxThreads > 0 {
		cfg.MaxThreads = doc.MaxThreads
	}
	if len(doc.HeaderExtensions) > 0 {
		cfg.HeaderExtensions = doc.HeaderExtensions
	}
	if doc.DepDBPath != "" {
		cfg.DepDBPath = doc.DepDBPath
	}

	return cfg, nil
}
