package ports

//go:generate mockgen -source=config_loader.go -destination=../../adapters/config/mock_config_loader.go -package=config

// EngineConfig carries only the scalar settings the engine itself needs.
// It is never used to describe a build graph — the graph is always
// constructed programmatically by the caller.
type EngineConfig struct {
	MaxThreads       int
	HeaderExtensions []string
	DepDBPath        string
}

// ConfigLoader loads an EngineConfig from a YAML document on disk,
// applying defaults for any field that is absent.
type ConfigLoader interface {
	Load(path string) (EngineConfig, error)
}
