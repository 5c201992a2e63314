// Package app implements kiln's composition root: it wires the engine
// and its ambient adapters together and exposes the one entry point the
// CLI drives.
package app

import (
	"context"

	"go.trai.ch/zerr"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/engine"
)

// App ties the engine to the ambient adapters the CLI needs: a config
// loader for engine settings and a telemetry sink for progress.
type App struct {
	configLoader ports.ConfigLoader
	telemetry    ports.Telemetry
	engine       *engine.Engine
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, eng *engine.Engine, telemetry ports.Telemetry) *App {
	return &App{configLoader: loader, engine: eng, telemetry: telemetry}
}

// Run loads engine settings, applies them to the engine, and executes a
// build rooted at root.
func (a *App) Run(ctx context.Context, root domain.Target) (domain.BuildResult, error) {
	if root == nil {
		return domain.BuildResult{}, domain.ErrNoRoot
	}

	cfg, err := a.configLoader.Load("kiln.yaml")
	if err != nil {
		return domain.BuildResult{}, zerr.Wrap(err, "failed to load engine configuration")
	}
	a.engine.SetMaxThreads(cfg.MaxThreads)
	a.engine.Telemetry = a.telemetry

	result, err := a.engine.Execute(ctx, root)
	if err != nil {
		// A structural failure (a dependency cycle) never reaches a
		// target's own Execute/Executed, so nothing has self-reported
		// it yet. Propagate it raw rather than under
		// ErrBuildExecutionFailed, which the CLI treats as already
		// logged.
		return result, err
	}
	if !result.Success() {
		return result, domain.ErrBuildExecutionFailed
	}
	return result, nil
}
