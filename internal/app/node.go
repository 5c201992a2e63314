package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/kilnbuild/kiln/internal/adapters/config"
	"github.com/kilnbuild/kiln/internal/adapters/discovery"
	"github.com/kilnbuild/kiln/internal/adapters/elf"
	"github.com/kilnbuild/kiln/internal/adapters/logger"
	"github.com/kilnbuild/kiln/internal/adapters/process"
	"github.com/kilnbuild/kiln/internal/adapters/telemetry/progrock"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/depdb"
	"github.com/kilnbuild/kiln/internal/engine"
)

// AppNodeID is the unique identifier for the main App graft node.
const AppNodeID graft.ID = "app.main"

// ComponentsNodeID is the unique identifier for the Components graft
// node the CLI resolves at startup.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, engine.NodeID, progrock.NodeID},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			eng, err := graft.Dep[*engine.Engine](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, eng, telemetry), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			depdb.NodeID,
			discovery.NodeID,
			process.NodeID,
			elf.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	db, err := graft.Dep[*depdb.DB](ctx)
	if err != nil {
		return nil, err
	}

	discoverer, err := graft.Dep[ports.SourceDiscoverer](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	inspector, err := graft.Dep[ports.ELFInspector](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          application,
		Logger:       log,
		ConfigLoader: loader,
		DB:           db,
		Discoverer:   discoverer,
		Runner:       runner,
		Inspector:    inspector,
	}, nil
}
