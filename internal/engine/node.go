package engine

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/kilnbuild/kiln/internal/adapters/config"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the engine node. Its only
// dependency is the config loader, which supplies the initial
// MaxThreads setting.
const NodeID graft.ID = "engine.main"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := loader.Load("kiln.yaml")
			if err != nil {
				return nil, err
			}

			return New(cfg.MaxThreads), nil
		},
	})
}
