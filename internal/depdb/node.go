package depdb

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/kilnbuild/kiln/internal/adapters/config"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the dependency-database node. It
// resolves engine settings through the config loader, so the database
// path and header extensions always come from one place.
const NodeID graft.ID = "depdb.db"

func init() {
	graft.Register(graft.Node[*DB]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*DB, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := loader.Load("kiln.yaml")
			if err != nil {
				return nil, err
			}

			return New(cfg.DepDBPath, cfg.HeaderExtensions...)
		},
	})
}
