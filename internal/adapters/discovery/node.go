package discovery

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/kilnbuild/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the source-discovery adapter node.
const NodeID graft.ID = "adapter.source_discoverer"

func init() {
	graft.Register(graft.Node[ports.SourceDiscoverer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceDiscoverer, error) {
			return New(), nil
		},
	})
}
