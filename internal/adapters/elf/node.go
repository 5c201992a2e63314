package elf

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/kilnbuild/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the ELF-inspector adapter node.
const NodeID graft.ID = "adapter.elf_inspector"

func init() {
	graft.Register(graft.Node[ports.ELFInspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ELFInspector, error) {
			return New(), nil
		},
	})
}
