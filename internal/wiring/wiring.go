// Package wiring registers every Graft node the composition root needs.
// Importing it for side effects (blank import) is the only thing
// cmd/kiln does with it; no other package should import wiring.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/kilnbuild/kiln/internal/adapters/config"
	_ "github.com/kilnbuild/kiln/internal/adapters/discovery"
	_ "github.com/kilnbuild/kiln/internal/adapters/elf"
	_ "github.com/kilnbuild/kiln/internal/adapters/logger"
	_ "github.com/kilnbuild/kiln/internal/adapters/process"
	_ "github.com/kilnbuild/kiln/internal/adapters/telemetry/progrock"

	// Register the dependency database and engine nodes.
	_ "github.com/kilnbuild/kiln/internal/depdb"
	_ "github.com/kilnbuild/kiln/internal/engine"

	// Register app and components nodes.
	_ "github.com/kilnbuild/kiln/internal/app"
)
