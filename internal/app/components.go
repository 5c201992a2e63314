package app

import (
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/depdb"
)

// Components bundles every initialized component the CLI layer needs
// but that App itself keeps private: the logger for printing errors
// before a build starts, and the collaborators BuildFirmwareGraph wires
// together into a target graph.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	DB           *depdb.DB
	Discoverer   ports.SourceDiscoverer
	Runner       ports.ProcessRunner
	Inspector    ports.ELFInspector
}
