package app

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/depdb"
	"github.com/kilnbuild/kiln/internal/targets"
)

// firmwareSrcDir and firmwareBuildDir are the fixed src/ -> build/
// convention the reference firmware graph builder uses. Per spec §1
// the graph itself is never described by a configuration file; these
// two directory names are fixed, and only the tool names and build
// identifier in ToolConfig are configurable, through BuildFirmwareGraph's
// parameters.
const (
	firmwareSrcDir   = "src"
	firmwareBuildDir = "build"
)

var firmwareSourcePatterns = []string{"*.c", "*.cpp"}

// ToolConfig names the external compiler, linker, and objcopy-equivalent
// binaries the firmware graph builder invokes. It carries no graph
// structure, only the handful of program names a cross toolchain needs.
type ToolConfig struct {
	Compiler string
	Linker   string
	ObjCopy  string
	BuildID  string
}

// BuildFirmwareGraph discovers every source file under src/, builds one
// CompileTarget per source, a VersionTouchTarget stamping BuildID, a
// LinkTarget depending on all of them, and an ObjCopyTarget converting
// the linked image to a raw binary. It is the one place this repo
// constructs a target graph programmatically, matching the Non-goal
// that no rule language or DSL ever describes one.
func BuildFirmwareGraph(
	discoverer ports.SourceDiscoverer,
	db *depdb.DB,
	runner ports.ProcessRunner,
	inspector ports.ELFInspector,
	logger ports.Logger,
	tools ToolConfig,
) (root domain.Target, all []domain.Target, err error) {
	sources, err := discoverSources(discoverer)
	if err != nil {
		return nil, nil, err
	}

	// Source files are expected directly under src/, one level deep, so
	// the base name alone is enough to name each target and its object
	// file; a project with same-named sources in nested subdirectories
	// is outside this fixed convention's scope.
	compiles := make([]domain.Target, 0, len(sources))
	for _, src := range sources {
		rel := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		obj := filepath.Join(firmwareBuildDir, rel+".o")
		dep := filepath.Join(firmwareBuildDir, rel+".d")

		ct := targets.NewCompileTarget(rel, src, obj, dep, tools.Compiler, nil, db, runner, logger)
		compiles = append(compiles, ct)
	}

	versionPath := filepath.Join(firmwareBuildDir, "version.c")
	version := targets.NewVersionTouchTarget("version", versionPath, tools.BuildID, logger)

	elfPath := filepath.Join(firmwareBuildDir, "firmware.elf")
	link := targets.NewLinkTarget("firmware.elf", compiles, version, elfPath, tools.Linker, nil, runner, logger)

	binPath := filepath.Join(firmwareBuildDir, "firmware.bin")
	objcopy := targets.NewObjCopyTarget("firmware.bin", link, elfPath, binPath, tools.ObjCopy, nil, runner, inspector, logger)

	all = append(all, compiles...)
	all = append(all, version, link, objcopy)

	return objcopy, all, nil
}

// discoverSources resolves each of firmwareSourcePatterns independently
// so a project that has only .c files (no .cpp, or vice versa) does not
// trip the discoverer's per-pattern zero-match error; the graph as a
// whole only fails if none of the patterns matched anything.
func discoverSources(discoverer ports.SourceDiscoverer) ([]string, error) {
	unique := make(map[string]struct{})

	for _, pattern := range firmwareSourcePatterns {
		matches, err := discoverer.Discover(firmwareSrcDir, []string{pattern})
		if err != nil {
			if errors.Is(err, domain.ErrSourceNotFound) {
				continue
			}
			return nil, err
		}
		for _, m := range matches {
			unique[m] = struct{}{}
		}
	}

	if len(unique) == 0 {
		return nil, domain.ErrSourceNotFound
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	sort.Strings(result)
	return result, nil
}
