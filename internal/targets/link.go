package targets

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// LinkTarget links a set of object files into an ELF image. It depends
// on every CompileTarget producing those objects plus the
// VersionTouchTarget that stamps the build identifier compiled into the
// image.
type LinkTarget struct {
	domain.BaseTarget

	ObjPaths []string
	OutPath  string
	Linker   string
	Flags    []string

	versionSource domain.Target
	runner        ports.ProcessRunner
	logger        ports.Logger

	stdout, stderr io.Writer
}

// NewLinkTarget constructs a LinkTarget. versionSource is kept
// separately from the generic predecessor list because Prepare needs to
// push a cross-target staleness write onto it (spec §4.D): when the link
// output is missing, the version file must be regenerated too, even
// though nothing about its own mtime changed.
func NewLinkTarget(name string, objTargets []domain.Target, versionSource domain.Target, outPath, linker string, flags []string, runner ports.ProcessRunner, logger ports.Logger) *LinkTarget {
	preds := append(append([]domain.Target{}, objTargets...), versionSource)

	objPaths := make([]string, 0, len(objTargets))
	for _, o := range objTargets {
		if c, ok := o.(*CompileTarget); ok {
			objPaths = append(objPaths, c.ObjPath)
		}
	}

	t := &LinkTarget{
		ObjPaths:      objPaths,
		OutPath:       outPath,
		Linker:        linker,
		Flags:         flags,
		versionSource: versionSource,
		runner:        runner,
		logger:        logger,
	}
	t.BaseTarget = domain.NewBaseTarget(name, preds...)
	return t
}

// Prepare is stale whenever the linked output is missing. A missing
// output also forces a rebuild of the version source, since a fresh
// link needs a fresh build-identifier stamp even if nothing else about
// version.c changed.
func (t *LinkTarget) Prepare() bool {
	if _, err := os.Stat(t.OutPath); err != nil {
		t.versionSource.SetOutdated()
		return true
	}
	return false
}

// SetOutput implements ports.Vertexed, routing the linker's output into
// a telemetry vertex instead of the process's own stdout/stderr.
func (t *LinkTarget) SetOutput(stdout, stderr io.Writer) {
	t.stdout, t.stderr = stdout, stderr
}

// Execute invokes the configured linker against every object file.
func (t *LinkTarget) Execute() bool {
	args := append([]string{}, t.Flags...)
	args = append(args, t.ObjPaths...)
	args = append(args, "-o", t.OutPath)

	stdout, stderr := outputOrDefault(t.stdout, t.stderr)
	if err := t.runner.Run(context.Background(), "", nil, stdout, stderr, t.Linker, args...); err != nil {
		t.logger.Error(fmt.Errorf("linking %s: %w", t.OutPath, err))
		return false
	}
	return true
}

// Executed reports the outcome.
func (t *LinkTarget) Executed() {
	if t.Outdated() {
		t.logger.Error(fmt.Errorf("link failed: %s", t.Name()))
		return
	}
	t.logger.Info("linked", "target", t.Name(), "output", t.OutPath)
}
