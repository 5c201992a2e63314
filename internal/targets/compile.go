// Package targets holds reference implementations of domain.Target: one
// stage per step of a typical embedded firmware build (compile, link,
// convert to raw binary, stamp a version source). They are example
// consumers of the engine's contract, not part of the core itself, and
// are always wired together programmatically by the caller — never
// described by a configuration file.
package targets

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/depdb"
)

// CompileTarget compiles one source file into one object file, tracking
// header dependencies through a shared depdb.DB.
type CompileTarget struct {
	domain.BaseTarget

	SrcPath  string
	ObjPath  string
	DepPath  string
	Compiler string
	Flags    []string

	db     *depdb.DB
	runner ports.ProcessRunner
	logger ports.Logger

	stdout, stderr io.Writer
}

// NewCompileTarget constructs a CompileTarget with no predecessors: a
// source file has nothing it must wait on within this engine.
func NewCompileTarget(name, srcPath, objPath, depPath, compiler string, flags []string, db *depdb.DB, runner ports.ProcessRunner, logger ports.Logger) *CompileTarget {
	t := &CompileTarget{
		SrcPath:  srcPath,
		ObjPath:  objPath,
		DepPath:  depPath,
		Compiler: compiler,
		Flags:    flags,
		db:       db,
		runner:   runner,
		logger:   logger,
	}
	t.BaseTarget = domain.NewBaseTarget(name)
	return t
}

// Prepare is stale when the object file is missing, older than the
// source, or any header transitively included by the source has
// changed since the last build.
func (t *CompileTarget) Prepare() bool {
	srcInfo, err := os.Stat(t.SrcPath)
	if err != nil {
		// A missing source is a build misconfiguration the caller will
		// see surface as an execute failure; mark stale so the attempt
		// is made and the real error is reported there.
		return true
	}

	objInfo, err := os.Stat(t.ObjPath)
	if err != nil {
		return true
	}

	if srcInfo.ModTime().After(objInfo.ModTime()) {
		return true
	}

	outdated, err := t.db.AreDependsOutdated(t.DepPath)
	if err != nil {
		t.logger.Warn("failed to check header dependencies", "source", t.SrcPath, "error", err)
		return true
	}
	return outdated
}

// SetOutput implements ports.Vertexed, routing the compiler's output into
// a telemetry vertex instead of the process's own stdout/stderr.
func (t *CompileTarget) SetOutput(stdout, stderr io.Writer) {
	t.stdout, t.stderr = stdout, stderr
}

// Execute invokes the compiler with -MMD -MF so the dependency file is
// regenerated for the next build, then seeds the database from it.
func (t *CompileTarget) Execute() bool {
	args := append([]string{}, t.Flags...)
	args = append(args, "-MMD", "-MF", t.DepPath, "-c", t.SrcPath, "-o", t.ObjPath)

	stdout, stderr := outputOrDefault(t.stdout, t.stderr)
	if err := t.runner.Run(context.Background(), "", nil, stdout, stderr, t.Compiler, args...); err != nil {
		t.logger.Error(fmt.Errorf("compiling %s: %w", t.SrcPath, err))
		return false
	}

	if err := t.db.UpdateDepends(t.DepPath); err != nil {
		t.logger.Warn("failed to update dependency database", "source", t.SrcPath, "error", err)
	}
	return true
}

// Executed reports the outcome; serialized by the engine, safe to print.
func (t *CompileTarget) Executed() {
	if t.Outdated() {
		t.logger.Error(fmt.Errorf("compile failed: %s", t.Name()))
		return
	}
	t.logger.Info("compiled", "target", t.Name())
}
