// Package process implements the child-process invocation used by the
// reference compile/link/objcopy targets. It is an out-of-scope
// collaborator: the core engine never imports this package.
package process

import (
	"context"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/zerr"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct{}

// New creates a new Runner.
func New() *Runner { return &Runner{} }

// Run invokes name with args in dir, with env appended on top of the
// current process's environment, streaming stdout/stderr into the given
// writers.
func (r *Runner) Run(ctx context.Context, dir string, env []string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, domain.ErrProcessFailed.Error()), "exit_code", exitCode)
	}
	return nil
}
