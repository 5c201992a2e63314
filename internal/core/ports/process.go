package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=process.go -destination=../../adapters/process/mock_process.go -package=process

// ProcessRunner invokes a child process (compiler, linker, objcopy) with
// its output streamed to the given writers. It is an out-of-scope
// collaborator: the core engine never calls it directly, only the
// reference targets do.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, env []string, stdout, stderr io.Writer, name string, args ...string) error
}
