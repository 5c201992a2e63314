package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=../../adapters/telemetry/progrock/mock_telemetry.go -package=progrock

// Telemetry opens a progress vertex for one target's execution. The
// engine's core package never imports a concrete implementation; it is
// handed one through the Engine facade's options.
type Telemetry interface {
	Record(ctx context.Context, name string) (context.Context, Vertex)
	Close() error
}

// Vertex is the progress handle for a single target. Stdout/Stderr are
// offered to the process runner so subprocess output streams into the
// telemetry sink; Complete reports the final outcome.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	Complete(err error)
}

// Vertexed is implemented by targets that can stream subprocess output
// into a telemetry vertex. The engine calls SetOutput once telemetry is
// wired in, right before Execute, so the target's runner writes into the
// vertex instead of the process's own stdout/stderr. Targets with
// nothing to stream (they never run a subprocess) need not implement it.
type Vertexed interface {
	SetOutput(stdout, stderr io.Writer)
}
