// Package noop implements ports.Telemetry as a no-op, for callers of the
// engine that do not want progress reporting wired in.
package noop

import (
	"context"
	"io"

	"github.com/kilnbuild/kiln/internal/core/ports"
)

type telemetry struct{}

// New returns a ports.Telemetry whose vertices discard everything
// written to them.
func New() ports.Telemetry { return telemetry{} }

func (telemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, vertex{}
}

func (telemetry) Close() error { return nil }

type vertex struct{}

func (vertex) Stdout() io.Writer { return io.Discard }
func (vertex) Stderr() io.Writer { return io.Discard }
func (vertex) Complete(error)    {}
