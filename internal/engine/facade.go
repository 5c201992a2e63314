// Package engine implements the two-phase build executor: the prepare
// phase (component D) that decides what is stale, and the execute phase
// (component E) that runs it, tied together by the Engine facade
// (component F).
package engine

import (
	"context"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/graph"
)

// Engine is the caller-facing surface named in spec §4.F and §6:
// MaxThreads (clamped on write), an OnExecuting hook fired once the
// outdated set is known but before any target executes, and Execute,
// which is the whole API.
type Engine struct {
	maxThreads int

	// OnExecuting, if set, is invoked between the prepare and execute
	// phases with the number of targets that are about to run, so the
	// caller can set up progress reporting before work actually starts.
	OnExecuting func(jobCount int)

	// OnExecuted, if set, is invoked once per target immediately after
	// Executed() runs on it, serialized on the same goroutine.
	OnExecuted func(domain.Target)

	// Telemetry, if set, is handed one target name per Execute call: the
	// worker opens a vertex before calling Execute and completes it right
	// after, wiring its writers into the target first if it implements
	// ports.Vertexed (SPEC_FULL.md §4.H).
	Telemetry ports.Telemetry
}

// New constructs an Engine with maxThreads clamped to [1, NumCPU].
func New(maxThreads int) *Engine {
	return &Engine{maxThreads: clampThreads(maxThreads)}
}

// MaxThreads reports the current worker-pool size.
func (e *Engine) MaxThreads() int { return e.maxThreads }

// SetMaxThreads updates the worker-pool size, clamping to [1, NumCPU].
func (e *Engine) SetMaxThreads(n int) { e.maxThreads = clampThreads(n) }

// Execute runs a full build rooted at root: topological sort, prepare,
// then execute. It returns a zeroed result if nothing turned out to be
// outdated, and a zeroed result with ErrNoRoot if root is nil. The other
// errors it returns are a cyclic dependency and ctx's error if ctx is
// cancelled during prepare; every other failure is reported per-target
// through Executed() and reflected in the result's CompletedJobs count.
func (e *Engine) Execute(ctx context.Context, root domain.Target) (domain.BuildResult, error) {
	if root == nil {
		return domain.BuildResult{}, domain.ErrNoRoot
	}

	ordered, err := graph.Sort(root)
	if err != nil {
		return domain.BuildResult{}, err
	}

	outdated, err := prepare(ctx, ordered, e.maxThreads)
	if err != nil {
		return domain.BuildResult{}, err
	}

	if len(outdated) == 0 {
		return domain.BuildResult{}, nil
	}

	if e.OnExecuting != nil {
		e.OnExecuting(len(outdated))
	}

	onExecuted := func(t domain.Target) {
		t.Executed()
		if e.OnExecuted != nil {
			e.OnExecuted(t)
		}
	}

	result := execute(ctx, outdated, e.maxThreads, onExecuted, e.Telemetry)
	return result, nil
}
