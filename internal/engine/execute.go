package engine

import (
	"context"
	"sync"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// sentinel is sent on the inputs channel to tell a worker to exit.
var sentinel domain.Target

// execute runs each target in outdated at most once, respecting
// dependency order, using a bounded pool of workers and two
// multi-producer/multi-consumer channels: inputs (work offered to
// workers) and outputs (completions returned to the scheduler, which is
// this function's own goroutine — the caller's goroutine). onExecuted is
// invoked exactly once per target that reached Execute, serialized on
// this goroutine, never overlapping.
//
// A target is ready once every predecessor has Outdated() == false:
// predecessors that were never outdated, and predecessors that executed
// successfully, both qualify. A failing target stays outdated forever,
// which is what keeps its dependents from ever becoming ready.
//
// The first failure stops new targets from being offered and aborts the
// scheduling loop immediately: the failed completion is pushed back onto
// outputs rather than reported, since in-flight workers may still be
// racing to produce completions of their own and spec requires successes
// to report before failures. Shutdown pushes one sentinel per worker,
// joins every worker, then drains whatever is left on outputs in a
// final pass: successes from that pass report first, failures last.
func execute(ctx context.Context, outdated []domain.Target, maxThreads int, onExecuted func(domain.Target), telemetry ports.Telemetry) domain.BuildResult {
	total := len(outdated)
	if total == 0 {
		return domain.BuildResult{}
	}

	workers := clampThreads(maxThreads)
	if workers > total {
		workers = total
	}

	inputs := make(chan domain.Target, total)
	outputs := make(chan domain.Target, total)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker(ctx, inputs, outputs, &wg, telemetry)
	}

	pending := make([]domain.Target, len(outdated))
	copy(pending, outdated)

	completed := 0
	inFlight := 0
	aborted := false

scheduling:
	for len(pending) > 0 || inFlight > 0 {
		// Step 1: offer every ready target. Once a failure has occurred,
		// no further jobs are offered, even if more become ready.
		if !aborted {
			var stillPending []domain.Target
			for _, t := range pending {
				if isReady(t) {
					inputs <- t
					inFlight++
				} else {
					stillPending = append(stillPending, t)
				}
			}
			pending = stillPending
		}

		if inFlight == 0 {
			// Nothing running and nothing will ever become ready: either
			// the build is done, or every remaining pending target has a
			// failed ancestor and is permanently blocked.
			break
		}

		// Step 2: block for at least one completion, then opportunistically
		// drain every completion already available without blocking. A
		// failure is re-inserted into outputs, not reported, and aborts
		// the loop on the spot so it cannot be overtaken by a later
		// success that must report first.
		done := <-outputs
		if done.Outdated() {
			outputs <- done
			aborted = true
			break scheduling
		}
		inFlight--
		completed++
		onExecuted(done)

	drain:
		for {
			select {
			case done := <-outputs:
				if done.Outdated() {
					outputs <- done
					aborted = true
					break scheduling
				}
				inFlight--
				completed++
				onExecuted(done)
			default:
				break drain
			}
		}
	}

	for i := 0; i < workers; i++ {
		inputs <- sentinel
	}
	wg.Wait()

	// A worker whose target failed returned without reading inputs again,
	// so targets queued behind that failure may never have been picked up.
	// They never reached Execute and will never appear on outputs; take
	// them off the in-flight count.
leftover:
	for {
		select {
		case t := <-inputs:
			if t != sentinel {
				inFlight--
			}
		default:
			break leftover
		}
	}

	// inFlight now counts exactly the completions still sitting on
	// outputs: every target sent to a worker either already reported
	// above or is waiting here, and nothing reads outputs between the
	// abort and this point.
	var failed []domain.Target
	for ; inFlight > 0; inFlight-- {
		done := <-outputs
		if done.Outdated() {
			failed = append(failed, done)
			continue
		}
		completed++
		onExecuted(done)
	}
	for _, f := range failed {
		onExecuted(f)
	}

	return domain.BuildResult{TotalJobs: total, CompletedJobs: completed}
}

// worker reads targets from inputs until it sees the sentinel, executes
// each one, and reports the outcome on outputs. A failed execution ends
// the worker's loop immediately: the scheduler stops offering new work
// once a failure occurs, and a target still queued on inputs is either
// taken by another worker or discarded by the scheduler at shutdown.
//
// When telemetry is set, each Execute call is bracketed by a vertex:
// opened beforehand and wired into the target if it implements
// ports.Vertexed, completed afterward with the execution's outcome.
func worker(ctx context.Context, inputs <-chan domain.Target, outputs chan<- domain.Target, wg *sync.WaitGroup, telemetry ports.Telemetry) {
	defer wg.Done()

	for t := range inputs {
		if t == sentinel {
			return
		}

		var vertex ports.Vertex
		if telemetry != nil {
			ctx, vertex = telemetry.Record(ctx, t.Name())
			if v, ok := t.(ports.Vertexed); ok {
				v.SetOutput(vertex.Stdout(), vertex.Stderr())
			}
		}

		ok := t.Execute()

		if vertex != nil {
			if ok {
				vertex.Complete(nil)
			} else {
				vertex.Complete(domain.ErrTargetExecutionFailed)
			}
		}

		if !ok {
			t.SetOutdated()
		} else {
			t.ClearOutdated()
		}
		outputs <- t

		if !ok {
			return
		}
	}
}

func isReady(t domain.Target) bool {
	for _, pred := range t.Predecessors() {
		if pred.Outdated() {
			return false
		}
	}
	return true
}
