package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// prepare runs Prepare on every target in ordered, fans the calls out
// across up to maxThreads goroutines, joins them, then sweeps the list in
// topological order promoting staleness transitively: a target is
// outdated if Prepare said so directly, or if any predecessor ended up
// outdated (including predecessors marked outdated by another target's
// Prepare as a cross-target side effect — see spec §4.D).
//
// It returns the subset of ordered that is outdated after the sweep, in
// the same relative order.
func prepare(ctx context.Context, ordered []domain.Target, maxThreads int) ([]domain.Target, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampThreads(maxThreads))

	for _, t := range ordered {
		t := t
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if t.Prepare() {
				t.SetOutdated()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Happens-before boundary: every Prepare call (and every cross-target
	// SetOutdated it may have performed) is joined above before this
	// sweep reads any target's Outdated flag.
	outdated := make([]domain.Target, 0, len(ordered))
	for _, t := range ordered {
		for _, pred := range t.Predecessors() {
			if pred.Outdated() {
				t.SetOutdated()
				break
			}
		}
		if t.Outdated() {
			outdated = append(outdated, t)
		}
	}

	return outdated, nil
}

func clampThreads(n int) int {
	if n < 1 {
		n = 1
	}
	if max := runtime.NumCPU(); n > max {
		n = max
	}
	return n
}
