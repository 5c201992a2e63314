package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// fakeTarget is a minimal domain.Target for exercising the sorter in
// isolation from the engine and the reference targets.
type fakeTarget struct {
	domain.BaseTarget
}

func newFake(name string, preds ...domain.Target) *fakeTarget {
	t := &fakeTarget{}
	t.BaseTarget = domain.NewBaseTarget(name, preds...)
	return t
}

func TestSort_DiamondOrdersPredecessorsFirst(t *testing.T) {
	a := newFake("A")
	b := newFake("B", a)
	c := newFake("C", a)
	d := newFake("D", b, c)

	order, err := Sort(d)
	require.NoError(t, err)
	require.Len(t, order, 4)

	index := map[domain.Target]int{}
	for i, tgt := range order {
		index[tgt] = i
	}
	require.Less(t, index[a], index[b])
	require.Less(t, index[a], index[c])
	require.Less(t, index[b], index[d])
	require.Less(t, index[c], index[d])
}

func TestSort_DiamondSharingIsNotACycle(t *testing.T) {
	a := newFake("A")
	b := newFake("B", a)
	c := newFake("C", a)
	d := newFake("D", b, c)

	_, err := Sort(d)
	require.NoError(t, err)
}

func TestSort_DetectsCycle(t *testing.T) {
	a := newFake("A")
	b := newFake("B", a)
	a.BaseTarget = domain.NewBaseTarget("A", b) // A -> B -> A

	_, err := Sort(a)
	require.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestSort_ClearsOutdatedOnFirstTouch(t *testing.T) {
	a := newFake("A")
	a.SetOutdated()
	b := newFake("B", a)

	_, err := Sort(b)
	require.NoError(t, err)
	require.False(t, a.Outdated())
	require.False(t, b.Outdated())
}

func TestSort_NilRoot(t *testing.T) {
	_, err := Sort(nil)
	require.ErrorIs(t, err, domain.ErrNoRoot)
}
