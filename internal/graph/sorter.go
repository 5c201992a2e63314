// Package graph implements the cycle-checked topological sort the build
// engine runs over the DAG rooted at the target handed to it.
package graph

import (
	"fmt"
	"strings"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// Sort performs a depth-first post-order traversal of the DAG rooted at
// root, returning a list such that every predecessor appears before its
// successor. As each target is first touched its outdated flag is
// cleared — this is the one point in a build where the engine resets
// staleness before computing it fresh.
//
// Two marker sets distinguish "fully explored" from "on the current
// recursion path": revisiting a node still on the path is a cycle and
// fails the whole sort; revisiting an already-explored node is legal
// (diamond dependencies are expected) and is simply skipped.
func Sort(root domain.Target) ([]domain.Target, error) {
	if root == nil {
		return nil, domain.ErrNoRoot
	}

	s := &sorter{
		visited: make(map[domain.Target]bool),
		onStack: make(map[domain.Target]bool),
	}

	if err := s.visit(root); err != nil {
		return nil, err
	}
	return s.order, nil
}

type sorter struct {
	visited map[domain.Target]bool
	onStack map[domain.Target]bool
	order   []domain.Target
	path    []domain.Target
}

func (s *sorter) visit(t domain.Target) error {
	if s.onStack[t] {
		return fmt.Errorf("%w: %s", domain.ErrCycleDetected, cyclePath(append(s.path, t)))
	}
	if s.visited[t] {
		return nil
	}

	t.ClearOutdated()

	s.onStack[t] = true
	s.path = append(s.path, t)

	for _, pred := range t.Predecessors() {
		if err := s.visit(pred); err != nil {
			return err
		}
	}

	s.path = s.path[:len(s.path)-1]
	delete(s.onStack, t)

	s.visited[t] = true
	s.order = append(s.order, t)
	return nil
}

func cyclePath(path []domain.Target) string {
	names := make([]string, len(path))
	for i, t := range path {
		names[i] = t.Name()
	}
	return strings.Join(names, " -> ")
}
