// Package domain holds the types shared by every layer of the build
// engine: the Target contract, the result it produces, and the sentinel
// errors the engine and its collaborators return.
package domain

import "sync"

// Target is a unit of work in the build DAG. Concrete implementations hold
// their own state (source paths, compiler flags, whatever the caller
// needs); the engine only ever touches a target through this contract.
//
// Identity is by reference: two targets are the same target only if they
// are the same object. Predecessors may repeat; the engine treats repeats
// as a no-op.
type Target interface {
	// Name identifies the target for logging and telemetry. It has no
	// effect on scheduling.
	Name() string

	// Predecessors lists the targets that must execute successfully before
	// this target's Execute is called.
	Predecessors() []Target

	// Prepare may perform I/O to decide whether this target is stale. It
	// must be safe to call concurrently with Prepare on any other target.
	// Returning true marks the target outdated.
	Prepare() bool

	// Execute performs the target's work. It is called from a worker
	// goroutine after every predecessor has executed successfully, never
	// more than once per build. Returning false marks the target as
	// failed.
	Execute() bool

	// Executed is the post-execution notification. The engine guarantees
	// it is invoked on a single goroutine and never overlaps with any
	// other target's Executed call, so implementations may write to
	// shared sinks (stdout, a report) without locking.
	Executed()

	// Outdated reports whether the target is currently marked for
	// execution (before the build) or failed (after).
	Outdated() bool

	// SetOutdated marks the target outdated. It is a one-way switch for
	// callers: once true, a target never becomes false again except via
	// ClearOutdated, which only the engine calls.
	SetOutdated()

	// ClearOutdated resets the outdated flag. Only the engine calls this:
	// the graph sorter the first time it visits the target, and the
	// execute-phase worker after the target's Execute succeeds.
	ClearOutdated()
}

// BuildResult is the outcome of one Engine.Execute call.
type BuildResult struct {
	TotalJobs     int
	CompletedJobs int
}

// Success reports whether every job that was scheduled to run completed
// successfully.
func (r BuildResult) Success() bool {
	return r.TotalJobs == r.CompletedJobs
}

// BaseTarget is an embeddable helper that implements the bookkeeping parts
// of Target (predecessors and the outdated flag) so concrete targets only
// need to implement Prepare, Execute, and Executed.
//
// outdated is guarded by mu rather than left as a bare bool: the prepare
// phase runs one goroutine per target in the build, and a target's
// Prepare (e.g. LinkTarget's) is allowed to set another target's
// outdated flag directly (spec's cross-target staleness write) while
// that other target's own goroutine is concurrently reading or writing
// the same flag. mu is a pointer so BaseTarget stays safe to assign by
// value the way every constructor in this repo does
// (t.BaseTarget = NewBaseTarget(...)): the copy shares the one mutex
// NewBaseTarget allocated rather than copying a lock.
type BaseTarget struct {
	name         string
	predecessors []Target
	mu           *sync.Mutex
	outdated     bool
}

// NewBaseTarget constructs a BaseTarget with the given name and
// predecessor list. Concrete targets embed this and override Prepare,
// Execute, and Executed as needed.
func NewBaseTarget(name string, predecessors ...Target) BaseTarget {
	return BaseTarget{name: name, predecessors: predecessors, mu: &sync.Mutex{}}
}

func (t *BaseTarget) Name() string { return t.name }

func (t *BaseTarget) Predecessors() []Target { return t.predecessors }

func (t *BaseTarget) Outdated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outdated
}

func (t *BaseTarget) SetOutdated() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outdated = true
}

func (t *BaseTarget) ClearOutdated() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outdated = false
}

// Prepare's default reports the target as up to date; override it to add
// real staleness detection.
func (t *BaseTarget) Prepare() bool { return false }

// Execute's default reports success; override it to do real work.
func (t *BaseTarget) Execute() bool { return true }

// Executed's default is a no-op; override it to report results.
func (t *BaseTarget) Executed() {}
