// Package jiometrics tracks a small set of atomic counters describing
// engine activity: commits, rollbacks, and recovery outcomes. It follows
// the teacher's convention of exposing counters as a plain snapshot struct
// read with atomic loads rather than wiring a full metrics backend —
// there's no Prometheus/expvar dependency anywhere in the example pack to
// ground a heavier registry on, so the registry stays a self-contained
// atomic counter set (see DESIGN.md).
package jiometrics

import "sync/atomic"

// Registry holds the engine's running counters. The zero value is ready to
// use.
type Registry struct {
	Commits      atomic.Uint64
	CommitErrors atomic.Uint64
	Rollbacks    atomic.Uint64
	Reapplied    atomic.Uint64
	Corrupt      atomic.Uint64
}

// Snapshot is a point-in-time copy of a Registry's counters.
type Snapshot struct {
	Commits      uint64
	CommitErrors uint64
	Rollbacks    uint64
	Reapplied    uint64
	Corrupt      uint64
}

// Snapshot reads every counter.
func (r *Registry) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	return Snapshot{
		Commits:      r.Commits.Load(),
		CommitErrors: r.CommitErrors.Load(),
		Rollbacks:    r.Rollbacks.Load(),
		Reapplied:    r.Reapplied.Load(),
		Corrupt:      r.Corrupt.Load(),
	}
}
