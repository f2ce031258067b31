package ingest

import "sync/atomic"

// RunTracker hands out increasing run ids. Starting a run makes every
// earlier run stale.
type RunTracker struct {
	current atomic.Uint64
}

// Begin starts a new run and returns its id.
func (t *RunTracker) Begin() uint64 {
	return t.current.Add(1)
}

// IsCurrent reports whether run is the latest one started.
func (t *RunTracker) IsCurrent(run uint64) bool {
	return t.current.Load() == run
}
