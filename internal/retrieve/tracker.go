package retrieve

import "sync"

// TimestampTracker records, per build, the timestamp of the last write known
// to have happened, as reported by whatever component produces the log events
// (the write side). The completion oracle reads it to decide whether the
// remote store has caught up.
//
// A tracker lives for the duration of a build and only ever moves forward:
// Observe keeps the maximum timestamp seen. It is safe for concurrent use;
// callers never hold its lock across network calls.
type TimestampTracker struct {
	mu     sync.Mutex
	latest map[string]int64
}

// NewTimestampTracker creates an empty tracker
func NewTimestampTracker() *TimestampTracker {
	return &TimestampTracker{latest: make(map[string]int64)}
}

// Observe records a write at the given epoch-millisecond timestamp for a
// build. Older timestamps than the currently tracked one are ignored.
func (t *TimestampTracker) Observe(buildID string, timestamp int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timestamp > t.latest[buildID] {
		t.latest[buildID] = timestamp
	}
}

// LatestKnown returns the last known write timestamp for a build.
// ok is false when no write has been observed.
func (t *TimestampTracker) LatestKnown(buildID string) (timestamp int64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts, ok := t.latest[buildID]
	return ts, ok
}

// Forget drops the tracked state for a build. Call it once the build is fully
// retired; during a build the tracker never shrinks.
func (t *TimestampTracker) Forget(buildID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.latest, buildID)
}
