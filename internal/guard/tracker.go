package guard

import (
	"sync"
	"time"
)

// evictThreshold is the map size above which CheckAndSet prunes identifiers
// whose cooldown has long since elapsed. Entries older than the window can
// never cause a rejection, so pruning them is invisible to callers.
const evictThreshold = 10000

// Tracker records, per client identifier, the epoch-millisecond timestamp of
// the last accepted submission attempt. It is process-wide mutable state:
// one instance is shared by both endpoints, entries are overwritten in
// place, and everything resets on process restart.
//
// The check-then-write sequence is performed under a single lock so that two
// concurrent requests from the same identifier cannot both observe a stale
// "not limited" state.
type Tracker struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]int64)}
}

// CheckAndSet atomically checks whether id is still cooling down relative to
// now and, if not, records now as the identifier's last attempt.
//
// When the identifier is inside the window the remaining wait is returned
// and the stored timestamp is left untouched, so the remaining wait shrinks
// monotonically as now approaches the boundary. At exactly window elapsed
// the attempt passes.
//
// Note the timestamp is consumed by attempts, not successes: a later gate or
// validation failure does not refund the cooldown.
func (t *Tracker) CheckAndSet(id string, now time.Time, window time.Duration) (remaining time.Duration, ok bool) {
	nowMs := now.UnixMilli()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, seen := t.last[id]; seen {
		elapsed := time.Duration(nowMs-last) * time.Millisecond
		if elapsed < window {
			return window - elapsed, false
		}
	}

	if len(t.last) >= evictThreshold {
		t.evictLocked(nowMs, window)
	}
	t.last[id] = nowMs
	return 0, true
}

// Len reports the number of tracked identifiers.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}

// evictLocked drops identifiers idle for longer than the window. Caller must
// hold t.mu.
func (t *Tracker) evictLocked(nowMs int64, window time.Duration) {
	for id, last := range t.last {
		if time.Duration(nowMs-last)*time.Millisecond >= window {
			delete(t.last, id)
		}
	}
}
