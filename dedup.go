package dpd

import (
	"context"
	"sync"
)

// dedupEntry is one in-flight logical call shared between callers.
type dedupEntry struct {
	records []Record
	err     error
	done    chan struct{}
}

// dedupTracker coalesces concurrent calls with the same request
// signature: the first caller owns the transport call, later callers wait
// on its outcome. Off by default — duplicate concurrent transport calls
// are acceptable for this API, so this is opt-in via WithDeduplication.
type dedupTracker struct {
	mu      sync.Mutex
	entries map[string]*dedupEntry
}

func newDedupTracker() *dedupTracker {
	return &dedupTracker{
		entries: make(map[string]*dedupEntry),
	}
}

// getOrCreate returns an existing entry (owner=false) or registers a new
// one (owner=true).
func (dt *dedupTracker) getOrCreate(key string) (*dedupEntry, bool) {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if entry, exists := dt.entries[key]; exists {
		return entry, false
	}

	entry := &dedupEntry{done: make(chan struct{})}
	dt.entries[key] = entry
	return entry, true
}

// complete publishes the outcome and releases waiters. The entry is
// removed immediately: later calls with the same signature start fresh
// (or hit the cache).
func (dt *dedupTracker) complete(key string, records []Record, err error) {
	dt.mu.Lock()
	entry, exists := dt.entries[key]
	if exists {
		delete(dt.entries, key)
	}
	dt.mu.Unlock()

	if !exists {
		return
	}
	entry.records = records
	entry.err = err
	close(entry.done)
}

// wait blocks until the owning call completes or the context cancels.
func (entry *dedupEntry) wait(ctx context.Context) ([]Record, error) {
	select {
	case <-entry.done:
		return entry.records, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
