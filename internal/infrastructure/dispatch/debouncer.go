// Package dispatch provides the per-key trailing debouncer used to collapse
// bursts of quantity updates into a single backend call.
package dispatch

import (
	"sync"
	"time"
)

// KeyedDebouncer coalesces rapid repeated scheduling for the same key into
// one trailing invocation. Each key owns its own timer, so bursts on one key
// never cancel or delay another key's pending call. A superseded call is
// simply never issued; anything already fired runs to completion.
type KeyedDebouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewKeyedDebouncer creates a debouncer with a fixed trailing window.
func NewKeyedDebouncer(window time.Duration) *KeyedDebouncer {
	return &KeyedDebouncer{
		window:  window,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule queues fn to run after the window elapses with no further
// Schedule calls for the same key. A pending call for the key is replaced;
// only the last fn within the window actually runs.
func (d *KeyedDebouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, exists := d.pending[key]; exists {
		timer.Stop()
	}

	d.pending[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.pending, key)
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			fn()
		}
	})
}

// Cancel drops any pending call for the key without running it.
func (d *KeyedDebouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	timer, exists := d.pending[key]
	if !exists {
		return false
	}
	timer.Stop()
	delete(d.pending, key)
	return true
}

// PendingCount reports how many keys have a call waiting.
func (d *KeyedDebouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels every pending call and rejects further scheduling.
func (d *KeyedDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, timer := range d.pending {
		timer.Stop()
		delete(d.pending, key)
	}
}
