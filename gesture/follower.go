package gesture

import "sync"

// Follower coalesces drag-follower position updates: at most one update is
// pending at any time, and newer positions overwrite the pending one instead
// of queuing. The render loop drains it once per frame with Take.
type Follower struct {
	mu      sync.Mutex
	x, y    float64
	pending bool
}

// Set records the latest follower position, replacing any pending one.
func (f *Follower) Set(x, y float64) {
	f.mu.Lock()
	f.x, f.y = x, y
	f.pending = true
	f.mu.Unlock()
}

// Take returns the pending position and clears it. ok is false when no update
// arrived since the last call.
func (f *Follower) Take() (x, y float64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.pending {
		return 0, 0, false
	}
	f.pending = false
	return f.x, f.y, true
}
