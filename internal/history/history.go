// Package history keeps the window activation history that backs the
// prev/next jump hotkeys. Entries are ordered oldest to newest; jumping
// moves a cursor through them cyclically without reordering, and organic
// activations push to the front and reset the cursor.
package history

import (
	"sync"

	"github.com/winhop/winhop/internal/winapi"
)

// Ring is a bounded activation history. Safe for concurrent use.
type Ring struct {
	mu       sync.Mutex
	depth    int
	items    []winapi.Handle
	cursor   int
	expected winapi.Handle
	suppress int
}

// New returns a ring that remembers up to depth activations. Depth below 2
// is raised to 2 since a one-entry history has nothing to jump to.
func New(depth int) *Ring {
	if depth < 2 {
		depth = 2
	}
	return &Ring{depth: depth, cursor: -1}
}

// Record notes a foreground transition to h. An activation the ring itself
// caused through Prev or Next is swallowed so jumping back and forth does
// not rewrite the order being jumped through.
func (r *Ring) Record(h winapi.Handle) {
	if h == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suppress > 0 && h == r.expected {
		r.suppress--
		return
	}
	r.suppress = 0

	for i, it := range r.items {
		if it == h {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	r.items = append(r.items, h)
	if len(r.items) > r.depth {
		r.items = r.items[len(r.items)-r.depth:]
	}
	r.cursor = len(r.items) - 1
}

// Prev steps the cursor one entry back, wrapping at the oldest, and returns
// the handle to activate. The matching activation is suppressed.
func (r *Ring) Prev() (winapi.Handle, bool) {
	return r.step(-1)
}

// Next steps the cursor one entry forward, wrapping at the newest.
func (r *Ring) Next() (winapi.Handle, bool) {
	return r.step(1)
}

func (r *Ring) step(dir int) (winapi.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.items)
	if n < 2 {
		return 0, false
	}
	r.cursor = ((r.cursor+dir)%n + n) % n
	h := r.items[r.cursor]
	r.expected = h
	r.suppress++
	return h, true
}

// Prune drops entries the alive check rejects. The cursor is clamped so a
// jump after pruning stays in bounds.
func (r *Ring) Prune(alive func(winapi.Handle) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, h := range r.items {
		if alive(h) {
			kept = append(kept, h)
		}
	}
	r.items = kept
	if r.cursor >= len(r.items) {
		r.cursor = len(r.items) - 1
	}
}

// Snapshot returns the history oldest first.
func (r *Ring) Snapshot() []winapi.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]winapi.Handle, len(r.items))
	copy(out, r.items)
	return out
}
