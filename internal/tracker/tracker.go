// Package tracker manages captured windows. A capture binds the current
// foreground window to a hotkey slot; the slot's hotkey then toggles the
// window like a drop-down console, and a separate action pins it topmost.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/winapi"
)

// ErrNoCapture is returned when a slot has no captured window.
var ErrNoCapture = errors.New("tracker: no window captured for slot")

// Capture is one slot-to-window binding.
type Capture struct {
	ID         uuid.UUID     `json:"id"`
	Slot       string        `json:"slot"`
	Handle     winapi.Handle `json:"handle"`
	Title      string        `json:"title"`
	Topmost    bool          `json:"topmost"`
	CapturedAt time.Time     `json:"capturedAt"`
}

// Tracker holds the capture table. Safe for concurrent use.
type Tracker struct {
	ops winapi.Ops
	log *slog.Logger

	mu    sync.Mutex
	slots map[string]*Capture
}

func New(ops winapi.Ops) *Tracker {
	return &Tracker{
		ops:   ops,
		log:   logging.L("tracker"),
		slots: make(map[string]*Capture),
	}
}

// Capture binds the foreground window to slot, replacing any previous
// binding for that slot.
func (t *Tracker) Capture(slot string) (Capture, error) {
	h := t.ops.Foreground()
	if h == 0 || !t.ops.IsWindow(h) {
		return Capture{}, fmt.Errorf("tracker: no foreground window to capture")
	}

	c := &Capture{
		ID:         uuid.New(),
		Slot:       slot,
		Handle:     h,
		Title:      t.ops.Title(h),
		CapturedAt: time.Now(),
	}

	t.mu.Lock()
	t.slots[slot] = c
	t.mu.Unlock()

	t.log.Info("window captured", "slot", slot, logging.KeyWindow, uint64(h), "title", c.Title)
	return *c, nil
}

// Toggle flips the slot's window between hidden and focused. A hidden
// window is shown and brought to front, a background window is brought to
// front, and a foreground window is hidden. A dead window unbinds the slot.
func (t *Tracker) Toggle(slot string) error {
	c, err := t.liveCapture(slot)
	if err != nil {
		return err
	}
	h := c.Handle

	switch {
	case !t.ops.IsVisible(h):
		if err := t.ops.Show(h); err != nil {
			return err
		}
		if t.ops.IsMinimized(h) {
			t.ops.Restore(h)
		}
		return t.ops.BringToFront(h)
	case t.ops.Foreground() == h:
		return t.ops.Hide(h)
	default:
		if t.ops.IsMinimized(h) {
			t.ops.Restore(h)
		}
		return t.ops.BringToFront(h)
	}
}

// ToggleTopmost flips the always-on-top state of the slot's window and
// returns the new state. The state is tracked here because user32 has no
// cheap topmost query.
func (t *Tracker) ToggleTopmost(slot string) (bool, error) {
	c, err := t.liveCapture(slot)
	if err != nil {
		return false, err
	}

	t.mu.Lock()
	want := !c.Topmost
	t.mu.Unlock()

	if err := t.ops.SetTopmost(c.Handle, want); err != nil {
		return false, err
	}

	t.mu.Lock()
	c.Topmost = want
	t.mu.Unlock()

	t.log.Info("topmost toggled", "slot", slot, "topmost", want)
	return want, nil
}

// liveCapture resolves the slot and unbinds it if the window died.
func (t *Tracker) liveCapture(slot string) (*Capture, error) {
	t.mu.Lock()
	c, ok := t.slots[slot]
	t.mu.Unlock()
	if !ok {
		return nil, ErrNoCapture
	}

	if !t.ops.IsWindow(c.Handle) {
		t.mu.Lock()
		delete(t.slots, slot)
		t.mu.Unlock()
		t.log.Info("captured window gone, slot released", "slot", slot)
		return nil, ErrNoCapture
	}
	return c, nil
}

// Release drops the slot's binding. Releasing an empty slot is a no-op.
func (t *Tracker) Release(slot string) {
	t.mu.Lock()
	delete(t.slots, slot)
	t.mu.Unlock()
}

// Prune unbinds every slot whose window no longer exists.
func (t *Tracker) Prune() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for slot, c := range t.slots {
		if !t.ops.IsWindow(c.Handle) {
			delete(t.slots, slot)
		}
	}
}

// List returns the current captures ordered by slot name.
func (t *Tracker) List() []Capture {
	t.mu.Lock()
	out := make([]Capture, 0, len(t.slots))
	for _, c := range t.slots {
		out = append(out, *c)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
