// Package hotkeys parses "ctrl+alt+c" chord specs and keeps the global
// hotkey registrations that drive daemon actions. Registration goes through
// the platform layer; on non-Windows builds binding always fails.
package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/winhop/winhop/internal/logging"
)

// ErrUnsupported is returned by Bind on platforms without global hotkeys.
var ErrUnsupported = errors.New("hotkeys: global hotkeys are only supported on windows")

// Chord is a parsed hotkey: at least one modifier plus exactly one key.
type Chord struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
	Key   string
}

// ParseChord parses a "+"-separated spec such as "ctrl+alt+c". Modifier
// order and case do not matter. The key must be last conceptually but may
// appear anywhere; exactly one non-modifier part is required.
func ParseChord(spec string) (Chord, error) {
	var c Chord
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			return Chord{}, fmt.Errorf("hotkeys: empty part in %q", spec)
		case "ctrl", "control":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt":
			c.Alt = true
		case "win", "super", "meta":
			c.Win = true
		default:
			if c.Key != "" {
				return Chord{}, fmt.Errorf("hotkeys: multiple keys in %q", spec)
			}
			c.Key = p
		}
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("hotkeys: no key in %q", spec)
	}
	if !c.Ctrl && !c.Shift && !c.Alt && !c.Win {
		return Chord{}, fmt.Errorf("hotkeys: no modifier in %q", spec)
	}
	if !knownKey(c.Key) {
		return Chord{}, fmt.Errorf("hotkeys: unknown key %q in %q", c.Key, spec)
	}
	return c, nil
}

// knownKey accepts letters, digits, function keys, arrows, and a few named
// keys. The set matches what the platform layer can translate.
func knownKey(k string) bool {
	if len(k) == 1 {
		b := k[0]
		return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
	}
	switch k {
	case "space", "tab", "escape", "enter", "delete",
		"left", "right", "up", "down":
		return true
	}
	if strings.HasPrefix(k, "f") {
		switch k {
		case "f1", "f2", "f3", "f4", "f5", "f6",
			"f7", "f8", "f9", "f10", "f11", "f12":
			return true
		}
	}
	return false
}

// String renders the chord in canonical ctrl, shift, alt, win order.
func (c Chord) String() string {
	parts := make([]string, 0, 5)
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Win {
		parts = append(parts, "win")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

type binding struct {
	spec string
	stop func()
}

// Registry owns the active hotkey registrations, one per action name.
// Safe for concurrent use.
type Registry struct {
	log *slog.Logger

	mu    sync.Mutex
	bound map[string]*binding
}

func NewRegistry() *Registry {
	return &Registry{
		log:   logging.L("hotkeys"),
		bound: make(map[string]*binding),
	}
}

// Bind registers spec for action and calls fn on every press. Rebinding an
// action first drops its previous registration, so config reloads swap
// chords atomically per action.
func (r *Registry) Bind(action, spec string, fn func()) error {
	chord, err := ParseChord(spec)
	if err != nil {
		return err
	}

	stop, err := registerChord(chord, fn)
	if err != nil {
		return fmt.Errorf("hotkeys: register %s for %s: %w", chord, action, err)
	}

	r.mu.Lock()
	if prev, ok := r.bound[action]; ok {
		prev.stop()
	}
	r.bound[action] = &binding{spec: chord.String(), stop: stop}
	r.mu.Unlock()

	r.log.Info("hotkey bound", "action", action, logging.KeyHotkey, chord.String())
	return nil
}

// Unbind drops the action's registration if it has one.
func (r *Registry) Unbind(action string) {
	r.mu.Lock()
	b, ok := r.bound[action]
	if ok {
		delete(r.bound, action)
	}
	r.mu.Unlock()
	if ok {
		b.stop()
	}
}

// Bindings lists active registrations as "action chord" lines, sorted.
func (r *Registry) Bindings() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.bound))
	for action, b := range r.bound {
		out = append(out, action+" "+b.spec)
	}
	r.mu.Unlock()
	sort.Strings(out)
	return out
}

// Close drops every registration.
func (r *Registry) Close() {
	r.mu.Lock()
	bound := r.bound
	r.bound = make(map[string]*binding)
	r.mu.Unlock()
	for _, b := range bound {
		b.stop()
	}
}
