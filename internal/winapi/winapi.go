// Package winapi wraps the small slice of user32 the daemon needs: top-level
// window enumeration, titles and classes, visibility and z-order control.
package winapi

import "errors"

// ErrUnsupported is returned by the stub backend on non-Windows builds.
var ErrUnsupported = errors.New("winapi: window operations are only supported on windows")

// Handle is an opaque top-level window handle (HWND).
type Handle uintptr

// Ops abstracts the window-system calls so the index, tracker, and history
// packages can run against fakes in tests.
type Ops interface {
	// Enum visits every top-level window until visit returns false.
	Enum(visit func(Handle) bool) error
	Title(h Handle) string
	ClassName(h Handle) string
	IsWindow(h Handle) bool
	IsVisible(h Handle) bool
	IsMinimized(h Handle) bool
	// HasPopupStyle reports the WS_POPUP style bit; popups are excluded
	// from the index.
	HasPopupStyle(h Handle) bool
	ProcessID(h Handle) uint32
	Foreground() Handle

	Show(h Handle) error
	Hide(h Handle) error
	Restore(h Handle) error
	BringToFront(h Handle) error
	SetTopmost(h Handle, on bool) error
}

// New returns the platform backend: real user32 calls on Windows, an
// ErrUnsupported stub elsewhere.
func New() Ops {
	return newBackend()
}
