// Package vdesk binds to the Windows virtual-desktop COM surface and exposes
// a small resource-safe facade: membership query, desktop-id query, moving a
// window between desktops, and best-effort desktop switching.
//
// The public IVirtualDesktopManager contract backs the first three
// operations. Switching has no public entry point and goes through the
// undocumented IVirtualDesktopManagerInternal, reached by a per-call
// service-provider lookup on the immersive shell (see bridge.go).
//
// All COM objects here are apartment-affine: a Manager must be created,
// used, and closed on one OS thread with COM initialized. The daemon pins a
// goroutine with runtime.LockOSThread and funnels every call through it;
// the package adds no locking of its own.
package vdesk

import (
	"github.com/go-ole/go-ole"
)

// Window is an opaque top-level window handle (HWND). It is supplied by the
// caller and never validated for liveness; a stale handle comes back as a
// native failure status, not a crash.
type Window uintptr

// DesktopID identifies one virtual desktop. It is a 128-bit GUID owned by
// the OS desktop subsystem; this package only reads and passes it. The zero
// value is not a sentinel and is passed through unchanged.
type DesktopID ole.GUID

// ParseDesktopID parses a "{xxxxxxxx-xxxx-...}" GUID string.
func ParseDesktopID(s string) (DesktopID, error) {
	g := ole.NewGUID(s)
	if g == nil {
		return DesktopID{}, &ParseError{Input: s}
	}
	return DesktopID(*g), nil
}

func (id DesktopID) String() string {
	g := ole.GUID(id)
	return g.String()
}

// IsZero reports whether id is the all-zero GUID.
func (id DesktopID) IsZero() bool {
	return id == DesktopID{}
}

// Equal reports GUID equality. DesktopIDs have no ordering.
func (id DesktopID) Equal(other DesktopID) bool {
	return id == other
}

// MarshalText encodes the id in its braced GUID form so JSON carriers stay
// readable.
func (id DesktopID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the braced GUID form.
func (id *DesktopID) UnmarshalText(b []byte) error {
	parsed, err := ParseDesktopID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// desktopManager is the raw surface of the public desktop-manager contract.
// Implementations return the native status verbatim; translating statuses
// into errors is the Manager's job, so the COM path and the test fakes
// exercise identical facade code.
type desktopManager interface {
	IsWindowOnCurrentDesktop(w Window) (bool, HResult)
	WindowDesktopID(w Window) (DesktopID, HResult)
	MoveWindowToDesktop(w Window, id DesktopID) HResult
	Release()
}

// shellOpener opens a short-lived connection to the immersive shell for one
// desktop switch. ok=false means the shell or its service locator is
// unavailable, which the bridge treats as a soft failure.
type shellOpener func() (shellSession, bool)

// shellSession is one per-call hold on the shell object and its service
// locator. Release must be called exactly once per opened session.
type shellSession interface {
	// InternalManager resolves the undocumented desktop manager through
	// the service locator. A failed status means the contract is not
	// available on this OS build.
	InternalManager() (internalManager, HResult)
	Release()
}

// internalManager is the slice of the undocumented contract the bridge
// needs: resolve a desktop object by id, then switch to it.
type internalManager interface {
	FindDesktop(id DesktopID) (desktopHandle, HResult)
	SwitchDesktop(d desktopHandle) HResult
	Release()
}

// desktopHandle is a resolved internal desktop object.
type desktopHandle interface {
	Release()
}
