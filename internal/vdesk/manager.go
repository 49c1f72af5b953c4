package vdesk

import (
	"log/slog"
	"runtime"

	"github.com/winhop/winhop/internal/logging"
)

// Manager is the interop facade over the public desktop-manager contract.
// It owns exactly one native reference for its whole lifetime and must be
// closed exactly once; operations after Close fail with ErrClosed without
// touching native memory.
type Manager struct {
	api       desktopManager
	ref       *nativeRef
	openShell shellOpener
	log       *slog.Logger
}

// New binds to the public desktop-manager contract. The calling thread must
// have COM initialized (apartment-threaded) and the returned Manager must
// stay on that thread.
func New() (*Manager, error) {
	api, err := newNativeManager()
	if err != nil {
		return nil, err
	}
	return newManager(api, nativeShellOpener), nil
}

func newManager(api desktopManager, open shellOpener) *Manager {
	m := &Manager{
		api:       api,
		ref:       newNativeRef(api.Release),
		openShell: open,
		log:       logging.L("vdesk"),
	}
	// Fallback so an abandoned Manager cannot leak the native refcount.
	// Close is idempotent, so an explicit Close beats the finalizer and the
	// finalizer never fires twice.
	runtime.SetFinalizer(m, (*Manager).finalize)
	return m
}

func (m *Manager) finalize() {
	m.ref.Release()
}

func (m *Manager) ensureLive() error {
	if !m.ref.Live() {
		return ErrClosed
	}
	return nil
}

// IsOnCurrentDesktop reports whether w is on the currently active desktop.
func (m *Manager) IsOnCurrentDesktop(w Window) (bool, error) {
	if err := m.ensureLive(); err != nil {
		return false, err
	}
	on, hr := m.api.IsWindowOnCurrentDesktop(w)
	if hr != S_OK {
		return false, &NativeCallError{Op: "IsWindowOnCurrentVirtualDesktop", HResult: hr}
	}
	return on, nil
}

// DesktopID returns the id of the desktop w lives on. The id is returned
// verbatim; the native contract defines no sentinel, so even an all-zero id
// passes through unchanged.
func (m *Manager) DesktopID(w Window) (DesktopID, error) {
	if err := m.ensureLive(); err != nil {
		return DesktopID{}, err
	}
	id, hr := m.api.WindowDesktopID(w)
	if hr != S_OK {
		return DesktopID{}, &NativeCallError{Op: "GetWindowDesktopId", HResult: hr}
	}
	return id, nil
}

// MoveToDesktop moves w to the desktop identified by id. On failure the
// move is a complete no-op; the new association is only observable through
// a later DesktopID or IsOnCurrentDesktop call.
func (m *Manager) MoveToDesktop(w Window, id DesktopID) error {
	if err := m.ensureLive(); err != nil {
		return err
	}
	if hr := m.api.MoveWindowToDesktop(w, id); hr != S_OK {
		return &NativeCallError{Op: "MoveWindowToDesktop", HResult: hr}
	}
	return nil
}

// Close releases the native reference. Safe to call more than once; later
// calls are no-ops.
func (m *Manager) Close() error {
	runtime.SetFinalizer(m, nil)
	m.ref.Release()
	return nil
}
