package vdesk

import "github.com/winhop/winhop/internal/logging"

// SwitchToDesktop activates the desktop identified by id. Best effort: the
// switch operation only exists on the undocumented internal contract, whose
// availability depends on the OS build, so every failure here degrades to a
// logged no-op rather than an error. Resource cleanup is still guaranteed on
// every path.
//
// Discovery runs fresh on each call. The shell may recreate its backing
// objects at any time, so nothing from a previous switch is cached.
func (m *Manager) SwitchToDesktop(id DesktopID) {
	if !m.ref.Live() {
		m.log.Debug("switch skipped, manager closed", logging.KeyDesktop, id.String())
		return
	}

	sess, ok := m.openShell()
	if !ok {
		m.log.Debug("desktop switch unavailable: no shell service locator")
		return
	}
	shellRef := newNativeRef(sess.Release)
	defer shellRef.Release()

	im, hr := sess.InternalManager()
	if !hr.Succeeded() || im == nil {
		m.log.Debug("desktop switch unavailable: internal manager not resolved",
			"status", FormatHResult(hr))
		return
	}
	imRef := newNativeRef(im.Release)
	defer imRef.Release()

	d, hr := im.FindDesktop(id)
	if hr != S_OK || d == nil {
		m.log.Debug("desktop switch skipped: desktop not found",
			logging.KeyDesktop, id.String(), "status", FormatHResult(hr))
		return
	}
	dRef := newNativeRef(d.Release)
	defer dRef.Release()

	if hr := im.SwitchDesktop(d); hr != S_OK {
		m.log.Debug("desktop switch rejected", logging.KeyDesktop, id.String(),
			"status", FormatHResult(hr))
	}
}
