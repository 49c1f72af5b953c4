//go:build !windows

package vdesk

import "errors"

// Virtual desktops are a Windows shell feature; other platforms only get the
// fake-backed facade used by tests.

func newNativeManager() (desktopManager, error) {
	return nil, errors.New("vdesk: virtual desktops are only supported on windows")
}

func nativeShellOpener() (shellSession, bool) {
	return nil, false
}
