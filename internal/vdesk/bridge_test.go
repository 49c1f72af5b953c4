package vdesk

import "testing"

// fakeShell simulates the immersive-shell session with per-object release
// accounting so leak checks can compare acquire and release counts.
type fakeShell struct {
	queryHR  HResult
	internal *fakeInternalManager

	released int
}

func (s *fakeShell) InternalManager() (internalManager, HResult) {
	if !s.queryHR.Succeeded() {
		return nil, s.queryHR
	}
	return s.internal, s.queryHR
}

func (s *fakeShell) Release() { s.released++ }

type fakeInternalManager struct {
	desktops map[DesktopID]*fakeDesktop
	switchHR HResult

	switched *fakeDesktop
	released int
}

func (m *fakeInternalManager) FindDesktop(id DesktopID) (desktopHandle, HResult) {
	d, ok := m.desktops[id]
	if !ok {
		return nil, failure(0x8002802B) // TYPE_E_ELEMENTNOTFOUND
	}
	return d, S_OK
}

func (m *fakeInternalManager) SwitchDesktop(d desktopHandle) HResult {
	if m.switchHR != S_OK {
		return m.switchHR
	}
	m.switched = d.(*fakeDesktop)
	return S_OK
}

func (m *fakeInternalManager) Release() { m.released++ }

type fakeDesktop struct {
	id       DesktopID
	released int
}

func (d *fakeDesktop) Release() { d.released++ }

func TestSwitchToDesktopActivatesTarget(t *testing.T) {
	target := mustID("{44444444-4444-4444-4444-444444444444}")
	desk := &fakeDesktop{id: target}
	im := &fakeInternalManager{desktops: map[DesktopID]*fakeDesktop{target: desk}}
	shell := &fakeShell{internal: im}

	opened := 0
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		opened++
		return shell, true
	})
	defer m.Close()

	m.SwitchToDesktop(target)

	if im.switched != desk {
		t.Fatal("expected switch to resolved desktop")
	}
	if opened != 1 || shell.released != 1 {
		t.Fatalf("shell acquire/release = %d/%d, want 1/1", opened, shell.released)
	}
	if im.released != 1 {
		t.Fatalf("internal manager released %d times, want 1", im.released)
	}
	if desk.released != 1 {
		t.Fatalf("desktop released %d times, want 1", desk.released)
	}
}

func TestSwitchToDesktopRunsDiscoveryEveryCall(t *testing.T) {
	target := mustID("{44444444-4444-4444-4444-444444444444}")
	opened := 0
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		opened++
		im := &fakeInternalManager{desktops: map[DesktopID]*fakeDesktop{target: {id: target}}}
		return &fakeShell{internal: im}, true
	})
	defer m.Close()

	m.SwitchToDesktop(target)
	m.SwitchToDesktop(target)

	if opened != 2 {
		t.Fatalf("shell opened %d times for 2 switches, want 2 (no caching)", opened)
	}
}

func TestSwitchToDesktopLocatorUnavailableIsSilent(t *testing.T) {
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		return nil, false
	})
	defer m.Close()

	// Must not panic and must not surface an error.
	m.SwitchToDesktop(mustID("{55555555-5555-5555-5555-555555555555}"))
}

func TestSwitchToDesktopQueryFailureReleasesShell(t *testing.T) {
	shell := &fakeShell{queryHR: failure(0x80004002)} // E_NOINTERFACE
	opened := 0
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		opened++
		return shell, true
	})
	defer m.Close()

	m.SwitchToDesktop(mustID("{55555555-5555-5555-5555-555555555555}"))

	if opened != 1 || shell.released != 1 {
		t.Fatalf("shell acquire/release = %d/%d, want 1/1", opened, shell.released)
	}
}

func TestSwitchToDesktopUnknownIDReleasesEverything(t *testing.T) {
	im := &fakeInternalManager{desktops: map[DesktopID]*fakeDesktop{}}
	shell := &fakeShell{internal: im}
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		return shell, true
	})
	defer m.Close()

	m.SwitchToDesktop(mustID("{66666666-6666-6666-6666-666666666666}"))

	if shell.released != 1 {
		t.Fatalf("shell released %d times, want 1", shell.released)
	}
	if im.released != 1 {
		t.Fatalf("internal manager released %d times, want 1", im.released)
	}
	if im.switched != nil {
		t.Fatal("switch must not run for an unknown desktop id")
	}
}

func TestSwitchToDesktopRejectedSwitchStillReleases(t *testing.T) {
	target := mustID("{77777777-7777-7777-7777-777777777777}")
	desk := &fakeDesktop{id: target}
	im := &fakeInternalManager{
		desktops: map[DesktopID]*fakeDesktop{target: desk},
		switchHR: failure(0x80004005), // E_FAIL
	}
	shell := &fakeShell{internal: im}
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		return shell, true
	})
	defer m.Close()

	m.SwitchToDesktop(target)

	if shell.released != 1 || im.released != 1 || desk.released != 1 {
		t.Fatalf("release counts shell/im/desk = %d/%d/%d, want 1/1/1",
			shell.released, im.released, desk.released)
	}
}

func TestSwitchToDesktopAfterCloseIsNoOp(t *testing.T) {
	opened := 0
	m := newManager(newFakeDesktopManager(), func() (shellSession, bool) {
		opened++
		return &fakeShell{}, true
	})
	m.Close()

	m.SwitchToDesktop(mustID("{88888888-8888-8888-8888-888888888888}"))

	if opened != 0 {
		t.Fatalf("closed manager opened the shell %d times, want 0", opened)
	}
}
