package tracker

import (
	"errors"
	"testing"

	"github.com/winhop/winhop/internal/winapi"
)

type fakeOps struct {
	foreground winapi.Handle
	titles     map[winapi.Handle]string
	exists     map[winapi.Handle]bool
	visible    map[winapi.Handle]bool
	minimized  map[winapi.Handle]bool
	topmost    map[winapi.Handle]bool

	broughtToFront []winapi.Handle
}

func newFakeOps() *fakeOps {
	return &fakeOps{
		titles:    map[winapi.Handle]string{},
		exists:    map[winapi.Handle]bool{},
		visible:   map[winapi.Handle]bool{},
		minimized: map[winapi.Handle]bool{},
		topmost:   map[winapi.Handle]bool{},
	}
}

func (f *fakeOps) addWindow(h winapi.Handle, title string) {
	f.exists[h] = true
	f.visible[h] = true
	f.titles[h] = title
}

func (f *fakeOps) Enum(func(winapi.Handle) bool) error      { return nil }
func (f *fakeOps) Title(h winapi.Handle) string             { return f.titles[h] }
func (f *fakeOps) ClassName(winapi.Handle) string           { return "" }
func (f *fakeOps) IsWindow(h winapi.Handle) bool            { return f.exists[h] }
func (f *fakeOps) IsVisible(h winapi.Handle) bool           { return f.visible[h] }
func (f *fakeOps) IsMinimized(h winapi.Handle) bool         { return f.minimized[h] }
func (f *fakeOps) HasPopupStyle(winapi.Handle) bool         { return false }
func (f *fakeOps) ProcessID(winapi.Handle) uint32           { return 0 }
func (f *fakeOps) Foreground() winapi.Handle                { return f.foreground }

func (f *fakeOps) Show(h winapi.Handle) error {
	f.visible[h] = true
	return nil
}

func (f *fakeOps) Hide(h winapi.Handle) error {
	f.visible[h] = false
	if f.foreground == h {
		f.foreground = 0
	}
	return nil
}

func (f *fakeOps) Restore(h winapi.Handle) error {
	f.minimized[h] = false
	return nil
}

func (f *fakeOps) BringToFront(h winapi.Handle) error {
	f.foreground = h
	f.broughtToFront = append(f.broughtToFront, h)
	return nil
}

func (f *fakeOps) SetTopmost(h winapi.Handle, on bool) error {
	f.topmost[h] = on
	return nil
}

func TestCaptureBindsForegroundWindow(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	c, err := tr.Capture("slot1")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if c.Handle != 10 || c.Title != "terminal" {
		t.Fatalf("capture = %+v", c)
	}
	if c.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("capture id not assigned")
	}
}

func TestCaptureWithoutForegroundFails(t *testing.T) {
	tr := New(newFakeOps())
	if _, err := tr.Capture("slot1"); err == nil {
		t.Fatal("capture with no foreground window should fail")
	}
}

func TestCaptureReplacesSlot(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "a")
	ops.addWindow(20, "b")

	tr := New(ops)
	ops.foreground = 10
	tr.Capture("slot1")
	ops.foreground = 20
	tr.Capture("slot1")

	list := tr.List()
	if len(list) != 1 || list[0].Handle != 20 {
		t.Fatalf("list = %+v, want single capture of 20", list)
	}
}

func TestToggleHidesForegroundWindow(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")

	if err := tr.Toggle("slot1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if ops.visible[10] {
		t.Fatal("foreground window should be hidden after toggle")
	}
}

func TestToggleShowsHiddenWindow(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")
	tr.Toggle("slot1") // hides

	if err := tr.Toggle("slot1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !ops.visible[10] || ops.foreground != 10 {
		t.Fatal("hidden window should be shown and focused after toggle")
	}
}

func TestToggleFocusesBackgroundWindow(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.addWindow(20, "browser")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")
	ops.foreground = 20

	if err := tr.Toggle("slot1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if ops.foreground != 10 {
		t.Fatal("background window should be focused, not hidden")
	}
	if !ops.visible[10] {
		t.Fatal("window must stay visible")
	}
}

func TestToggleRestoresMinimizedWindow(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")
	ops.foreground = 0
	ops.minimized[10] = true

	if err := tr.Toggle("slot1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if ops.minimized[10] {
		t.Fatal("minimized window should be restored")
	}
}

func TestToggleDeadWindowUnbindsSlot(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")
	delete(ops.exists, 10)

	if err := tr.Toggle("slot1"); !errors.Is(err, ErrNoCapture) {
		t.Fatalf("toggle dead window = %v, want ErrNoCapture", err)
	}
	if len(tr.List()) != 0 {
		t.Fatal("dead capture should have been unbound")
	}
}

func TestToggleTopmostFlipsState(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "terminal")
	ops.foreground = 10

	tr := New(ops)
	tr.Capture("slot1")

	on, err := tr.ToggleTopmost("slot1")
	if err != nil || !on {
		t.Fatalf("first toggle = %v/%v, want true", on, err)
	}
	if !ops.topmost[10] {
		t.Fatal("window should be topmost")
	}

	on, err = tr.ToggleTopmost("slot1")
	if err != nil || on {
		t.Fatalf("second toggle = %v/%v, want false", on, err)
	}
	if ops.topmost[10] {
		t.Fatal("window should no longer be topmost")
	}
}

func TestPruneDropsDeadCaptures(t *testing.T) {
	ops := newFakeOps()
	ops.addWindow(10, "a")
	ops.addWindow(20, "b")

	tr := New(ops)
	ops.foreground = 10
	tr.Capture("slot1")
	ops.foreground = 20
	tr.Capture("slot2")

	delete(ops.exists, 10)
	tr.Prune()

	list := tr.List()
	if len(list) != 1 || list[0].Slot != "slot2" {
		t.Fatalf("list after prune = %+v, want only slot2", list)
	}
}
