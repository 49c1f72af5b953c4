package daemon

import (
	"encoding/json"
	"testing"

	"github.com/winhop/winhop/internal/config"
	"github.com/winhop/winhop/internal/history"
	"github.com/winhop/winhop/internal/hotkeys"
	"github.com/winhop/winhop/internal/ipc"
	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/tracker"
	"github.com/winhop/winhop/internal/winapi"
	"github.com/winhop/winhop/internal/windex"
)

type fakeOps struct {
	foreground winapi.Handle
	windows    map[winapi.Handle]string
	minimized  map[winapi.Handle]bool

	focused []winapi.Handle
}

func newFakeOps() *fakeOps {
	return &fakeOps{
		windows:   map[winapi.Handle]string{},
		minimized: map[winapi.Handle]bool{},
	}
}

func (f *fakeOps) Enum(visit func(winapi.Handle) bool) error {
	for h := range f.windows {
		if !visit(h) {
			break
		}
	}
	return nil
}

func (f *fakeOps) Title(h winapi.Handle) string         { return f.windows[h] }
func (f *fakeOps) ClassName(winapi.Handle) string       { return "TestWindow" }
func (f *fakeOps) IsWindow(h winapi.Handle) bool        { _, ok := f.windows[h]; return ok }
func (f *fakeOps) IsVisible(h winapi.Handle) bool       { return f.IsWindow(h) }
func (f *fakeOps) IsMinimized(h winapi.Handle) bool     { return f.minimized[h] }
func (f *fakeOps) HasPopupStyle(winapi.Handle) bool     { return false }
func (f *fakeOps) ProcessID(winapi.Handle) uint32       { return 42 }
func (f *fakeOps) Foreground() winapi.Handle            { return f.foreground }
func (f *fakeOps) Show(winapi.Handle) error             { return nil }
func (f *fakeOps) Hide(winapi.Handle) error             { return nil }
func (f *fakeOps) Restore(h winapi.Handle) error        { f.minimized[h] = false; return nil }
func (f *fakeOps) SetTopmost(winapi.Handle, bool) error { return nil }

func (f *fakeOps) BringToFront(h winapi.Handle) error {
	f.foreground = h
	f.focused = append(f.focused, h)
	return nil
}

func newTestDaemon(t *testing.T, ops *fakeOps) *Daemon {
	t.Helper()

	cfg := config.Default()
	d := &Daemon{
		cfg:     cfg,
		version: "test",
		log:     logging.L("daemon"),
		ops:     ops,
		hist:    history.New(cfg.HistoryDepth),
		keys:    hotkeys.NewRegistry(),
	}
	d.track = tracker.New(ops)
	d.jumpMode.Store(cfg.JumpMode)
	d.desks = startDesktopService()
	t.Cleanup(d.desks.Close)

	d.index = windex.New(windex.Options{
		Ops:      ops,
		ProcName: func(uint32) string { return "app.exe" },
	})
	d.index.Scan()
	return d
}

func call(t *testing.T, d *Daemon, msgType string, payload any) *ipc.Envelope {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	return d.handle(&ipc.Envelope{ID: "req-1", Type: msgType, Payload: raw})
}

func TestHandlePing(t *testing.T) {
	d := newTestDaemon(t, newFakeOps())

	reply := call(t, d, ipc.TypePing, nil)
	if reply.Type != ipc.TypePong || reply.Error != "" {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.ID != "req-1" {
		t.Fatalf("reply id = %q", reply.ID)
	}
}

func TestHandleStatus(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "editor"
	d := newTestDaemon(t, ops)

	reply := call(t, d, ipc.TypeStatus, nil)
	if reply.Error != "" {
		t.Fatalf("status error: %s", reply.Error)
	}

	var res ipc.StatusResult
	if err := json.Unmarshal(reply.Payload, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Version != "test" || res.Windows != 1 {
		t.Fatalf("status = %+v", res)
	}
}

func TestHandleSearch(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "main.go - editor"
	ops.windows[20] = "inbox - mail"
	d := newTestDaemon(t, ops)

	reply := call(t, d, ipc.TypeSearch, ipc.SearchRequest{Query: "editor"})
	if reply.Error != "" {
		t.Fatalf("search error: %s", reply.Error)
	}

	var res ipc.SearchResult
	if err := json.Unmarshal(reply.Payload, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.Windows) == 0 || res.Windows[0].Handle != 10 {
		t.Fatalf("search result = %+v", res)
	}
}

func TestHandleSearchLimit(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "window one"
	ops.windows[20] = "window two"
	ops.windows[30] = "window three"
	d := newTestDaemon(t, ops)

	reply := call(t, d, ipc.TypeSearch, ipc.SearchRequest{Query: "window", Limit: 2})
	var res ipc.SearchResult
	if err := json.Unmarshal(reply.Payload, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(res.Windows))
	}
}

func TestHandleJumpByQueryFocusesWindow(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "terminal"
	d := newTestDaemon(t, ops)

	reply := call(t, d, ipc.TypeJump, ipc.JumpRequest{Query: "terminal"})
	if reply.Error != "" {
		t.Fatalf("jump error: %s", reply.Error)
	}
	if len(ops.focused) != 1 || ops.focused[0] != 10 {
		t.Fatalf("focused = %v, want [10]", ops.focused)
	}

	var res ipc.JumpResult
	if err := json.Unmarshal(reply.Payload, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Window.Handle != 10 {
		t.Fatalf("jump result = %+v", res)
	}
}

func TestHandleJumpByHandleRestoresMinimized(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "terminal"
	d := newTestDaemon(t, ops)
	ops.minimized[10] = true

	reply := call(t, d, ipc.TypeJump, ipc.JumpRequest{Handle: 10})
	if reply.Error != "" {
		t.Fatalf("jump error: %s", reply.Error)
	}
	if ops.minimized[10] {
		t.Fatal("minimized window should be restored before focus")
	}
}

func TestHandleJumpNoMatch(t *testing.T) {
	d := newTestDaemon(t, newFakeOps())

	reply := call(t, d, ipc.TypeJump, ipc.JumpRequest{Query: "nothing"})
	if reply.Error == "" {
		t.Fatal("expected error for unmatched jump")
	}
}

func TestHandleJumpNeedsTarget(t *testing.T) {
	d := newTestDaemon(t, newFakeOps())

	reply := call(t, d, ipc.TypeJump, ipc.JumpRequest{})
	if reply.Error == "" {
		t.Fatal("expected error for empty jump request")
	}
}

func TestHandleSwitchDesktopRejectsBadGUID(t *testing.T) {
	d := newTestDaemon(t, newFakeOps())

	reply := call(t, d, ipc.TypeSwitchDesktop, ipc.SwitchDesktopRequest{Desktop: "not-a-guid"})
	if reply.Error == "" {
		t.Fatal("expected error for malformed desktop id")
	}
}

func TestHandleUnknownType(t *testing.T) {
	d := newTestDaemon(t, newFakeOps())

	reply := call(t, d, "bogus", nil)
	if reply.Error == "" {
		t.Fatal("expected error for unknown request type")
	}
}

func TestToggleSlotCapturesOnFirstPress(t *testing.T) {
	ops := newFakeOps()
	ops.windows[10] = "terminal"
	ops.foreground = 10
	d := newTestDaemon(t, ops)

	d.toggleSlot("term")

	captures := d.track.List()
	if len(captures) != 1 || captures[0].Slot != "term" || captures[0].Handle != 10 {
		t.Fatalf("captures = %+v", captures)
	}
}
