// Package daemon runs the winhop background process: the window index
// scanner, activation history, capture slots, global hotkeys, the
// virtual-desktop service, and the control pipe the CLI talks to.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/winhop/winhop/internal/config"
	"github.com/winhop/winhop/internal/history"
	"github.com/winhop/winhop/internal/hotkeys"
	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/tracker"
	"github.com/winhop/winhop/internal/vdesk"
	"github.com/winhop/winhop/internal/winapi"
	"github.com/winhop/winhop/internal/windex"
	"github.com/winhop/winhop/internal/workerpool"
)

// mainSlot is the capture slot the global capture and toggle actions use.
// Extra slots come from the per-window hotkey table.
const mainSlot = "main"

// foregroundPollInterval drives the activation watcher. A poll is simpler
// than a WinEvent hook and 4Hz is fast enough for history ordering.
const foregroundPollInterval = 250 * time.Millisecond

// Daemon wires the subsystems together.
type Daemon struct {
	cfg     *config.Config
	version string
	log     *slog.Logger

	ops   winapi.Ops
	desks *desktopService
	pool  *workerpool.Pool
	index *windex.Index
	hist  *history.Ring
	track *tracker.Tracker
	keys  *hotkeys.Registry

	jumpMode atomic.Value // string
	started  time.Time
}

// New builds a daemon from validated config.
func New(cfg *config.Config, version string) *Daemon {
	d := &Daemon{
		cfg:     cfg,
		version: version,
		log:     logging.L("daemon"),
		ops:     winapi.New(),
		hist:    history.New(cfg.HistoryDepth),
		keys:    hotkeys.NewRegistry(),
	}
	d.track = tracker.New(d.ops)
	d.jumpMode.Store(cfg.JumpMode)
	return d
}

// Run starts every subsystem and blocks until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.started = time.Now()

	d.desks = startDesktopService()
	defer d.desks.Close()

	d.pool = workerpool.New(d.cfg.ScanWorkers, d.cfg.ScanWorkers*8)

	var desks windex.DesktopQuerier
	if d.desks.Available() {
		desks = d.desks
	}
	d.index = windex.New(windex.Options{
		Ops:             d.ops,
		Desktops:        desks,
		Pool:            d.pool,
		ExcludedClasses: d.cfg.ExcludedClasses,
		Interval:        time.Duration(d.cfg.ScanIntervalSeconds) * time.Second,
	})
	go d.index.Run(ctx)
	go d.watchForeground(ctx)

	d.bindHotkeys(d.cfg)
	defer d.keys.Close()

	stopServer, err := d.serveControl(ctx)
	if err != nil {
		d.log.Warn("control pipe unavailable", logging.KeyError, err)
	} else {
		defer stopServer()
	}

	d.log.Info("daemon started",
		"version", d.version,
		"desktops", d.desks.Available(),
		"pipe", d.cfg.PipeName)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	d.pool.Shutdown(shutdownCtx)

	d.log.Info("daemon stopped")
	return nil
}

// watchForeground polls the foreground window and feeds activation history
// and index ordering. Dead windows are pruned on a slower cadence.
func (d *Daemon) watchForeground(ctx context.Context) {
	t := time.NewTicker(foregroundPollInterval)
	defer t.Stop()

	var last winapi.Handle
	pruneCountdown := 40
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if h := d.ops.Foreground(); h != 0 && h != last {
				last = h
				d.hist.Record(h)
				d.index.MarkActive(h)
			}
			if pruneCountdown--; pruneCountdown <= 0 {
				pruneCountdown = 40
				d.hist.Prune(d.ops.IsWindow)
				d.track.Prune()
			}
		}
	}
}

// bindHotkeys registers the action table and the per-window slots. A chord
// that fails to register is logged and skipped so one conflict does not
// take the daemon down.
func (d *Daemon) bindHotkeys(cfg *config.Config) {
	for action, spec := range cfg.Hotkeys {
		action := action
		if err := d.keys.Bind(action, spec, func() { d.runAction(action, mainSlot) }); err != nil {
			d.logBindFailure(action, spec, err)
		}
	}
	for spec, slot := range cfg.WindowHotkeys {
		slot := slot
		if err := d.keys.Bind("window:"+slot, spec, func() { d.toggleSlot(slot) }); err != nil {
			d.logBindFailure("window:"+slot, spec, err)
		}
	}
}

func (d *Daemon) logBindFailure(action, spec string, err error) {
	if errors.Is(err, hotkeys.ErrUnsupported) {
		d.log.Debug("hotkeys unsupported on this platform", "action", action)
		return
	}
	d.log.Warn("hotkey bind failed", "action", action, logging.KeyHotkey, spec, logging.KeyError, err)
}

func (d *Daemon) runAction(action, slot string) {
	var err error
	switch action {
	case config.ActionCapture:
		_, err = d.track.Capture(slot)
	case config.ActionToggle:
		err = d.track.Toggle(slot)
	case config.ActionToggleTopmost:
		_, err = d.track.ToggleTopmost(slot)
	case config.ActionHistoryPrev:
		d.jumpHistory(d.hist.Prev)
	case config.ActionHistoryNext:
		d.jumpHistory(d.hist.Next)
	default:
		d.log.Warn("unknown action", "action", action)
		return
	}
	if err != nil && !errors.Is(err, tracker.ErrNoCapture) {
		d.log.Warn("action failed", "action", action, logging.KeyError, err)
	}
}

// toggleSlot backs the per-window hotkeys: the first press captures the
// foreground window into the slot, later presses toggle it.
func (d *Daemon) toggleSlot(slot string) {
	err := d.track.Toggle(slot)
	if errors.Is(err, tracker.ErrNoCapture) {
		_, err = d.track.Capture(slot)
	}
	if err != nil {
		d.log.Warn("slot toggle failed", "slot", slot, logging.KeyError, err)
	}
}

func (d *Daemon) jumpHistory(step func() (winapi.Handle, bool)) {
	h, ok := step()
	if !ok {
		return
	}
	d.focusWindow(h)
}

// focusWindow brings a window to the foreground, crossing virtual desktops
// according to the configured jump mode.
func (d *Daemon) focusWindow(h winapi.Handle) {
	d.focusWith(h, d.jumpMode.Load().(string))
}

func (d *Daemon) focusWith(h winapi.Handle, mode string) {
	if !d.ops.IsWindow(h) {
		return
	}

	d.crossDesktops(h, mode)

	if d.ops.IsMinimized(h) {
		d.ops.Restore(h)
	}
	if err := d.ops.BringToFront(h); err != nil {
		d.log.Debug("focus failed", logging.KeyWindow, uint64(h), logging.KeyError, err)
	}
}

// crossDesktops handles a target on another virtual desktop: switch mode
// activates that desktop, pull mode drags the window here. The current
// desktop's id is read off the foreground window since the query surface
// has no direct current-desktop call.
func (d *Daemon) crossDesktops(h winapi.Handle, mode string) {
	if !d.desks.Available() {
		return
	}
	on, err := d.desks.IsOnCurrentDesktop(vdesk.Window(h))
	if err != nil || on {
		return
	}

	if mode == config.JumpModePull {
		fg := d.ops.Foreground()
		if fg == 0 {
			return
		}
		cur, err := d.desks.DesktopID(vdesk.Window(fg))
		if err != nil || cur.IsZero() {
			return
		}
		if err := d.desks.MoveToDesktop(vdesk.Window(h), cur); err != nil {
			d.log.Warn("pull to current desktop failed", logging.KeyWindow, uint64(h), logging.KeyError, err)
		}
		return
	}

	id, err := d.desks.DesktopID(vdesk.Window(h))
	if err != nil || id.IsZero() {
		return
	}
	if err := d.desks.Switch(id); err != nil {
		d.log.Debug("desktop switch failed", logging.KeyDesktop, id.String(), logging.KeyError, err)
	}
}
