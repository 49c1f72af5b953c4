package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/winhop/winhop/internal/config"
	"github.com/winhop/winhop/internal/ipc"
	"github.com/winhop/winhop/internal/logging"
	"github.com/winhop/winhop/internal/vdesk"
	"github.com/winhop/winhop/internal/winapi"
	"github.com/winhop/winhop/internal/windex"
)

// serveControl starts the control-pipe listener and its accept loop. The
// returned func closes the listener.
func (d *Daemon) serveControl(ctx context.Context) (func(), error) {
	listener, err := ipc.Listen(d.cfg.PipeName)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	go func() {
		for {
			raw, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				d.log.Warn("pipe accept failed", logging.KeyError, err)
				continue
			}
			go d.handleConn(ipc.NewConn(raw))
		}
	}()

	return func() { listener.Close() }, nil
}

// handleConn serves one client until it disconnects.
func (d *Daemon) handleConn(conn *ipc.Conn) {
	defer conn.Close()
	for {
		conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
		env, err := conn.Recv()
		if err != nil {
			return
		}
		if err := conn.Send(d.handle(env)); err != nil {
			return
		}
	}
}

// handle dispatches one request and builds the reply envelope.
func (d *Daemon) handle(env *ipc.Envelope) *ipc.Envelope {
	switch env.Type {
	case ipc.TypePing:
		return &ipc.Envelope{ID: env.ID, Type: ipc.TypePong}

	case ipc.TypeStatus:
		return d.reply(env.ID, ipc.TypeStatusResult, d.status())

	case ipc.TypeSearch:
		var req ipc.SearchRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return d.fail(env.ID, ipc.TypeSearchResult, err)
		}
		return d.reply(env.ID, ipc.TypeSearchResult, d.search(req))

	case ipc.TypeJump:
		var req ipc.JumpRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return d.fail(env.ID, ipc.TypeJumpResult, err)
		}
		res, err := d.jump(req)
		if err != nil {
			return d.fail(env.ID, ipc.TypeJumpResult, err)
		}
		return d.reply(env.ID, ipc.TypeJumpResult, res)

	case ipc.TypeSwitchDesktop:
		var req ipc.SwitchDesktopRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return d.fail(env.ID, ipc.TypeSwitchResult, err)
		}
		if err := d.switchDesktop(req); err != nil {
			return d.fail(env.ID, ipc.TypeSwitchResult, err)
		}
		return &ipc.Envelope{ID: env.ID, Type: ipc.TypeSwitchResult}

	case ipc.TypeReload:
		warnings, err := d.reload()
		if err != nil {
			return d.fail(env.ID, ipc.TypeReloadResult, err)
		}
		return d.reply(env.ID, ipc.TypeReloadResult, map[string][]string{"warnings": warnings})

	default:
		return &ipc.Envelope{
			ID:    env.ID,
			Type:  env.Type,
			Error: fmt.Sprintf("unknown request type %q", env.Type),
		}
	}
}

func (d *Daemon) reply(id, msgType string, payload any) *ipc.Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		return d.fail(id, msgType, err)
	}
	return &ipc.Envelope{ID: id, Type: msgType, Payload: raw}
}

func (d *Daemon) fail(id, msgType string, err error) *ipc.Envelope {
	return &ipc.Envelope{ID: id, Type: msgType, Error: err.Error()}
}

func (d *Daemon) status() ipc.StatusResult {
	res := ipc.StatusResult{
		Version:       d.version,
		ProtocolVer:   ipc.ProtocolVersion,
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		Windows:       len(d.index.Entries()),
		Desktops:      d.desks.Available(),
		Bindings:      d.keys.Bindings(),
	}
	for _, c := range d.track.List() {
		res.Captures = append(res.Captures, ipc.CaptureInfo{
			ID:      c.ID.String(),
			Slot:    c.Slot,
			Handle:  uint64(c.Handle),
			Title:   c.Title,
			Topmost: c.Topmost,
		})
	}
	return res
}

func (d *Daemon) search(req ipc.SearchRequest) ipc.SearchResult {
	entries := d.index.Search(req.Query)
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	res := ipc.SearchResult{Windows: make([]ipc.WindowInfo, 0, len(entries))}
	for _, e := range entries {
		res.Windows = append(res.Windows, windowInfo(e))
	}
	return res
}

func windowInfo(e windex.Entry) ipc.WindowInfo {
	info := ipc.WindowInfo{
		Handle:    uint64(e.Handle),
		Title:     e.Title,
		Class:     e.Class,
		PID:       e.PID,
		Process:   e.Process,
		OnCurrent: e.OnCurrent,
	}
	if !e.Desktop.IsZero() {
		info.Desktop = e.Desktop.String()
	}
	return info
}

func (d *Daemon) jump(req ipc.JumpRequest) (ipc.JumpResult, error) {
	var (
		entry windex.Entry
		ok    bool
	)
	switch {
	case req.Handle != 0:
		entry, ok = d.index.Lookup(winapi.Handle(req.Handle))
	case req.Query != "":
		if matches := d.index.Search(req.Query); len(matches) > 0 {
			entry, ok = matches[0], true
		}
	default:
		return ipc.JumpResult{}, errors.New("jump needs a handle or a query")
	}
	if !ok {
		return ipc.JumpResult{}, errors.New("no matching window")
	}

	mode := d.jumpMode.Load().(string)
	if req.Pull {
		mode = config.JumpModePull
	}
	d.focusWith(entry.Handle, mode)

	return ipc.JumpResult{Window: windowInfo(entry)}, nil
}

func (d *Daemon) switchDesktop(req ipc.SwitchDesktopRequest) error {
	id, err := vdesk.ParseDesktopID(req.Desktop)
	if err != nil {
		return err
	}
	return d.desks.Switch(id)
}

// reload re-reads the config file and applies the hot-swappable parts:
// hotkey bindings and the jump mode. Scan cadence and the pipe name stay
// as started.
func (d *Daemon) reload() ([]string, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		return nil, fmt.Errorf("config invalid: %v", result.Fatals)
	}

	d.keys.Close()
	d.bindHotkeys(cfg)
	d.jumpMode.Store(cfg.JumpMode)
	d.log.Info("config reloaded", "warnings", len(result.Warnings))

	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.Error())
	}
	return warnings, nil
}
