package ipc

import "encoding/json"

// Message type constants for the control pipe.
const (
	TypePing          = "ping"
	TypePong          = "pong"
	TypeStatus        = "status"
	TypeStatusResult  = "status_result"
	TypeSearch        = "search"
	TypeSearchResult  = "search_result"
	TypeJump          = "jump"
	TypeJumpResult    = "jump_result"
	TypeSwitchDesktop = "switch_desktop"
	TypeSwitchResult  = "switch_result"
	TypeReload        = "reload"
	TypeReloadResult  = "reload_result"
)

// MaxMessageSize bounds one JSON message (1MB). Window lists stay far below
// this.
const MaxMessageSize = 1 * 1024 * 1024

// ProtocolVersion is the current control-pipe protocol version.
const ProtocolVersion = 1

// Envelope is the wire-format wrapper for all control-pipe messages.
type Envelope struct {
	ID      string          `json:"id"`
	Seq     uint64          `json:"seq"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// WindowInfo describes one indexed window in responses.
type WindowInfo struct {
	Handle    uint64 `json:"handle"`
	Title     string `json:"title"`
	Class     string `json:"class"`
	PID       uint32 `json:"pid"`
	Process   string `json:"process"`
	Desktop   string `json:"desktop,omitempty"`
	OnCurrent bool   `json:"onCurrent"`
}

// CaptureInfo describes one hotkey-captured window.
type CaptureInfo struct {
	ID      string `json:"id"`
	Slot    string `json:"slot"`
	Handle  uint64 `json:"handle"`
	Title   string `json:"title"`
	Topmost bool   `json:"topmost"`
}

// StatusResult reports daemon state.
type StatusResult struct {
	Version       string        `json:"version"`
	ProtocolVer   int           `json:"protocolVersion"`
	UptimeSeconds int64         `json:"uptimeSeconds"`
	Windows       int           `json:"windows"`
	Desktops      bool          `json:"desktopsAvailable"`
	Captures      []CaptureInfo `json:"captures,omitempty"`
	Bindings      []string      `json:"bindings,omitempty"`
}

// SearchRequest fuzzy-searches the window index.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResult carries matches best first.
type SearchResult struct {
	Windows []WindowInfo `json:"windows"`
}

// JumpRequest focuses a window, either by handle or by the best match for
// Query. Pull moves the window to the current desktop instead of switching
// to the window's desktop.
type JumpRequest struct {
	Handle uint64 `json:"handle,omitempty"`
	Query  string `json:"query,omitempty"`
	Pull   bool   `json:"pull,omitempty"`
}

// JumpResult reports the window that was focused.
type JumpResult struct {
	Window WindowInfo `json:"window"`
}

// SwitchDesktopRequest switches to a desktop by GUID.
type SwitchDesktopRequest struct {
	Desktop string `json:"desktop"`
}
