package vdesk

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by facade operations invoked after Close. It marks a
// usage bug in the caller, not a transient condition; no native call is made.
var ErrClosed = errors.New("vdesk: manager is closed")

// HResult is a native COM status code. Zero is success; negative values are
// failures. The facade maps any non-zero status to a NativeCallError and
// never lets raw statuses escape.
type HResult int32

// S_OK is the COM success status.
const S_OK HResult = 0

// Succeeded reports whether hr is a non-failure status (>= 0). The service
// discovery path keys off this rather than strict equality with S_OK.
func (hr HResult) Succeeded() bool {
	return hr >= 0
}

// errStatus reinterprets a raw 32-bit status code (e.g. 0x80004003) as an
// HResult, keeping failure literals readable at call sites.
func errStatus(code uint32) HResult {
	return HResult(int32(code))
}

func (hr HResult) String() string {
	return FormatHResult(hr)
}

// NativeCallError reports a native call that returned a non-success status.
// The status is preserved verbatim for diagnostics; callers must assume the
// failed operation had no effect.
type NativeCallError struct {
	Op      string
	HResult HResult
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("vdesk: %s failed: %s", e.Op, FormatHResult(e.HResult))
}

// ParseError reports a malformed desktop-id string.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vdesk: %q is not a valid desktop id", e.Input)
}

// hresultInfo holds a human-readable name and description for an HRESULT.
type hresultInfo struct {
	Name    string
	Message string
}

// knownHResults maps the statuses commonly seen from the desktop-manager
// contracts to descriptions, keyed by the raw 32-bit code.
var knownHResults = map[uint32]hresultInfo{
	0x80004005: {"E_FAIL", "unspecified failure"},
	0x80004002: {"E_NOINTERFACE", "the requested interface is not supported"},
	0x80004003: {"E_POINTER", "invalid pointer argument"},
	0x80070057: {"E_INVALIDARG", "one or more arguments are not valid"},
	0x80070005: {"E_ACCESSDENIED", "access denied"},
	0x80070578: {"ERROR_INVALID_WINDOW_HANDLE", "the window handle is not valid"},
	0x8002802B: {"TYPE_E_ELEMENTNOTFOUND", "no desktop with the requested id"},
	0x80040154: {"REGDB_E_CLASSNOTREG", "the desktop-manager class is not registered"},
	0x80010108: {"RPC_E_DISCONNECTED", "the shell object has been disconnected"},
	0x800401F0: {"CO_E_NOTINITIALIZED", "COM is not initialized on the calling thread"},
	0x8001010E: {"RPC_E_WRONG_THREAD", "the object was called from the wrong COM apartment"},
}

// FormatHResult returns a human-readable description of an HRESULT.
// For known codes: "0x8002802B: TYPE_E_ELEMENTNOTFOUND: no desktop with the requested id"
// For unknown codes: "0x80004005: unknown HRESULT"
func FormatHResult(hr HResult) string {
	if info, ok := knownHResults[uint32(hr)]; ok {
		return fmt.Sprintf("0x%08X: %s: %s", uint32(hr), info.Name, info.Message)
	}
	return fmt.Sprintf("0x%08X: unknown HRESULT", uint32(hr))
}
