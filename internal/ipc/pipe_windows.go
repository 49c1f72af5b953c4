//go:build windows

package ipc

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// SDDL: SYSTEM gets full control, Interactive Users get read/write. The
// daemon runs in the user session, so this scopes the pipe to logged-in
// users and keeps service accounts out.
const pipeSecurity = "D:P(A;;GA;;;SY)(A;;GRGW;;;IU)"

// Listen creates the control pipe.
func Listen(pipeName string) (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurity,
		InputBufferSize:    64 * 1024,
		OutputBufferSize:   64 * 1024,
	}
	l, err := winio.ListenPipe(pipeName, cfg)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen pipe %s: %w", pipeName, err)
	}
	return l, nil
}

// Dial connects to a running daemon's control pipe.
func Dial(pipeName string, timeout time.Duration) (net.Conn, error) {
	conn, err := winio.DialPipe(pipeName, &timeout)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial pipe %s: %w", pipeName, err)
	}
	return conn, nil
}
