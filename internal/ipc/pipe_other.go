//go:build !windows

package ipc

import (
	"errors"
	"net"
	"time"
)

// ErrUnsupported is returned on platforms without named pipes.
var ErrUnsupported = errors.New("ipc: named pipes are only supported on windows")

func Listen(string) (net.Listener, error) {
	return nil, ErrUnsupported
}

func Dial(string, time.Duration) (net.Conn, error) {
	return nil, ErrUnsupported
}
