package ipc

import (
	"fmt"
	"time"
)

// Call opens the control pipe, sends one request, and waits for the reply.
// The CLI uses this for its one-shot commands.
func Call(pipeName, msgType string, payload any, timeout time.Duration) (*Envelope, error) {
	raw, err := Dial(pipeName, timeout)
	if err != nil {
		return nil, err
	}
	conn := NewConn(raw)
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	id := NewID()
	if err := conn.SendTyped(id, msgType, payload); err != nil {
		return nil, err
	}

	reply, err := conn.Recv()
	if err != nil {
		return nil, err
	}
	if reply.ID != id {
		return nil, fmt.Errorf("ipc: reply id %s does not match request %s", reply.ID, id)
	}
	if reply.Error != "" {
		return reply, fmt.Errorf("ipc: %s", reply.Error)
	}
	return reply, nil
}
