package transport

import (
	"context"
	"errors"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendBufferFull   = errors.New("send buffer is full")
)

type EventKind int

const (
	Opened EventKind = iota
	Message
	Error
	Closed
)

func (k EventKind) String() string {
	switch k {
	case Opened:
		return "opened"
	case Message:
		return "message"
	case Error:
		return "error"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Event is a connection lifecycle change or an inbound message. Message is only
// set for Message events and Err only for Error events.
type Event struct {
	Kind    EventKind
	Message types.TransportMessage
	Err     error
}

//go:generate moq -rm -out transport_mock.go . Dialer Connection

type Dialer interface {
	Dial(ctx context.Context, deviceID string) (Connection, error)
}

// Connection delivers events in arrival order. The Events channel is closed after
// the Closed event has been delivered.
type Connection interface {
	Events() <-chan Event
	Send(ctx context.Context, msg types.SimulateTamper) error
	Close() error
}
