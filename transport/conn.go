package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrConnClosed       = errors.New("connection is closed")
	ErrConnRefused      = errors.New("connection refused")
	ErrDeadLineExceeded = errors.New("deadline exceeded")
)

// Conn is a reliable, ordered byte stream.
//
// Read returns [ErrConnClosed] once either end is closed and nothing is left to read,
// and [ErrDeadLineExceeded] when the read deadline passes.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	LocalAddr() Addr
	RemoteAddr() Addr

	// Zero value means no deadline.
	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

// Dialer opens a new Conn to host:port.
// host is either a domain name or an IP literal without brackets.
type Dialer interface {
	Dial(ctx context.Context, host string, port uint16) (Conn, error)
}
