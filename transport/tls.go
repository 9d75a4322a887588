package transport

import (
	"context"
)

type TLSConfig struct {
	// ServerName is sent as SNI and checked against the certificate.
	ServerName string
	// InsecureSkipVerify disables certificate and host name checks.
	InsecureSkipVerify bool
	// Version pins the protocol version (e.g. 0x0303 for TLS 1.2).
	// Zero lets the implementation choose.
	Version uint16
}

// TLSConn is a Conn secured on top of another Conn.
type TLSConn interface {
	Conn

	Handshake(ctx context.Context) error
	// Unwrap returns the underlying conn.
	// Closing TLSConn does not close it.
	Unwrap() Conn
}

type TLSWrapper interface {
	Wrap(conn Conn, config TLSConfig) (TLSConn, error)
}
