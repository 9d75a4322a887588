package client

import (
	"context"
	"log/slog"

	"http-engine/transport"

	"github.com/pkg/errors"
)

// conn is the transport of one hop: a plain conn, possibly wrapped in TLS.
type conn struct {
	raw transport.Conn
	tls transport.TLSConn

	logger *slog.Logger
	stop   func() bool
}

// active returns the conn to read and write through.
func (c *conn) active() transport.Conn {
	if c.tls != nil {
		return c.tls
	}
	return c.raw
}

// closeOnDone closes the raw conn when ctx ends, unblocking any read or write.
func (c *conn) closeOnDone(ctx context.Context) {
	c.stop = context.AfterFunc(ctx, func() { _ = c.raw.Close() })
}

// close shuts TLS down first, then the underlying conn.
func (c *conn) close() {
	if c.stop != nil {
		c.stop()
	}

	if c.tls != nil {
		if err := c.tls.Close(); err != nil {
			c.logger.Debug("closing tls", "error", err)
		}
		c.raw = c.tls.Unwrap()
	}

	if err := c.raw.Close(); err != nil && !errors.Is(err, transport.ErrConnClosed) {
		c.logger.Debug("closing conn", "error", err)
	}
}
