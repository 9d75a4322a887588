package tls

import (
	"io"
	"net"
	"os"
	"time"

	"http-engine/transport"

	"github.com/pkg/errors"
)

// netConn presents a transport.Conn as a net.Conn for crypto/tls.
// Close is a no-op: the owner of the transport.Conn closes it.
type netConn struct {
	conn transport.Conn
}

var _ net.Conn = (*netConn)(nil)

func (c *netConn) Read(p []byte) (int, error) {
	n, err := c.conn.Read(p)
	return n, toNetErr(err)
}

func (c *netConn) Write(p []byte) (int, error) {
	n, err := c.conn.Write(p)
	return n, toNetErr(err)
}

func (c *netConn) Close() error { return nil }

func (c *netConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *netConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *netConn) SetDeadline(t time.Time) error {
	c.conn.SetReadDeadLine(t)
	c.conn.SetWriteDeadLine(t)
	return nil
}

func (c *netConn) SetReadDeadline(t time.Time) error {
	c.conn.SetReadDeadLine(t)
	return nil
}

func (c *netConn) SetWriteDeadline(t time.Time) error {
	c.conn.SetWriteDeadLine(t)
	return nil
}

func toNetErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, transport.ErrConnClosed):
		return io.EOF
	case errors.Is(err, transport.ErrDeadLineExceeded):
		return os.ErrDeadlineExceeded
	}
	return err
}
