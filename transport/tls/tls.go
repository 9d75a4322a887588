// Package tls secures a [transport.Conn] with crypto/tls.
package tls

import (
	"context"
	stdtls "crypto/tls"
	"io"
	"net"
	"os"
	"time"

	"http-engine/transport"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

var ErrHandshake = errors.New("tls handshake failed")

type Wrapper struct {
	base *stdtls.Config
}

var _ transport.TLSWrapper = (*Wrapper)(nil)

// NewWrapper returns a client-side wrapper. base may be nil;
// it is cloned on every Wrap and never modified.
func NewWrapper(base *stdtls.Config) *Wrapper {
	return &Wrapper{base: base}
}

func (w *Wrapper) Wrap(conn transport.Conn, config transport.TLSConfig) (transport.TLSConn, error) {
	cfg, err := w.config(config)
	if err != nil {
		return nil, err
	}

	return &Conn{
		tc:    stdtls.Client(&netConn{conn: conn}, cfg),
		inner: conn,
	}, nil
}

func (w *Wrapper) config(config transport.TLSConfig) (*stdtls.Config, error) {
	cfg := &stdtls.Config{}
	if w.base != nil {
		cfg = w.base.Clone()
	}

	if config.ServerName != "" {
		name, err := serverName(config.ServerName)
		if err != nil {
			return nil, err
		}
		cfg.ServerName = name
	}
	cfg.InsecureSkipVerify = config.InsecureSkipVerify
	if config.Version != 0 {
		cfg.MinVersion, cfg.MaxVersion = config.Version, config.Version
	}

	return cfg, nil
}

// serverName returns the ASCII form of host for SNI.
// IP literals are not sent as SNI, so they pass through unchanged.
func serverName(host string) (string, error) {
	if net.ParseIP(host) != nil {
		return host, nil
	}
	name, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", errors.Wrapf(err, "converting server name %q", host)
	}
	return name, nil
}

// Conn is a client-side TLS connection over a [transport.Conn].
type Conn struct {
	tc    *stdtls.Conn
	inner transport.Conn
}

var _ transport.TLSConn = (*Conn)(nil)

func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.tc.Read(p)
	return n, convertErr(err)
}

func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.tc.Write(p)
	return n, convertErr(err)
}

// Close sends close_notify. The underlying conn stays open.
func (c *Conn) Close() error {
	if err := convertErr(c.tc.Close()); err != nil && !errors.Is(err, transport.ErrConnClosed) {
		return err
	}
	return nil
}

func (c *Conn) Handshake(ctx context.Context) error {
	if err := c.tc.HandshakeContext(ctx); err != nil {
		return errors.Wrap(ErrHandshake, err.Error())
	}
	return nil
}

func (c *Conn) ConnectionState() stdtls.ConnectionState { return c.tc.ConnectionState() }

func (c *Conn) Unwrap() transport.Conn { return c.inner }

func (c *Conn) LocalAddr() transport.Addr  { return c.inner.LocalAddr() }
func (c *Conn) RemoteAddr() transport.Addr { return c.inner.RemoteAddr() }

func (c *Conn) SetReadDeadLine(t time.Time)  { c.inner.SetReadDeadLine(t) }
func (c *Conn) SetWriteDeadLine(t time.Time) { c.inner.SetWriteDeadLine(t) }

func convertErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return transport.ErrConnClosed
	case errors.Is(err, os.ErrDeadlineExceeded):
		return errors.Wrap(transport.ErrDeadLineExceeded, err.Error())
	}
	return err
}
