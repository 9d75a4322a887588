// Package tcp dials TCP connections through the operating system.
package tcp

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"http-engine/application/util/domain"
	"http-engine/transport"

	"github.com/pkg/errors"
)

type DialerOptions struct {
	// Timeout bounds each connection attempt. Zero means none.
	Timeout time.Duration
	// Families are tried in order.
	Families []domain.Family
}

var DefaultDialerOptions = DialerOptions{
	Families: []domain.Family{domain.IPv6, domain.IPv4},
}

type Dialer struct {
	lookuper domain.Lookuper
	opts     DialerOptions
	logger   *slog.Logger

	// dial is net.Dialer.DialContext, replaceable for tests.
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

var _ transport.Dialer = (*Dialer)(nil)

func NewDialer(lookuper domain.Lookuper, opts DialerOptions, logger *slog.Logger) *Dialer {
	if len(opts.Families) == 0 {
		opts.Families = DefaultDialerOptions.Families
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	nd := &net.Dialer{Timeout: opts.Timeout}
	return &Dialer{
		lookuper: lookuper,
		opts:     opts,
		logger:   logger,
		dial:     nd.DialContext,
	}
}

// Dial connects to host:port.
// A domain name is resolved per family in order, and every address is
// tried until one accepts. A failed lookup moves on to the next family.
// IP literals are dialed directly.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (transport.Conn, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return d.dialAddr(ctx, netip.AddrPortFrom(addr, port))
	}

	var lastErr error
	for _, family := range d.opts.Families {
		addrs, err := d.lookuper.LookupIP(ctx, family, host)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrapf(err, "resolving %s", host)
			}

			d.logger.Debug("lookup failed", "host", host, "family", family, "error", err)
			// Report a resolver failure over a missing record.
			if lastErr == nil || !errors.Is(err, domain.ErrDomainNotFound) {
				lastErr = errors.Wrapf(err, "resolving %s", host)
			}
			continue
		}

		for _, addr := range addrs {
			conn, err := d.dialAddr(ctx, netip.AddrPortFrom(addr, port))
			if err == nil {
				return conn, nil
			}
			if ctx.Err() != nil {
				return nil, err
			}

			d.logger.Debug("dial attempt failed", "host", host, "addr", addr, "error", err)
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = domain.ErrDomainNotFound
	}
	return nil, errors.Wrapf(lastErr, "dialing %s", host)
}

func (d *Dialer) dialAddr(ctx context.Context, addr netip.AddrPort) (transport.Conn, error) {
	c, err := d.dial(ctx, "tcp", addr.String())
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() && ctx.Err() == nil {
			return nil, errors.Wrapf(transport.ErrConnRefused, "%s: %s", addr, err)
		}
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return NewConn(c), nil
}
