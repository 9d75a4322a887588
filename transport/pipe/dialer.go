package pipe

import (
	"context"
	"net"
	"strconv"
	"sync"

	"http-engine/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Handler serves the server end of a dialed pipe.
// The conn is closed after Handler returns.
type Handler func(conn transport.Conn)

// Dialer connects to handlers registered by host and port.
type Dialer struct {
	clock clock.Clock

	mu       sync.Mutex
	handlers map[string]Handler
	dialed   []string

	wg sync.WaitGroup
}

var _ transport.Dialer = (*Dialer)(nil)

func NewDialer(clock clock.Clock) *Dialer {
	return &Dialer{
		clock:    clock,
		handlers: make(map[string]Handler),
	}
}

// Handle registers h for host:port, replacing any previous one.
func (d *Dialer) Handle(host string, port uint16, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[joinHostPort(host, port)] = h
}

func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (transport.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "dialing")
	}

	addr := joinHostPort(host, port)

	d.mu.Lock()
	d.dialed = append(d.dialed, addr)
	h, ok := d.handlers[addr]
	d.mu.Unlock()

	if !ok {
		return nil, errors.Wrapf(transport.ErrConnRefused, "dialing %s", addr)
	}

	client, server := Pipe("client", addr, d.clock)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer server.Close()
		h(server)
	}()

	return client, nil
}

// Dialed returns every address dialed so far, in order.
func (d *Dialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dialed...)
}

// Wait blocks until every handler has returned.
func (d *Dialer) Wait() { d.wg.Wait() }

func joinHostPort(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))
}
