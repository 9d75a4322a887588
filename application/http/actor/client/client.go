// Package client drives HTTP/1.1 exchanges: one connection per request,
// responses fully buffered, redirects followed on request.
package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"http-engine/application/http"
	"http-engine/application/http/form"
	"http-engine/application/http/semantic"
	"http-engine/application/http/semantic/status"
	"http-engine/application/util/uri"
	"http-engine/lib/filesystem"
	iolib "http-engine/lib/io"
	"http-engine/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http/httpguts"
)

type Client struct {
	dialer     transport.Dialer
	tlsWrapper transport.TLSWrapper
	fs         filesystem.Filesystem

	opts Options

	logger *slog.Logger
	clock  clock.Clock

	telemetry *telemetry
}

// New creates a client. tlsWrapper may be nil when only http targets are used.
func New(
	dialer transport.Dialer,
	tlsWrapper transport.TLSWrapper,
	fs filesystem.Filesystem,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	return &Client{
		dialer:     dialer,
		tlsWrapper: tlsWrapper,
		fs:         fs,
		opts:       opts,
		logger:     logger,
		clock:      clock,
		telemetry:  newTelemetry(opts.TracerProvider, opts.MeterProvider),
	}
}

// Send performs the request, following redirects when follow is set.
//
// A failure in the transport yields an empty response together with a
// [*TransportError]. When the redirect limit is hit, the last response is
// returned with [ErrTooManyRedirects].
func (c *Client) Send(ctx context.Context, req *Request, follow bool) (*semantic.Response, error) {
	return c.do(ctx, req, follow, false)
}

// SendFiles POSTs req.Params and req.Files as multipart/form-data.
func (c *Client) SendFiles(ctx context.Context, req *Request, follow bool) (*semantic.Response, error) {
	return c.do(ctx, req, follow, true)
}

// Download sends req and writes the final response body to path.
func (c *Client) Download(ctx context.Context, req *Request, path string, follow bool) (*semantic.Response, error) {
	res, err := c.Send(ctx, req, follow)
	if err != nil {
		return res, err
	}

	if err := c.fs.WriteFile(path, res.Body); err != nil {
		return res, errors.Wrapf(err, "writing response body to %s", path)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, req *Request, follow, multipart bool) (*semantic.Response, error) {
	if !req.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRequestInFlight
	}
	defer req.inFlight.Store(false)

	h, err := newHop(req, multipart)
	if err != nil {
		return nil, err
	}

	ctx, span := c.telemetry.tracer.Start(ctx, "http.client.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Bool("http.follow_redirects", follow)),
	)
	defer span.End()

	limit := c.opts.maxRedirects()
	for redirects := uint(0); ; redirects++ {
		res, err := c.exchange(ctx, req, h)
		if err != nil || !follow {
			return res, err
		}

		location, ok := res.Location()
		if !ok {
			return res, nil
		}
		if redirects == limit {
			err := errors.Wrapf(ErrTooManyRedirects, "stopped after %d", limit)
			span.RecordError(err)
			span.SetStatus(codes.Error, "too many redirects")
			return res, err
		}

		if err := h.redirect(res.Status.Code, location); err != nil {
			return res, errors.Wrapf(err, "following redirect to %q", location)
		}

		c.telemetry.redirects.Add(ctx, 1)
		c.logger.Debug("following redirect",
			"status", res.Status.Code,
			"location", location,
			"target", h.target.String(),
			"method", h.method,
		)
	}
}

// hop is what changes between the requests of one send.
type hop struct {
	target    uri.Target
	method    semantic.Method
	get       form.Values
	multipart bool
	dropBody  bool
}

func newHop(req *Request, multipart bool) (*hop, error) {
	raw, _, _ := strings.Cut(req.URL, "#")
	rest, query := uri.SplitQuery(raw)

	target, err := uri.ParseTarget(rest)
	if err != nil {
		return nil, errors.Wrap(err, "parsing url")
	}

	get := req.Get.Clone()
	extra := form.Decode(query)
	for _, key := range extra.Keys() {
		for _, v := range extra.Values(key) {
			get.Add(key, v)
		}
	}

	method := req.Method
	if multipart {
		method = semantic.MethodPost
	}
	if method == "" {
		method = semantic.MethodGet
	}

	return &hop{target: target, method: method, get: get, multipart: multipart}, nil
}

// redirect moves h to location. The query of location replaces the get parameters.
func (h *hop) redirect(code uint, location string) error {
	target, query, err := uri.Resolve(h.target, location)
	if err != nil {
		return err
	}

	h.target, h.get = target, form.Decode(query)
	if status.RewritesToGet(code) {
		h.method = semantic.MethodGet
		h.dropBody = true
	}
	return nil
}

func (c *Client) exchange(ctx context.Context, req *Request, h *hop) (*semantic.Response, error) {
	ctx, span := c.telemetry.tracer.Start(ctx, "http.client.hop",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(h.method)),
			attribute.String("url.full", h.target.String()),
		),
	)
	defer span.End()

	ph := &phases{clock: c.clock, logger: c.logger, span: span, last: c.clock.Now()}

	reqLine, fields, body, err := c.prepare(req, h)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "preparing request")
		return nil, errors.Wrap(err, "preparing request")
	}
	ph.done("prepare")

	raw, err := c.roundtrip(ctx, req, h, reqLine, fields, body, ph)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			c.telemetry.transportFailed(ctx, te.Op)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return &semantic.Response{}, err
	}

	res, err := semantic.ParseResponse(raw, c.opts.Decode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parsing response")
		return nil, errors.Wrap(err, "parsing response")
	}
	ph.done("parse")

	span.SetAttributes(attribute.Int("http.response.status_code", int(res.Status.Code)))
	c.telemetry.hopDone(ctx, string(h.method), res.Status.Code, len(raw))

	return res, nil
}

func (c *Client) prepare(req *Request, h *hop) (http.RequestLine, []http.Field, []byte, error) {
	headers := req.Headers.Clone()

	omitPort := req.SkipPort || h.target.Port == 80 || h.target.Port == 443
	host := h.target.HostPort(omitPort)
	if !httpguts.ValidHostHeader(host) {
		return http.RequestLine{}, nil, nil, errors.Wrapf(ErrInvalidHeader, "host %q", host)
	}
	headers.Set("Host", host)

	headers.SetDefault("Connection", "close")
	headers.SetDefault("Accept-Charset", "utf-8")
	headers.SetDefault("Accept-Encoding", "identity")

	if len(req.Cookies) > 0 {
		headers.SetDefault("Cookie", req.Cookies.Header())
	}

	body, err := c.body(req, h, &headers)
	if err != nil {
		return http.RequestLine{}, nil, nil, err
	}

	fields := headers.ToRawFields()
	for _, f := range fields {
		if !httpguts.ValidHeaderFieldName(f.Name) || !httpguts.ValidHeaderFieldValue(f.Value) {
			return http.RequestLine{}, nil, nil, errors.Wrapf(ErrInvalidHeader, "%q: %q", f.Name, f.Value)
		}
	}

	target := h.target.Path
	if query := form.Encode(h.get); query != "" {
		target += "?" + query
	}

	reqLine := http.RequestLine{
		Method:  string(h.method),
		Target:  target,
		Version: http.Version11,
	}
	return reqLine, fields, body, nil
}

// body builds the payload of h and sets the headers describing it.
func (c *Client) body(req *Request, h *hop, headers *semantic.Headers) ([]byte, error) {
	if h.dropBody {
		return nil, nil
	}

	var body []byte
	switch {
	case h.multipart:
		boundary := form.NewBoundary()
		encoded, err := form.EncodeMultipart(c.fs, boundary, req.Params, req.Files)
		if err != nil {
			return nil, errors.Wrap(err, "encoding multipart body")
		}
		body = encoded
		headers.Set("Content-Type", form.ContentType(boundary))

	case req.RawBody != nil:
		body = req.RawBody

	default:
		if ct, _ := headers.Get("Content-Type"); ct == "application/json" {
			encoded, err := json.Marshal(jsonValues(req.Post))
			if err != nil {
				return nil, errors.Wrap(err, "encoding json body")
			}
			body = encoded
		} else {
			body = []byte(form.Encode(req.Post))
		}
		if len(body) == 0 {
			return nil, nil
		}
		headers.SetDefault("Content-Type", "application/x-www-form-urlencoded")
	}

	headers.Set("Content-Length", strconv.Itoa(len(body)))
	return body, nil
}

// jsonValues renders a list entry as an array and any other entry as its single value.
func jsonValues(values form.Values) map[string]any {
	out := make(map[string]any, len(values))
	for _, key := range values.Keys() {
		if values.IsList(key) {
			out[key] = values.Values(key)
		} else {
			out[key], _ = values.Get(key)
		}
	}
	return out
}

func (c *Client) roundtrip(
	ctx context.Context, req *Request, h *hop,
	reqLine http.RequestLine, fields []http.Field, body []byte, ph *phases,
) ([]byte, error) {
	connectCtx, cancel := ctx, context.CancelFunc(func() {})
	if req.Timeout > 0 {
		connectCtx, cancel = c.clock.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	raw, err := c.dialer.Dial(connectCtx, h.target.Host, h.target.Port)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}

	cn := &conn{raw: raw, logger: c.logger}
	cn.closeOnDone(ctx)
	defer func() {
		cn.close()
		ph.done("close")
	}()

	if req.Timeout > 0 {
		deadline := c.clock.Now().Add(req.Timeout)
		raw.SetReadDeadLine(deadline)
		raw.SetWriteDeadLine(deadline)
	}
	ph.done("connect")

	if h.target.Scheme == uri.SchemeHTTPS {
		if c.tlsWrapper == nil {
			return nil, &TransportError{Op: "tls", Err: ErrTLSUnavailable}
		}

		tc, err := c.tlsWrapper.Wrap(raw, transport.TLSConfig{
			ServerName:         h.target.Host,
			InsecureSkipVerify: !req.CertificateCheck,
			Version:            req.TLSVersion,
		})
		if err != nil {
			return nil, &TransportError{Op: "tls", Err: err}
		}
		cn.tls = tc

		if err := tc.Handshake(connectCtx); err != nil {
			return nil, &TransportError{Op: "tls", Err: err}
		}
		ph.done("tls")
	}

	active := cn.active()
	if err := http.NewRequestEncoder(active, c.opts.Encode).EncodeHead(reqLine, fields); err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	if _, err := iolib.WriteFull(active, body); err != nil {
		return nil, &TransportError{Op: "send", Err: errors.Wrap(err, "writing body")}
	}
	ph.done("send")

	received, err := iolib.ReadAll(active, c.opts.MaxResponseSize)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &TransportError{Op: "receive", Err: ctxErr}
	}
	switch {
	case err == nil, errors.Is(err, transport.ErrConnClosed):
	case errors.Is(err, iolib.ErrLimitExceeded):
		c.logger.Warn("response exceeds size limit, rest is dropped", "limit", c.opts.MaxResponseSize)
	case errors.Is(err, transport.ErrDeadLineExceeded) && len(received) > 0:
		c.logger.Debug("read deadline passed, taking it as end of stream", "received", len(received))
	default:
		return nil, &TransportError{Op: "receive", Err: err}
	}
	ph.done("receive")

	return received, nil
}

// phases logs how long each step of a hop took.
type phases struct {
	clock  clock.Clock
	logger *slog.Logger
	span   trace.Span
	last   time.Time
}

func (p *phases) done(name string) {
	now := p.clock.Now()
	p.logger.Debug("hop phase done", "phase", name, "elapsed", now.Sub(p.last))
	p.span.AddEvent(name)
	p.last = now
}
