package server

import (
	"strconv"
	"strings"

	"http-engine/application/http/semantic"
	"http-engine/application/http/semantic/status"

	"github.com/pkg/errors"
)

var ErrOutputStarted = errors.New("cannot send headers, output already started")

const defaultContentType = "text/html"

// Response writes the response of one transaction through the host.
// Headers go out immediately; the first Write ends them.
type Response struct {
	host Host

	outputStarted  bool
	contentTypeSet bool
}

func NewResponse(host Host) *Response {
	return &Response{host: host}
}

// Header emits a header. Setting Location also sets status 303.
func (r *Response) Header(name, value string) error {
	if r.outputStarted {
		return ErrOutputStarted
	}

	if strings.EqualFold(name, "Content-Type") {
		r.contentTypeSet = true
	}
	if strings.EqualFold(name, "Location") {
		if err := r.Status(status.SeeOther.Code, status.SeeOther.ReasonPhrase); err != nil {
			return err
		}
	}

	return r.host.Header(name, value)
}

// Status sets the status through the CGI Status header.
// An empty reason is filled from the status table when the code is known.
func (r *Response) Status(code uint, reason string) error {
	if reason == "" {
		if known, ok := status.FromCode(code); ok {
			reason = known.ReasonPhrase
		}
	}

	text := strconv.FormatUint(uint64(code), 10)
	if reason != "" {
		text += " " + reason
	}
	return r.Header("Status", text)
}

func (r *Response) SetCookie(cookie semantic.SetCookie) error {
	return r.Header("Set-Cookie", cookie.String())
}

func (r *Response) Write(p []byte) (int, error) {
	if err := r.start(); err != nil {
		return 0, err
	}
	return r.host.Write(p)
}

// End finishes the header block if nothing was written.
func (r *Response) End() error { return r.start() }

func (r *Response) OutputStarted() bool { return r.outputStarted }

func (r *Response) start() error {
	if r.outputStarted {
		return nil
	}

	if !r.contentTypeSet {
		if err := r.Header("Content-Type", defaultContentType); err != nil {
			return err
		}
	}
	r.outputStarted = true

	return errors.Wrap(r.host.EndHeaders(), "ending headers")
}
