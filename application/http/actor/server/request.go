package server

import (
	"strconv"
	"strings"

	"http-engine/application/http/form"
	"http-engine/application/http/semantic"
	"http-engine/application/http/semantic/status"

	"github.com/pkg/errors"
)

var ErrContentTooLarge = errors.New("request content too large")

// Request is the inbound request of one transaction.
type Request struct {
	// Method is empty when the host sets no REQUEST_METHOD; nothing else is parsed then.
	Method semantic.Method

	Get     form.Values
	Post    form.Values
	Files   form.Files
	Cookies semantic.Cookies

	// RawPost is the body of a POST, as read.
	RawPost []byte

	host Host
}

// NewRequest reads the request the host describes. A POST body is read and
// decoded as urlencoded or multipart according to CONTENT_TYPE.
// Failures carry a [status.Error].
func NewRequest(host Host, opts RequestOptions) (*Request, error) {
	req := &Request{
		Get:     make(form.Values),
		Post:    make(form.Values),
		Files:   make(form.Files),
		Cookies: make(semantic.Cookies),
		host:    host,
	}

	method, _ := host.Getenv("REQUEST_METHOD")
	req.Method = semantic.Method(strings.ToUpper(method))
	if req.Method == "" {
		return req, nil
	}

	if cookie, ok := host.Getenv("HTTP_COOKIE"); ok {
		req.Cookies = semantic.ParseCookies(cookie)
	}

	query, _ := host.Getenv("QUERY_STRING")
	req.Get = form.Decode(query)

	if req.Method == semantic.MethodPost {
		if err := req.parsePost(opts); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func (r *Request) parsePost(opts RequestOptions) error {
	raw, _ := r.host.Getenv("CONTENT_LENGTH")
	length, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil || length == 0 {
		return nil
	}
	if limit := opts.MaxContentLength; limit > 0 && length > uint64(limit) {
		return status.NewError(
			errors.Wrapf(ErrContentTooLarge, "%d > %d", length, limit),
			status.ContentTooLarge,
		)
	}

	body, err := r.host.Read(uint(length))
	if err != nil {
		return status.NewError(err, status.BadRequest)
	}
	r.RawPost = body

	contentType, _ := r.host.Getenv("CONTENT_TYPE")
	if strings.Contains(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		r.Post = form.Decode(string(body))
		return nil
	}

	boundary, err := form.BoundaryFrom(contentType)
	if err != nil {
		// Neither form encoding: only RawPost is set.
		return nil
	}

	decoded, err := form.DecodeMultipart(body, boundary, opts.Multipart)
	if err != nil {
		return status.NewError(err, status.BadRequest)
	}
	r.Post, r.Files = decoded.Values, decoded.Files

	return nil
}

// Header returns a request header, looked up under its CGI name.
func (r *Request) Header(name string) (string, bool) {
	return r.host.Getenv(semantic.CGIName(name))
}

// Env returns any meta-variable of the transaction.
func (r *Request) Env(name string) (string, bool) { return r.host.Getenv(name) }
