package client

import (
	"crypto/tls"
	"sync/atomic"
	"time"

	"http-engine/application/http"
	"http-engine/application/http/form"
	"http-engine/application/http/semantic"
	"http-engine/application/util/uri"
)

// Request is the outbound side of one logical exchange.
// It may be reused once a send returned, but not sent twice at once.
type Request struct {
	// URL is an http(s) URL. A query left in it is merged into Get when sent.
	URL    string
	Method semantic.Method

	Get  form.Values
	Post form.Values
	// RawBody replaces Post when non-nil.
	RawBody []byte

	// Multipart fields, used by SendFiles.
	Params []form.Field
	Files  []form.FileField

	Cookies semantic.Cookies
	Headers semantic.Headers

	// Timeout applies to connecting and to every read and write of each hop.
	// Zero means none.
	Timeout time.Duration
	// SkipPort leaves the port out of the Host header.
	SkipPort         bool
	CertificateCheck bool
	TLSVersion       uint16

	inFlight atomic.Bool
}

// NewRequest returns a GET request for rawURL, its query moved into Get.
func NewRequest(rawURL string) *Request {
	rest, query := uri.SplitQuery(rawURL)
	return &Request{
		URL:              rest,
		Method:           semantic.MethodGet,
		Get:              form.Decode(query),
		Post:             make(form.Values),
		Cookies:          make(semantic.Cookies),
		CertificateCheck: true,
		TLSVersion:       tls.VersionTLS12,
	}
}

// SetHeaders sets every field. With noOverwrite, names already present are left alone.
func (r *Request) SetHeaders(noOverwrite bool, fields ...http.Field) {
	for _, f := range fields {
		if noOverwrite {
			r.Headers.SetDefault(f.Name, f.Value)
		} else {
			r.Headers.Set(f.Name, f.Value)
		}
	}
}

func (r *Request) SetHeader(name, value string) { r.Headers.Set(name, value) }

// InFlight reports whether a send is using r right now.
func (r *Request) InFlight() bool { return r.inFlight.Load() }
