package semantic

import (
	"strings"

	"http-engine/application/http"
	"http-engine/application/http/semantic/status"
	"http-engine/application/http/transfer"

	"github.com/pkg/errors"
)

// Response is a fully received response. A zero Response stands for an
// exchange that produced nothing.
type Response struct {
	Version http.Version
	Status  status.Status
	Headers Headers
	Body    []byte
}

// ParseResponse decodes raw bytes received for one request.
func ParseResponse(raw []byte, opts http.DecodeOptions) (*Response, error) {
	decoded, err := http.DecodeResponse(raw, opts)
	if err != nil {
		return nil, err
	}
	return ResponseFrom(decoded)
}

// ResponseFrom gives meaning to a decoded response. A chunked body is
// reassembled.
func ResponseFrom(raw http.Response) (*Response, error) {
	response := Response{
		Version: raw.Version,
		Status:  status.Status{Code: raw.StatusCode, ReasonPhrase: raw.ReasonPhrase},
		Headers: HeadersFrom(raw.Headers),
		Body:    raw.Body,
	}

	if codings := response.Headers.Values("Transfer-Encoding"); len(codings) > 0 {
		body, err := transfer.DecodeBody(raw.Body, strings.Join(codings, ","))
		if err != nil {
			return nil, errors.Wrap(err, "decoding transfer coding")
		}
		response.Body = body
	}

	return &response, nil
}

func (r *Response) IsEmpty() bool {
	return r.Status.Code == 0 && r.Headers.Len() == 0 && len(r.Body) == 0
}

// Location returns the redirect target when the status asks to follow one.
func (r *Response) Location() (string, bool) {
	if !status.IsRedirect(r.Status.Code) {
		return "", false
	}
	location, ok := r.Headers.Get("Location")
	return location, ok && location != ""
}
