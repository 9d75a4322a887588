package transfer

import (
	"strings"

	"http-engine/application/util/rule"
)

type Coding string

const (
	CodingChunked  Coding = "chunked"
	CodingIdentity Coding = "identity"
)

// Codings splits a Transfer-Encoding value into lower cased codings,
// dropping any parameters.
func Codings(value string) []Coding {
	var codings []Coding
	for _, token := range strings.Split(value, ",") {
		token, _, _ = strings.Cut(token, ";")
		token = strings.ToLower(rule.TrimOWS(token))
		if token == "" {
			continue
		}
		codings = append(codings, Coding(token))
	}
	return codings
}

// IsChunked reports whether chunked is the final coding of value.
func IsChunked(value string) bool {
	codings := Codings(value)
	return len(codings) > 0 && codings[len(codings)-1] == CodingChunked
}

// DecodeBody removes chunked framing from body when transferEncoding ends
// with chunked. Other codings are left applied.
func DecodeBody(body []byte, transferEncoding string) ([]byte, error) {
	if !IsChunked(transferEncoding) {
		return body, nil
	}
	return DecodeChunked(body)
}
