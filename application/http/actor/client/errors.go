package client

import (
	"github.com/pkg/errors"
)

var (
	ErrTransport        = errors.New("transport failure")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrRequestInFlight  = errors.New("request is already in flight")
	ErrInvalidHeader    = errors.New("invalid header field")
	ErrTLSUnavailable   = errors.New("no tls wrapper for https target")
)

// TransportError reports a failed connect, send or receive.
// The response returned alongside it is empty.
type TransportError struct {
	Op  string // "dial", "tls", "send" or "receive".
	Err error
}

func (e *TransportError) Error() string {
	return "transport " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
