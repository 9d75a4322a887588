package server

import (
	"bufio"
	"bytes"
	"io"
	"maps"
	"os"

	"http-engine/application/http"
	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

// Host is the process side of one CGI-style transaction.
type Host interface {
	// Getenv returns a request meta-variable such as REQUEST_METHOD or HTTP_COOKIE.
	Getenv(name string) (string, bool)
	// Read blocks until exactly n bytes of the request body are read.
	Read(n uint) ([]byte, error)

	// Header emits one response header line.
	Header(name, value string) error
	// EndHeaders terminates the header block. Write follows it.
	EndHeaders() error
	Write(p []byte) (int, error)
}

type cgiHost struct {
	getenv func(string) (string, bool)
	stdin  io.Reader
	stdout *bufio.Writer
}

var _ Host = (*cgiHost)(nil)

// NewCGIHost serves a CGI transaction. getenv defaults to os.LookupEnv.
// Output is buffered until Flush.
func NewCGIHost(getenv func(string) (string, bool), stdin io.Reader, stdout io.Writer) *cgiHost {
	if getenv == nil {
		getenv = os.LookupEnv
	}
	return &cgiHost{getenv: getenv, stdin: stdin, stdout: bufio.NewWriter(stdout)}
}

func (h *cgiHost) Getenv(name string) (string, bool) { return h.getenv(name) }

func (h *cgiHost) Read(n uint) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(h.stdin, buf); err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	return buf, nil
}

func (h *cgiHost) Header(name, value string) error {
	_, err := h.stdout.Write(append(http.Field{Name: name, Value: value}.Text(), rule.CRLF...))
	return errors.Wrap(err, "writing header")
}

func (h *cgiHost) EndHeaders() error {
	_, err := h.stdout.Write(rule.CRLF)
	return errors.Wrap(err, "ending headers")
}

func (h *cgiHost) Write(p []byte) (int, error) {
	n, err := h.stdout.Write(p)
	return n, errors.Wrap(err, "writing body")
}

func (h *cgiHost) Flush() error { return h.stdout.Flush() }

// MemoryHost keeps a transaction in memory.
type MemoryHost struct {
	env  map[string]string
	body *bytes.Reader

	headers      []http.Field
	headersEnded bool
	output       bytes.Buffer
}

var _ Host = (*MemoryHost)(nil)

func NewMemoryHost(env map[string]string, body []byte) *MemoryHost {
	return &MemoryHost{env: maps.Clone(env), body: bytes.NewReader(body)}
}

func (h *MemoryHost) Getenv(name string) (string, bool) {
	v, ok := h.env[name]
	return v, ok
}

func (h *MemoryHost) Read(n uint) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(h.body, buf); err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	return buf, nil
}

func (h *MemoryHost) Header(name, value string) error {
	if h.headersEnded {
		return errors.New("header after end of headers")
	}
	h.headers = append(h.headers, http.Field{Name: name, Value: value})
	return nil
}

func (h *MemoryHost) EndHeaders() error {
	if h.headersEnded {
		return errors.New("headers already ended")
	}
	h.headersEnded = true
	return nil
}

func (h *MemoryHost) Write(p []byte) (int, error) {
	if !h.headersEnded {
		return 0, errors.New("write before end of headers")
	}
	return h.output.Write(p)
}

// Headers returns the header lines in the order they were emitted.
func (h *MemoryHost) Headers() []http.Field { return append([]http.Field(nil), h.headers...) }

func (h *MemoryHost) HeadersEnded() bool { return h.headersEnded }

func (h *MemoryHost) Output() []byte { return bytes.Clone(h.output.Bytes()) }
