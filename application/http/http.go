package http

import (
	"bytes"
	"strconv"
	"strings"

	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

type RequestLine struct {
	Method  string
	Target  string
	Version Version
}

type Request struct {
	RequestLine
	Headers []Field
	Body    []byte
}

type StatusLine struct {
	Version      Version
	StatusCode   uint
	ReasonPhrase string
}

type Response struct {
	StatusLine
	Headers []Field
	Body    []byte
}

// [Major, Minor]
type Version [2]uint

var Version11 = Version{1, 1}

// ParseVersion parses http version text(e.g. "HTTP/1.1") into [Version].
// The prefix is matched case-insensitively and a missing minor version
// reads as zero.
func ParseVersion(b []byte) (Version, error) {
	const prefix = "HTTP/"
	if len(b) < len(prefix) || !bytes.EqualFold(b[:len(prefix)], []byte(prefix)) {
		return Version{}, errors.Errorf("http version prefix not found: %q", b)
	}

	first, second, found := bytes.Cut(b[len(prefix):], []byte{'.'})
	if !found {
		second = []byte{'0'}
	}

	major, err1 := strconv.ParseUint(string(first), 10, 32)
	minor, err2 := strconv.ParseUint(string(second), 10, 32)
	if err1 != nil || err2 != nil {
		return Version{}, errors.Errorf("http version is not convertable to int: %q", b)
	}

	return Version{uint(major), uint(minor)}, nil
}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("HTTP/")
	buf.WriteString(strconv.FormatUint(uint64(ver[0]), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(ver[1]), 10))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

type Field struct{ Name, Value string }

var ErrMalformedFieldLine = errors.New("field line is malformed")

// ParseField parses a "Name: value" line. Whitespace around the name and
// the value is dropped; a name holding whitespace is rejected.
func ParseField(fieldLine []byte) (Field, error) {
	name, value, found := bytes.Cut(fieldLine, []byte{':'})
	if !found {
		return Field{}, errors.Wrapf(ErrMalformedFieldLine, "colon seperator not found: %q", fieldLine)
	}

	n := rule.TrimOWS(string(name))
	if n == "" || strings.ContainsAny(n, " \t") {
		return Field{}, errors.Wrapf(ErrMalformedFieldLine, "bad field name: %q", name)
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
	return Field{Name: n, Value: rule.TrimOWS(string(value))}, nil
}

func (f Field) Text() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(f.Name)+len(f.Value)+2))
	buf.WriteString(f.Name)
	buf.WriteString(": ")
	buf.WriteString(f.Value)
	return buf.Bytes()
}
