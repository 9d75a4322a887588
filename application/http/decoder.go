package http

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

type DecodeOptions struct {
	// AllowSoleLF specifies wheter a single LF character should be recognized as a valid line terminator.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
	AllowSoleLF bool

	// StrictFieldLines rejects the message on a malformed field line.
	// Otherwise such lines are skipped.
	StrictFieldLines bool

	// MaxLineLength limits every line of a streamed head. Zero means no limit.
	MaxLineLength uint

	// MaxBodyLength limits the Content-Length a streamed request may
	// announce. Zero means no limit.
	MaxBodyLength uint
}

var DefaultDecodeOptions = DecodeOptions{
	AllowSoleLF:      false,
	StrictFieldLines: false,
	MaxLineLength:    0,
	MaxBodyLength:    0,
}

var (
	ErrMalformedMessage     = errors.New("malformed http message")
	ErrMalformedStatusLine  = errors.Wrap(ErrMalformedMessage, "status line is malformed")
	ErrMalformedRequestLine = errors.Wrap(ErrMalformedMessage, "request line is malformed")
	ErrLineTooLong          = errors.New("line length exceeds limit")
	ErrBodyTooLong          = errors.New("body length exceeds limit")
	ErrMissingCRBeforeLF    = errors.New("missing CR before LF")
)

// DecodeResponse splits a complete response into status line, fields and
// body. The body is returned as received; transfer codings are not undone.
func DecodeResponse(raw []byte, opts DecodeOptions) (Response, error) {
	head, body, found := bytes.Cut(raw, rule.HeaderEnd)
	if !found {
		return Response{}, errors.Wrap(ErrMalformedMessage, "header/body separator not found")
	}

	lines := bytes.Split(head, rule.CRLF)

	statLine, err := parseStatusLine(lines[0])
	if err != nil {
		return Response{}, errors.Wrapf(ErrMalformedStatusLine, "%q: %s", lines[0], err)
	}

	headers, err := parseFieldLines(lines[1:], opts)
	if err != nil {
		return Response{}, err
	}

	return Response{StatusLine: statLine, Headers: headers, Body: body}, nil
}

func parseFieldLines(lines [][]byte, opts DecodeOptions) ([]Field, error) {
	fields := make([]Field, 0, len(lines))
	for _, line := range lines {
		field, err := ParseField(line)
		if err != nil {
			if opts.StrictFieldLines {
				return nil, errors.Wrap(ErrMalformedMessage, err.Error())
			}
			continue
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// parseStatusLine accepts `HTTP/<version> <code>[ <reason>]`. Spaces may
// lead the line and repeat between parts.
func parseStatusLine(line []byte) (StatusLine, error) {
	line = bytes.TrimLeft(line, " ")

	verRaw, rest, _ := bytes.Cut(line, []byte{rule.SP})
	ver, err := ParseVersion(verRaw)
	if err != nil {
		return StatusLine{}, errors.Wrap(err, "parsing version")
	}

	rest = bytes.TrimLeft(rest, " ")
	codeRaw, reason, _ := bytes.Cut(rest, []byte{rule.SP})
	code, err := strconv.ParseUint(string(codeRaw), 10, 32)
	if err != nil || len(codeRaw) == 0 || codeRaw[0] == '+' {
		return StatusLine{}, errors.Errorf("status code is malformed: %q", codeRaw)
	}

	// reason-phrase is optional.
	return StatusLine{
		Version:      ver,
		StatusCode:   uint(code),
		ReasonPhrase: string(bytes.TrimLeft(reason, " ")),
	}, nil
}

type MessageDecoder struct {
	br   *bufio.Reader
	opts DecodeOptions
}

func (md *MessageDecoder) readLine() ([]byte, error) {
	b, err := md.br.ReadSlice(rule.LF)
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, ErrLineTooLong
	}
	if err != nil {
		return nil, err
	}

	if limit := md.opts.MaxLineLength; limit > 0 && uint(len(b)) > limit {
		return nil, ErrLineTooLong
	}

	b = b[:len(b)-1] // Remove LF.
	if len(b) > 0 && b[len(b)-1] == rule.CR {
		b = b[:len(b)-1]
	} else if !md.opts.AllowSoleLF {
		return nil, ErrMissingCRBeforeLF
	}

	return bytes.Clone(b), nil
}

func (md *MessageDecoder) decodeHeaders() ([]Field, error) {
	var lines [][]byte
	for {
		line, err := md.readLine()
		if err != nil {
			return nil, errors.Wrap(err, "reading field line")
		}
		if len(line) == 0 {
			break
		}
		lines = append(lines, line)
	}
	return parseFieldLines(lines, md.opts)
}

type RequestDecoder struct{ MessageDecoder }

func NewRequestDecoder(r io.Reader, opts DecodeOptions) *RequestDecoder {
	return &RequestDecoder{
		MessageDecoder{br: bufio.NewReader(r), opts: opts},
	}
}

// Decode reads one request. The body is read when Content-Length
// announces one.
func (rd *RequestDecoder) Decode() (Request, error) {
	var line []byte
	for {
		b, err := rd.readLine()
		if err != nil {
			return Request{}, errors.Wrap(err, "reading request line")
		}
		// An empty line can be received before message.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-6
		if len(b) > 0 {
			line = b
			break
		}
	}

	reqLine, err := parseRequestLine(line)
	if err != nil {
		return Request{}, errors.Wrapf(ErrMalformedRequestLine, "%q: %s", line, err)
	}

	headers, err := rd.decodeHeaders()
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing headers")
	}

	req := Request{RequestLine: reqLine, Headers: headers}

	var length uint64
	for _, field := range headers {
		if !strings.EqualFold(field.Name, "Content-Length") {
			continue
		}
		if length, err = strconv.ParseUint(field.Value, 10, 63); err != nil {
			return Request{}, errors.Wrapf(ErrMalformedMessage, "bad content length %q", field.Value)
		}
	}
	if limit := rd.opts.MaxBodyLength; limit > 0 && length > uint64(limit) {
		return Request{}, errors.Wrapf(ErrBodyTooLong, "%d > %d", length, limit)
	}

	req.Body = make([]byte, length)
	if _, err := io.ReadFull(rd.br, req.Body); err != nil {
		return Request{}, errors.Wrap(err, "reading body")
	}

	return req, nil
}

func parseRequestLine(line []byte) (RequestLine, error) {
	parts := bytes.Split(line, []byte{rule.SP})
	if len(parts) != 3 {
		return RequestLine{}, errors.New("request line is malformed")
	}

	method := string(parts[0])
	if !rule.IsValidToken(method) {
		return RequestLine{}, errors.New("method is not a valid token")
	}

	target := string(parts[1])
	if len(target) == 0 {
		return RequestLine{}, errors.New("request target should not be empty")
	}

	ver, err := ParseVersion(parts[2])
	if err != nil {
		return RequestLine{}, errors.Wrap(err, "parsing version")
	}

	return RequestLine{Method: method, Target: target, Version: ver}, nil
}
