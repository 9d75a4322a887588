package form

import (
	"bytes"
	"regexp"
	"strings"

	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

var (
	ErrMalformedMultipart   = errors.New("malformed multipart body")
	ErrMissingFinalBoundary = errors.Wrap(ErrMalformedMultipart, "missing final boundary")
	ErrMissingBoundary      = errors.New("content type carries no boundary")
)

var (
	dispositionName     = regexp.MustCompile(`(?i) name="(.*?)"`)
	dispositionFilename = regexp.MustCompile(`(?i)filename="(.*?)"`)
)

// PartHeaders holds the header lines of one part. Names are stored upper
// cased with '-' turned into '_', so "Content-Type" is "CONTENT_TYPE".
type PartHeaders map[string]string

func PartHeaderName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func (h PartHeaders) Get(name string) string { return h[PartHeaderName(name)] }

// File is an uploaded file part.
type File struct {
	Headers      PartHeaders
	OriginalName string
	Data         []byte
}

// Form is a decoded multipart body. Plain parts land in Values, parts
// carrying a filename land in Files.
type Form struct {
	Values Values
	Files  Files
}

func NewForm() *Form {
	return &Form{Values: make(Values), Files: make(Files)}
}

type MultipartOptions struct {
	// Fail with ErrMissingFinalBoundary when the body ends before the
	// closing delimiter. Otherwise parts decoded so far are kept and the
	// unterminated one is dropped.
	RequireFinalBoundary bool
	// Bound on multipart/mixed nesting.
	MaxDepth uint
}

var DefaultMultipartOptions = MultipartOptions{
	RequireFinalBoundary: false,
	MaxDepth:             8,
}

// BoundaryFrom extracts the boundary parameter of a multipart content type.
func BoundaryFrom(contentType string) (string, error) {
	boundary, ok := rule.Param(contentType, "boundary")
	if !ok || boundary == "" {
		return "", errors.Wrapf(ErrMissingBoundary, "%q", contentType)
	}
	return boundary, nil
}

// DecodeMultipart decodes body delimited by boundary.
func DecodeMultipart(body []byte, boundary string, opts MultipartOptions) (*Form, error) {
	if boundary == "" {
		return nil, ErrMissingBoundary
	}

	f := NewForm()
	d := multipartDecoder{opts: opts, form: f}
	if err := d.decode(body, boundary, "", 0); err != nil {
		return nil, err
	}
	return f, nil
}

type multipartDecoder struct {
	opts MultipartOptions
	form *Form
}

func (d *multipartDecoder) decode(body []byte, boundary, name string, depth uint) error {
	if depth > d.opts.MaxDepth {
		return errors.Wrapf(ErrMalformedMultipart, "nested deeper than %d", d.opts.MaxDepth)
	}

	// The first delimiter has no CRLF in front of it, the others do.
	first := []byte("--" + boundary)
	delimiter := []byte("\r\n--" + boundary)

	start := bytes.Index(body, first)
	if start < 0 {
		return d.unterminated()
	}
	pos := start + len(first)

	for {
		if bytes.HasPrefix(body[pos:], []byte("--")) {
			// Close delimiter. The epilogue is ignored.
			return nil
		}

		next := bytes.Index(body[pos:], delimiter)
		if next < 0 {
			return d.unterminated()
		}

		if err := d.decodePart(body[pos:pos+next], name, depth); err != nil {
			return err
		}
		pos += next + len(delimiter)
	}
}

func (d *multipartDecoder) unterminated() error {
	if d.opts.RequireFinalBoundary {
		return ErrMissingFinalBoundary
	}
	return nil
}

func (d *multipartDecoder) decodePart(part []byte, name string, depth uint) error {
	sep := bytes.Index(part, rule.HeaderEnd)
	if sep < 0 {
		return errors.Wrap(ErrMalformedMultipart, "part has no header/body separator")
	}

	headers, err := parsePartHeaders(part[:sep])
	if err != nil {
		return err
	}
	body := part[sep+len(rule.HeaderEnd):]

	var filename string
	isFile := false
	if cd := headers.Get("Content-Disposition"); cd != "" {
		if m := dispositionName.FindStringSubmatch(cd); m != nil {
			name = m[1]
		}
		if m := dispositionFilename.FindStringSubmatch(cd); m != nil {
			filename, isFile = m[1], true
		}
	}

	if ct := headers.Get("Content-Type"); strings.Contains(strings.ToLower(ct), "multipart/mixed") {
		boundary, err := BoundaryFrom(ct)
		if err != nil {
			// Nothing inside can be delimited; the part is dropped.
			return nil
		}
		return d.decode(body, boundary, name, depth+1)
	}

	if isFile {
		d.form.Files.Add(name, File{
			Headers:      headers,
			OriginalName: filename,
			Data:         bytes.Clone(body),
		})
		return nil
	}
	d.form.Values.Add(name, string(body))
	return nil
}

func parsePartHeaders(block []byte) (PartHeaders, error) {
	headers := make(PartHeaders)
	for _, line := range strings.Split(string(block), "\r\n") {
		if line == "" {
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found || name == "" {
			return nil, errors.Wrapf(ErrMalformedMultipart, "bad part header line %q", line)
		}
		headers[PartHeaderName(name)] = strings.TrimLeft(value, " ")
	}
	return headers, nil
}
