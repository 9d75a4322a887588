package form

import (
	"bytes"
	"path"
	"strings"

	"http-engine/lib/filesystem"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Field is a plain text part.
type Field struct {
	Name  string
	Value string
}

// FileField is a file part whose content is read from Path.
type FileField struct {
	Name string
	Path string
}

var quoteEscaper = strings.NewReplacer("\"", "%22", "\r", "%0D", "\n", "%0A")

// NewBoundary returns a random boundary token.
func NewBoundary() string {
	return "----FormBoundary" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ContentType is the value announcing a multipart/form-data body.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// FileContentType guesses a content type from the extension of name.
func FileContentType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "txt", "log":
		return "text/plain"
	}
	return "application/octet-stream"
}

// DisplayName is the base name of p up to its first dot.
func DisplayName(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	name, _, _ := strings.Cut(base, ".")
	return name
}

// EncodeMultipart writes fields and then files as a multipart/form-data
// body. File contents are read through fs. Every delimiter, the first one
// included, is preceded by CRLF.
func EncodeMultipart(fs filesystem.Reader, boundary string, fields []Field, files []FileField) ([]byte, error) {
	if boundary == "" {
		return nil, ErrMissingBoundary
	}

	buf := new(bytes.Buffer)
	writeDelimiter := func() { buf.WriteString("\r\n--" + boundary + "\r\n") }

	for _, field := range fields {
		writeDelimiter()
		buf.WriteString(`Content-Disposition: form-data; name="` + quoteEscaper.Replace(field.Name) + "\"\r\n\r\n")
		buf.WriteString(field.Value)
	}

	for _, file := range files {
		content, err := fs.ReadFile(file.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading file for field %q", file.Name)
		}

		writeDelimiter()
		buf.WriteString(`Content-Disposition: form-data; name="` + quoteEscaper.Replace(file.Name) + `"`)
		buf.WriteString(`; filename="` + quoteEscaper.Replace(DisplayName(file.Path)) + "\"\r\n")
		buf.WriteString("Content-Type: " + FileContentType(file.Path) + "\r\n\r\n")
		buf.Write(content)
	}

	buf.WriteString("\r\n--" + boundary + "--\r\n")

	return buf.Bytes(), nil
}
