package form

import (
	"testing"

	"http-engine/lib/filesystem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MultipartDecodeTestSuite struct {
	suite.Suite

	opts MultipartOptions
}

func TestMultipartDecodeTestSuite(t *testing.T) {
	suite.Run(t, new(MultipartDecodeTestSuite))
}

func (s *MultipartDecodeTestSuite) SetupTest() {
	s.opts = DefaultMultipartOptions
}

func (s *MultipartDecodeTestSuite) TestField() {
	body := "--B\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nval\r\n--B--\r\n"

	f, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.Require().NoError(err)

	v, ok := f.Values.Get("f")
	s.True(ok)
	s.Equal("val", v)
	s.Empty(f.Files)
}

func (s *MultipartDecodeTestSuite) TestFile() {
	body := "--B\r\n" +
		"Content-Disposition: form-data; name=\"up\"; filename=\"x.txt\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"line1\r\nline2" +
		"\r\n--B--\r\n"

	f, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.Require().NoError(err)

	s.Empty(f.Values)
	file, ok := f.Files.Get("up")
	s.Require().True(ok)
	s.Equal("x.txt", file.OriginalName)
	s.Equal([]byte("line1\r\nline2"), file.Data)
	s.Equal("text/plain", file.Headers.Get("content-type"))
	s.Equal("text/plain", file.Headers["CONTENT_TYPE"])
}

func (s *MultipartDecodeTestSuite) TestRepeatedNamesPromote() {
	body := "--B\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1" +
		"\r\n--B\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n2" +
		"\r\n--B\r\nContent-Disposition: form-data; name=\"b\"\r\n\r\n" +
		"\r\n--B--"

	f, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.Require().NoError(err)

	s.True(f.Values.IsList("a"))
	s.Equal([]string{"1", "2"}, f.Values.Values("a"))
	s.Equal([]string{""}, f.Values.Values("b"))
}

func (s *MultipartDecodeTestSuite) TestNestedMixed() {
	body := "--AaB03x\r\n" +
		"Content-Disposition: form-data; name=\"submit-name\"\r\n\r\n" +
		"Larry" +
		"\r\n--AaB03x\r\n" +
		"Content-Disposition: form-data; name=\"files\"\r\n" +
		"Content-Type: multipart/mixed; boundary=BbC04y\r\n\r\n" +
		"--BbC04y\r\n" +
		"Content-Disposition: file; filename=\"file1.txt\"\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"... contents of file1.txt ..." +
		"\r\n--BbC04y\r\n" +
		"Content-Disposition: file; filename=\"file2.gif\"\r\n" +
		"Content-Type: image/gif\r\n" +
		"Content-Transfer-Encoding: binary\r\n\r\n" +
		"...contents of file2.gif..." +
		"\r\n--BbC04y--" +
		"\r\n--AaB03x--\r\n"

	f, err := DecodeMultipart([]byte(body), "AaB03x", s.opts)
	s.Require().NoError(err)

	s.Equal([]string{"Larry"}, f.Values.Values("submit-name"))
	s.Require().True(f.Files.IsList("files"))

	files := f.Files.Values("files")
	s.Require().Len(files, 2)
	s.Equal("file1.txt", files[0].OriginalName)
	s.Equal([]byte("... contents of file1.txt ..."), files[0].Data)
	s.Equal("file2.gif", files[1].OriginalName)
	s.Equal("binary", files[1].Headers.Get("Content-Transfer-Encoding"))
}

func (s *MultipartDecodeTestSuite) TestPreambleAndEpilogue() {
	body := "preamble\r\n--B\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nv\r\n--B--\r\nepilogue\r\n--B\r\n"

	f, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.Require().NoError(err)
	s.Equal([]string{"v"}, f.Values.Values("f"))
}

func (s *MultipartDecodeTestSuite) TestMissingSeparatorIsFatal() {
	body := "--B\r\nContent-Disposition: form-data; name=\"f\"\r\nval\r\n--B--\r\n"

	_, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.ErrorIs(err, ErrMalformedMultipart)
}

func (s *MultipartDecodeTestSuite) TestBadHeaderLineIsFatal() {
	body := "--B\r\nthis is no header\r\n\r\nval\r\n--B--\r\n"

	_, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.ErrorIs(err, ErrMalformedMultipart)
}

func (s *MultipartDecodeTestSuite) TestMissingFinalBoundary() {
	body := "--B\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1" +
		"\r\n--B\r\nContent-Disposition: form-data; name=\"b\"\r\n\r\ncut off"

	// Tolerated by default: complete parts are kept.
	f, err := DecodeMultipart([]byte(body), "B", s.opts)
	s.Require().NoError(err)
	s.Equal([]string{"1"}, f.Values.Values("a"))
	s.False(f.Values.Has("b"))

	s.opts.RequireFinalBoundary = true
	_, err = DecodeMultipart([]byte(body), "B", s.opts)
	s.ErrorIs(err, ErrMissingFinalBoundary)
	s.ErrorIs(err, ErrMalformedMultipart)
}

func (s *MultipartDecodeTestSuite) TestNoBoundaryAtAll() {
	f, err := DecodeMultipart([]byte("garbage"), "B", s.opts)
	s.Require().NoError(err)
	s.Empty(f.Values)

	_, err = DecodeMultipart([]byte("garbage"), "", s.opts)
	s.ErrorIs(err, ErrMissingBoundary)
}

func (s *MultipartDecodeTestSuite) TestNestingBound() {
	s.opts.MaxDepth = 0
	body := "--A\r\nContent-Disposition: form-data; name=\"f\"\r\n" +
		"Content-Type: multipart/mixed; boundary=C\r\n\r\n" +
		"--C\r\nContent-Disposition: file; filename=\"a\"\r\n\r\nx\r\n--C--" +
		"\r\n--A--"

	_, err := DecodeMultipart([]byte(body), "A", s.opts)
	s.ErrorIs(err, ErrMalformedMultipart)
}

func (s *MultipartDecodeTestSuite) TestMixedWithoutBoundaryDropped() {
	body := "--A\r\nContent-Disposition: form-data; name=\"f\"\r\n" +
		"Content-Type: multipart/mixed\r\n\r\n" +
		"--C\r\nContent-Disposition: file; filename=\"a\"\r\n\r\nx\r\n--C--" +
		"\r\n--A\r\nContent-Disposition: form-data; name=\"g\"\r\n\r\nkept" +
		"\r\n--A--"

	f, err := DecodeMultipart([]byte(body), "A", s.opts)
	s.Require().NoError(err)

	s.False(f.Values.Has("f"))
	s.False(f.Files.Has("f"))
	s.Equal([]string{"kept"}, f.Values.Values("g"))
}

func TestBoundaryFrom(t *testing.T) {
	b, err := BoundaryFrom(`multipart/form-data; boundary="----x y"`)
	require.NoError(t, err)
	assert.Equal(t, "----x y", b)

	_, err = BoundaryFrom("multipart/form-data")
	assert.ErrorIs(t, err, ErrMissingBoundary)
}

func TestDisplayNameAndContentType(t *testing.T) {
	testcases := []struct {
		path        string
		name        string
		contentType string
	}{
		{path: "/tmp/photo.JPG", name: "photo", contentType: "image/jpeg"},
		{path: "dir/archive.tar.gz", name: "archive", contentType: "application/octet-stream"},
		{path: `C:\logs\server.log`, name: "server", contentType: "text/plain"},
		{path: "README", name: "README", contentType: "application/octet-stream"},
		{path: "notes.txt", name: "notes", contentType: "text/plain"},
		{path: "a.jpeg", name: "a", contentType: "image/jpeg"},
	}
	for _, tc := range testcases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.name, DisplayName(tc.path))
			assert.Equal(t, tc.contentType, FileContentType(tc.path))
		})
	}
}

func TestEncodeMultipart(t *testing.T) {
	fs := filesystem.NewMemoryFilesystem(map[string][]byte{
		"/data/a.txt": []byte("hello"),
	})

	body, err := EncodeMultipart(fs, "B",
		[]Field{{Name: "k", Value: "v"}},
		[]FileField{{Name: "up", Path: "/data/a.txt"}},
	)
	require.NoError(t, err)

	expected := "\r\n--B\r\n" +
		"Content-Disposition: form-data; name=\"k\"\r\n\r\n" +
		"v" +
		"\r\n--B\r\n" +
		"Content-Disposition: form-data; name=\"up\"; filename=\"a\"\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"hello" +
		"\r\n--B--\r\n"
	assert.Equal(t, expected, string(body))
}

func TestEncodeMultipartFraming(t *testing.T) {
	fs := filesystem.NewMemoryFilesystem(nil)

	testcases := []struct {
		desc     string
		fields   []Field
		expected string
	}{
		{
			desc:     "single field",
			fields:   []Field{{Name: "f", Value: "v"}},
			expected: "\r\n--B\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nv\r\n--B--\r\n",
		},
		{
			desc:     "no parts",
			expected: "\r\n--B--\r\n",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			body, err := EncodeMultipart(fs, "B", tc.fields, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(body))
		})
	}
}

func TestEncodeMultipartMissingFile(t *testing.T) {
	fs := filesystem.NewMemoryFilesystem(nil)

	_, err := EncodeMultipart(fs, "B", nil, []FileField{{Name: "up", Path: "/nope"}})
	assert.ErrorIs(t, err, filesystem.ErrFileNotFound)
}

func TestMultipartRoundTrip(t *testing.T) {
	binary := []byte{0x00, 0xFF, '\r', '\n', '-', '-', 0x7F}
	fs := filesystem.NewMemoryFilesystem(map[string][]byte{
		"/a.jpg":   binary,
		"/b.log":   []byte("log line\n"),
		"/c.empty": {},
	})
	fields := []Field{
		{Name: "title", Value: "hello world"},
		{Name: "multi", Value: "1"},
		{Name: "multi", Value: "2"},
		{Name: "empty", Value: ""},
	}
	files := []FileField{
		{Name: "pics", Path: "/a.jpg"},
		{Name: "pics", Path: "/b.log"},
		{Name: "blank", Path: "/c.empty"},
	}
	boundary := NewBoundary()

	body, err := EncodeMultipart(fs, boundary, fields, files)
	require.NoError(t, err)

	f, err := DecodeMultipart(body, boundary, MultipartOptions{RequireFinalBoundary: true, MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"hello world"}, f.Values.Values("title"))
	assert.Equal(t, []string{"1", "2"}, f.Values.Values("multi"))
	assert.Equal(t, []string{""}, f.Values.Values("empty"))

	pics := f.Files.Values("pics")
	require.Len(t, pics, 2)
	assert.Equal(t, binary, pics[0].Data)
	assert.Equal(t, "a", pics[0].OriginalName)
	assert.Equal(t, "image/jpeg", pics[0].Headers.Get("Content-Type"))
	assert.Equal(t, []byte("log line\n"), pics[1].Data)

	blank, ok := f.Files.Get("blank")
	require.True(t, ok)
	assert.Empty(t, blank.Data)
}

func TestNewBoundaryIsUnique(t *testing.T) {
	a, b := NewBoundary(), NewBoundary()
	assert.NotEqual(t, a, b)
	assert.Equal(t, "multipart/form-data; boundary="+a, ContentType(a))
}
