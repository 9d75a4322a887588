package iolib

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFull(t *testing.T) {
	data := []byte("Hello, World!")
	var buf bytes.Buffer

	written, err := WriteFull(&buf, data)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, buf.Bytes())
}

type shortWriter struct {
	max int
	buf bytes.Buffer
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.max {
		p = p[:w.max]
	}
	return w.buf.Write(p)
}

func TestWriteFullShortWrites(t *testing.T) {
	data := []byte("Hello, World!")
	w := &shortWriter{max: 3}

	written, err := WriteFull(w, data)
	require.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, w.buf.Bytes())
}

func TestReadAll(t *testing.T) {
	errBoom := errors.New("boom")

	testcases := []struct {
		desc     string
		r        io.Reader
		limit    uint
		expected []byte
		err      error
	}{
		{
			desc:     "until EOF",
			r:        bytes.NewReader(bytes.Repeat([]byte("ab"), 1000)),
			expected: bytes.Repeat([]byte("ab"), 1000),
		},
		{
			desc:     "one byte at a time",
			r:        iotest.OneByteReader(bytes.NewReader([]byte("hello"))),
			expected: []byte("hello"),
		},
		{
			desc:     "within limit",
			r:        bytes.NewReader([]byte("hello")),
			limit:    5,
			expected: []byte("hello"),
		},
		{
			desc:     "over limit",
			r:        bytes.NewReader([]byte("hello!")),
			limit:    5,
			expected: []byte("hello"),
			err:      ErrLimitExceeded,
		},
		{
			desc:     "error after data",
			r:        io.MultiReader(bytes.NewReader([]byte("hel")), iotest.ErrReader(errBoom)),
			expected: []byte("hel"),
			err:      errBoom,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := ReadAll(tc.r, tc.limit)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadAllStopsAfterLimit(t *testing.T) {
	r := bytes.NewReader([]byte("hello world"))

	got, err := ReadAll(r, 3)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, []byte("hel"), got)
	assert.Equal(t, 7, r.Len())
}
