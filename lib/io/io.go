package iolib

import (
	"io"

	"github.com/pkg/errors"
)

var ErrLimitExceeded = errors.New("read limit exceeded")

// WriteFull writes whole buf to w, retrying short writes.
func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// ReadAll reads from r until it returns an error.
// io.EOF is reported as a nil error; any other error is returned
// together with the bytes read before it.
// When limit is non-zero and r yields more than limit bytes,
// the first limit bytes are returned with [ErrLimitExceeded]. At most
// limit+1 bytes are consumed from r.
func ReadAll(r io.Reader, limit uint) ([]byte, error) {
	buf := make([]byte, 0, 512)
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}

		window := buf[len(buf):cap(buf)]
		if limit > 0 {
			if budget := limit + 1 - uint(len(buf)); uint(len(window)) > budget {
				window = window[:budget]
			}
		}

		n, err := r.Read(window)
		buf = buf[:len(buf)+n]

		if limit > 0 && uint(len(buf)) > limit {
			return buf[:limit], ErrLimitExceeded
		}
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return buf, err
		}
	}
}
