package transfer

import (
	"bytes"
	"io"
	"math/big"
	"strconv"

	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

var ErrMalformedChunk = errors.New("malformed chunked body")

type Chunk struct {
	Size       uint64
	Extensions [][2]string
}

// DecodeChunked reassembles a chunked body. Extensions and trailers are
// skipped. A bad size line, data shorter than announced, a chunk without
// its closing CRLF or a body lacking the last chunk fail with
// ErrMalformedChunk.
func DecodeChunked(body []byte) ([]byte, error) {
	out := make([]byte, 0, initialCapacity(len(body)))

	pos := 0
	for {
		if pos >= len(body) {
			return nil, errors.Wrap(ErrMalformedChunk, "last chunk not found")
		}

		lineEnd := bytes.Index(body[pos:], rule.CRLF)
		if lineEnd < 0 {
			return nil, errors.Wrap(ErrMalformedChunk, "chunk size line is not terminated")
		}

		chunk, err := decodeChunkLine(body[pos : pos+lineEnd])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedChunk, "at offset %d: %s", pos, err)
		}
		pos += lineEnd + len(rule.CRLF)

		if chunk.Size == 0 {
			// Last chunk.
			return out[:len(out):len(out)], nil
		}

		if uint64(len(body)-pos) < chunk.Size {
			return nil, errors.Wrapf(ErrMalformedChunk,
				"chunk of %d bytes truncated to %d", chunk.Size, len(body)-pos)
		}
		size := int(chunk.Size)

		out = appendDoubling(out, body[pos:pos+size])
		pos += size

		if !bytes.HasPrefix(body[pos:], rule.CRLF) {
			return nil, errors.Wrap(ErrMalformedChunk, "CRLF delimiter not found after chunk data")
		}
		pos += len(rule.CRLF)
	}
}

func initialCapacity(n int) int {
	const minCapacity = 64
	return max(minCapacity, n/2)
}

// appendDoubling appends p to buf, doubling the capacity whenever it
// runs out.
func appendDoubling(buf, p []byte) []byte {
	need := len(buf) + len(p)
	if need > cap(buf) {
		newCap := max(cap(buf), 1)
		for newCap < need {
			newCap *= 2
		}
		grown := make([]byte, len(buf), newCap)
		copy(grown, buf)
		buf = grown
	}
	return append(buf, p...)
}

func decodeChunkLine(line []byte) (Chunk, error) {
	parts := bytes.Split(line, []byte{';'})

	sizeRaw := bytes.Trim(parts[0], string(rule.OWS))
	size, err := decodeChunkSize(sizeRaw)
	if err != nil {
		return Chunk{}, errors.Wrap(err, "decoding chunk size")
	}

	extensions := make([][2]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		k, v, _ := bytes.Cut(part, []byte{'='})
		// Trim BWS.
		k = bytes.Trim(k, string(rule.OWS))
		v = bytes.Trim(v, string(rule.OWS))

		extensions = append(extensions, [2]string{
			string(k),
			rule.Unquote(string(v)),
		})
	}

	return Chunk{Size: size, Extensions: extensions}, nil
}

func decodeChunkSize(b []byte) (uint64, error) {
	for _, c := range b {
		if !rule.IsHex(c) {
			return 0, errors.Errorf("failed to decode hex: %q", string(b))
		}
	}

	n, ok := new(big.Int).SetString(string(b), 16)
	if !ok {
		return 0, errors.Errorf("failed to decode hex: %q", string(b))
	}

	if n.BitLen() > 63 {
		return 0, errors.Errorf("chunk size too large: %dbits", n.BitLen())
	}

	return n.Uint64(), nil
}

// ChunkedWriter frames everything written to it as chunks. Close writes
// the last chunk and the empty trailer section.
type ChunkedWriter struct {
	w         io.Writer
	headerBuf *bytes.Buffer

	extensions [][2]string
}

var _ io.WriteCloser = (*ChunkedWriter)(nil)

func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{w: w, headerBuf: bytes.NewBuffer(nil)}
}

// SetExtensions attaches extensions to the next chunk only.
func (cw *ChunkedWriter) SetExtensions(extensions [][2]string) {
	cw.extensions = extensions
}

func (cw *ChunkedWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		// A zero sized chunk would end the body.
		return 0, nil
	}

	if err := cw.writeChunkLine(uint64(len(p))); err != nil {
		return 0, err
	}

	n, err = cw.w.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "writing chunk data")
	}
	if _, err := cw.w.Write(rule.CRLF); err != nil {
		return n, errors.Wrap(err, "writing chunk delimiter")
	}

	return n, nil
}

func (cw *ChunkedWriter) Close() error {
	if err := cw.writeChunkLine(0); err != nil {
		return err
	}

	_, err := cw.w.Write(rule.CRLF)
	return errors.Wrap(err, "writing end of trailers")
}

func (cw *ChunkedWriter) writeChunkLine(size uint64) error {
	buf := cw.headerBuf
	buf.Reset()
	buf.WriteString(strconv.FormatUint(size, 16))
	for _, ext := range cw.extensions {
		buf.WriteByte(';')
		buf.WriteString(ext[0])
		if ext[1] != "" {
			buf.WriteByte('=')
			buf.WriteString(ext[1])
		}
	}
	buf.Write(rule.CRLF)
	cw.extensions = nil

	_, err := cw.w.Write(buf.Bytes())
	return errors.Wrap(err, "writing chunk header")
}
