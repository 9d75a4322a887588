package uri

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"http-engine/application/util/rule"

	"github.com/pkg/errors"
)

var ErrMalformedEscape = errors.New("malformed percent encoding")

type encodeMode uint

const (
	// Every byte except the unreserved set and !*'().
	encodeComponent encodeMode = 1 + iota
	// Legacy escape(): every byte except the unreserved set and @*+/.
	encodeLegacy
)

func hex(c byte) (h [2]byte) {
	const hexSet = "0123456789ABCDEF"
	h[0] = hexSet[c>>4]
	h[1] = hexSet[c&0xF]
	return
}

func unhex(h [2]byte) (c byte) {
	return (hexToNum(h[0]) << 4) | hexToNum(h[1])
}

func hexToNum(h byte) byte {
	switch {
	case '0' <= h && h <= '9':
		return h - '0'
	case 'a' <= h && h <= 'f':
		return h - 'a' + 10
	case 'A' <= h && h <= 'F':
		return h - 'A' + 10
	}
	return 0
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	if rule.IsAlpha(c) || rule.IsDigit(c) {
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
func isPercentEncoded(s string) bool {
	if len(s) != 3 {
		return false
	}

	return s[0] == '%' && rule.IsHex(s[1]) && rule.IsHex(s[2])
}

func shouldEscape(c byte, mode encodeMode) bool {
	switch mode {
	case encodeComponent:
		if isUnreserved(c) {
			return false
		}
		switch c {
		case '!', '*', '\'', '(', ')':
			return false
		}
	case encodeLegacy:
		if rule.IsAlpha(c) || rule.IsDigit(c) {
			return false
		}
		switch c {
		case '@', '*', '_', '+', '-', '.', '/':
			return false
		}
	}

	return true
}

func escape(s string, mode encodeMode) string {
	b := new(strings.Builder)
	b.Grow(len(s))

	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if shouldEscape(c, mode) {
			hex := hex(c)
			b.Write([]byte{'%', hex[0], hex[1]})
		} else {
			b.WriteByte(c)
		}
	}

	return b.String()
}

func unescape(s string) (string, error) {
	b := new(strings.Builder)
	b.Grow(len(s))

	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if c == '%' {
			if idx+2 >= len(s) || !isPercentEncoded(s[idx:idx+3]) {
				bad := s[idx:min(len(s), idx+3)]
				return "", errors.Wrapf(ErrMalformedEscape, "%q", bad)
			}
			b.WriteByte(unhex([2]byte{s[idx+1], s[idx+2]}))
			idx += 2
			continue
		}
		b.WriteByte(c)
	}

	return b.String(), nil
}

// EscapeComponent percent-encodes the UTF-8 bytes of s the way form values
// and query components are written by browsers (encodeURIComponent).
func EscapeComponent(s string) string { return escape(s, encodeComponent) }

// UnescapeComponent reverses EscapeComponent. It fails when an escape is
// malformed or the decoded bytes are not valid UTF-8.
func UnescapeComponent(s string) (string, error) {
	out, err := unescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(out) {
		return "", errors.Wrapf(ErrMalformedEscape, "decoded %q is not valid UTF-8", s)
	}
	return out, nil
}

// EscapeLegacy encodes s like the legacy escape() function: bytes below
// 0x80 as %XX, other characters as %XX (Latin-1) or %uXXXX (UTF-16 units).
func EscapeLegacy(s string) string {
	b := new(strings.Builder)
	b.Grow(len(s))

	writeUnit := func(u uint16) {
		const hexSet = "0123456789ABCDEF"
		if u < 0x100 {
			hex := hex(byte(u))
			b.Write([]byte{'%', hex[0], hex[1]})
			return
		}
		b.Write([]byte{'%', 'u',
			hexSet[u>>12], hexSet[(u>>8)&0xF], hexSet[(u>>4)&0xF], hexSet[u&0xF],
		})
	}

	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && !shouldEscape(byte(r), encodeLegacy):
			b.WriteByte(byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			writeUnit(uint16(hi))
			writeUnit(uint16(lo))
		default:
			writeUnit(uint16(r))
		}
	}

	return b.String()
}

// UnescapeLegacy reverses EscapeLegacy. Sequences that are not valid
// escapes are kept as they are, so it never fails.
func UnescapeLegacy(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	units := make([]uint16, 0, len(s))
	for idx := 0; idx < len(s); {
		if s[idx] == '%' {
			if idx+6 <= len(s) && s[idx+1] == 'u' && isHexString(s[idx+2:idx+6]) {
				units = append(units, uint16(unhex([2]byte{s[idx+2], s[idx+3]}))<<8|
					uint16(unhex([2]byte{s[idx+4], s[idx+5]})))
				idx += 6
				continue
			}
			if idx+3 <= len(s) && isPercentEncoded(s[idx:idx+3]) {
				units = append(units, uint16(unhex([2]byte{s[idx+1], s[idx+2]})))
				idx += 3
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(s[idx:])
		units = utf16.AppendRune(units, r)
		idx += size
	}

	return string(utf16.Decode(units))
}

func isHexString(s string) bool {
	for idx := 0; idx < len(s); idx++ {
		if !rule.IsHex(s[idx]) {
			return false
		}
	}
	return true
}
