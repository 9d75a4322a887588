package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}

	// Blank line separating a header block from the body.
	HeaderEnd = []byte{CR, LF, CR, LF}
)

func IsWhitespace(c byte) bool { return c == SP || c == HTAB }

func IsAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

func IsHex(c byte) bool {
	return IsDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// TrimOWS strips optional whitespace around s.
func TrimOWS(s string) string {
	start, end := 0, len(s)
	for start < end && IsWhitespace(s[start]) {
		start++
	}
	for end > start && IsWhitespace(s[end-1]) {
		end--
	}
	return s[start:end]
}
