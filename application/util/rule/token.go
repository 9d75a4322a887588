package rule

import (
	"strings"
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if IsAlpha(c) || IsDigit(c) {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}

// Unquote unquotes token if it was quoted with double quotes.
// If quoted string includes escaped character, it will be un-escaped.
func Unquote(token string) string {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return token
	}
	token = token[1 : len(token)-1]

	b := new(strings.Builder)
	b.Grow(len(token))
	for idx := 0; idx < len(token); idx++ {
		c := token[idx]
		if c == '\\' && idx+1 < len(token) {
			// quoted-pair
			idx++
			c = token[idx]
		}
		b.WriteByte(c)
	}

	return b.String()
}

// Param finds the value of parameter name inside a header value such as
// `multipart/form-data; boundary="abc"`. Names compare case-insensitively.
func Param(value, name string) (string, bool) {
	for _, part := range strings.Split(value, ";")[1:] {
		k, v, found := strings.Cut(part, "=")
		if !found || !strings.EqualFold(TrimOWS(k), name) {
			continue
		}
		return Unquote(TrimOWS(v)), true
	}
	return "", false
}
