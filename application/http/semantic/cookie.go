package semantic

import (
	"maps"
	"slices"
	"strings"
	"time"

	"http-engine/application/util/uri"
)

// Cookies maps cookie names to values.
type Cookies map[string]string

// ParseCookies reads a Cookie header. Pairs are separated by "; " and the
// first occurrence of a name wins. Values use the legacy escape encoding.
func ParseCookies(header string) Cookies {
	cookies := make(Cookies)
	if header == "" {
		return cookies
	}

	for _, pair := range strings.Split(header, "; ") {
		name, value, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := cookies[name]; ok {
			continue
		}
		cookies[name] = uri.UnescapeLegacy(value)
	}
	return cookies
}

// Header renders cookies as a Cookie header value, names sorted.
func (c Cookies) Header() string {
	pairs := make([]string, 0, len(c))
	for _, name := range slices.Sorted(maps.Keys(c)) {
		pairs = append(pairs, uri.EscapeLegacy(name)+"="+uri.EscapeLegacy(c[name]))
	}
	return strings.Join(pairs, "; ")
}

// SetCookie is a cookie a server asks the client to store.
type SetCookie struct {
	Name     string
	Value    string
	Expires  time.Time // Zero means a session cookie.
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

// String renders the Set-Cookie header value.
func (c SetCookie) String() string {
	b := new(strings.Builder)
	b.WriteString(uri.EscapeComponent(c.Name))
	b.WriteByte('=')
	b.WriteString(uri.EscapeComponent(c.Value))

	if !c.Expires.IsZero() {
		b.WriteString("; expires=" + FormatDate(c.Expires))
	}
	if c.Path != "" {
		b.WriteString("; path=" + c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; domain=" + c.Domain)
	}
	if c.Secure {
		b.WriteString("; secure")
	}
	if c.HTTPOnly {
		b.WriteString("; httponly")
	}
	return b.String()
}
