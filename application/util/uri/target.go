package uri

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTarget     = errors.New("invalid request target")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Target is an absolute http(s) URL split into the parts needed to open a
// connection and write a request line. Path never holds the query.
type Target struct {
	Scheme string
	Host   string // Without brackets for IPv6 literals.
	Port   uint16
	Path   string
}

func DefaultPort(scheme string) uint16 {
	if scheme == SchemeHTTPS {
		return 443
	}
	return 80
}

// SplitQuery cuts raw at the first '?'.
func SplitQuery(raw string) (rest, query string) {
	rest, query, _ = strings.Cut(raw, "?")
	return rest, query
}

// ParseTarget parses an http(s) URL without query. A missing scheme
// means http, a missing port the scheme's default, a missing path "/".
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimLeft(raw, " ")
	if strings.ContainsAny(raw, "?#") {
		return Target{}, errors.Wrapf(ErrInvalidTarget, "%q carries query or fragment", raw)
	}

	t := Target{Scheme: SchemeHTTP}
	if scheme, rest, found := strings.Cut(raw, "://"); found {
		switch scheme = strings.ToLower(scheme); scheme {
		case SchemeHTTP, SchemeHTTPS:
		default:
			return Target{}, errors.Wrapf(ErrUnsupportedScheme, "%q", scheme)
		}
		t.Scheme, raw = scheme, rest
	}

	authority, path := raw, "/"
	if idx := strings.IndexByte(raw, '/'); idx >= 0 {
		authority, path = raw[:idx], raw[idx:]
	}
	t.Path = path

	host, port, err := splitAuthority(authority)
	if err != nil {
		return Target{}, errors.Wrapf(err, "parsing %q", raw)
	}
	t.Host = host
	t.Port = DefaultPort(t.Scheme)
	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil || n == 0 {
			return Target{}, errors.Wrapf(ErrInvalidTarget, "bad port %q", port)
		}
		t.Port = uint16(n)
	}

	return t, nil
}

func splitAuthority(authority string) (host, port string, err error) {
	if strings.Contains(authority, "@") {
		return "", "", errors.Wrap(ErrInvalidTarget, "userinfo is not supported")
	}

	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return "", "", errors.Wrap(ErrInvalidTarget, "unterminated IP literal")
		}
		host, rest := authority[1:end], authority[end+1:]
		if net.ParseIP(host) == nil {
			return "", "", errors.Wrapf(ErrInvalidTarget, "bad IP literal %q", host)
		}
		if rest == "" {
			return host, "", nil
		}
		if rest[0] != ':' {
			return "", "", errors.Wrapf(ErrInvalidTarget, "garbage after IP literal %q", rest)
		}
		return host, rest[1:], nil
	}

	host, port, _ = strings.Cut(authority, ":")
	if host == "" {
		return "", "", errors.Wrap(ErrInvalidTarget, "empty host")
	}
	return host, port, nil
}

// HostPort renders host and port, bracketing IPv6 literals. The port is
// left out when omitPort is set.
func (t Target) HostPort(omitPort bool) string {
	if omitPort {
		if strings.Contains(t.Host, ":") {
			return "[" + t.Host + "]"
		}
		return t.Host
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}

// Origin is scheme://host[:port], with a default port left out.
func (t Target) Origin() string {
	return t.Scheme + "://" + t.HostPort(t.Port == DefaultPort(t.Scheme))
}

func (t Target) String() string { return t.Origin() + t.Path }

// Resolve computes the target a redirect Location points at, relative to
// current. It also returns the query carried by location, if any.
//
// An absolute location replaces everything, one starting with "//" keeps
// the scheme, one starting with "/" keeps the origin and anything else
// replaces the last path segment.
func Resolve(current Target, location string) (Target, string, error) {
	location, _, _ = strings.Cut(strings.TrimSpace(location), "#")
	location, query := SplitQuery(location)

	switch {
	case strings.Contains(location, "://"):
		t, err := ParseTarget(location)
		return t, query, err
	case strings.HasPrefix(location, "//"):
		t, err := ParseTarget(current.Scheme + ":" + location)
		return t, query, err
	case strings.HasPrefix(location, "/"):
		current.Path = removeDotSegments(location)
	case location == "":
		// Same resource, possibly with another query.
	default:
		dir := current.Path[:strings.LastIndexByte(current.Path, '/')+1]
		current.Path = removeDotSegments(dir + location)
	}

	if current.Path == "" {
		current.Path = "/"
	}
	return current, query, nil
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.4
func removeDotSegments(path string) string {
	out := make([]string, 0, strings.Count(path, "/"))
	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}

	for len(path) > 0 {
		var found bool
		if path, found = strings.CutPrefix(path, "../"); found {
			continue
		}
		if path, found = strings.CutPrefix(path, "./"); found {
			continue
		}

		if path, found = strings.CutPrefix(path, "/./"); found {
			path = "/" + path
			continue
		} else if path == "/." {
			path = "/"
			continue
		}

		if path, found = strings.CutPrefix(path, "/../"); found {
			pop()
			path = "/" + path
			continue
		} else if path == "/.." {
			pop()
			path = "/"
			continue
		}

		if path == ".." || path == "." {
			break
		}

		// Move the first segment, with its leading "/", to the output.
		idx := strings.IndexByte(path[1:], '/') + 1
		if idx == 0 {
			idx = len(path)
		}
		out = append(out, path[:idx])
		path = path[idx:]
	}

	return strings.Join(out, "")
}
