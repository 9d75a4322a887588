package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Target
		wantErr  error
	}{
		{
			desc:     "bare host",
			input:    "example.com",
			expected: Target{Scheme: "http", Host: "example.com", Port: 80, Path: "/"},
		},
		{
			desc:     "https default port",
			input:    "https://example.com/a/b",
			expected: Target{Scheme: "https", Host: "example.com", Port: 443, Path: "/a/b"},
		},
		{
			desc:     "explicit port and leading spaces",
			input:    "  HTTP://example.com:8080/x",
			expected: Target{Scheme: "http", Host: "example.com", Port: 8080, Path: "/x"},
		},
		{
			desc:     "ipv6 literal",
			input:    "http://[::1]:8080/",
			expected: Target{Scheme: "http", Host: "::1", Port: 8080, Path: "/"},
		},
		{desc: "ftp", input: "ftp://example.com/", wantErr: ErrUnsupportedScheme},
		{desc: "empty host", input: "http:///path", wantErr: ErrInvalidTarget},
		{desc: "bad port", input: "http://a:99999/", wantErr: ErrInvalidTarget},
		{desc: "query", input: "http://a/?q", wantErr: ErrInvalidTarget},
		{desc: "userinfo", input: "http://u:p@a/", wantErr: ErrInvalidTarget},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			target, err := ParseTarget(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, target)
		})
	}
}

func TestTargetRendering(t *testing.T) {
	target := Target{Scheme: "http", Host: "::1", Port: 8080, Path: "/p"}
	assert.Equal(t, "[::1]:8080", target.HostPort(false))
	assert.Equal(t, "[::1]", target.HostPort(true))
	assert.Equal(t, "http://[::1]:8080/p", target.String())

	target = Target{Scheme: "https", Host: "example.com", Port: 443, Path: "/"}
	assert.Equal(t, "https://example.com/", target.String())
}

func TestResolve(t *testing.T) {
	current := Target{Scheme: "http", Host: "host", Port: 8080, Path: "/old/path"}

	testcases := []struct {
		desc          string
		location      string
		expected      string
		expectedQuery string
	}{
		{desc: "absolute path", location: "/new", expected: "http://host:8080/new"},
		{desc: "relative", location: "other", expected: "http://host:8080/old/other"},
		{desc: "relative with dots", location: "../up", expected: "http://host:8080/up"},
		{desc: "absolute url", location: "https://else.com/x", expected: "https://else.com/x"},
		{desc: "scheme relative", location: "//else.com:81/x", expected: "http://else.com:81/x"},
		{
			desc:          "query",
			location:      "/search?q=1",
			expected:      "http://host:8080/search",
			expectedQuery: "q=1",
		},
		{desc: "fragment dropped", location: "/a#frag", expected: "http://host:8080/a"},
		{
			desc:          "fragment after query",
			location:      "/a?q=1#frag",
			expected:      "http://host:8080/a",
			expectedQuery: "q=1",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			next, query, err := Resolve(current, tc.location)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, next.String())
			assert.Equal(t, tc.expectedQuery, query)
		})
	}
}

func TestRemoveDotSegments(t *testing.T) {
	testcases := []struct {
		input    string
		expected string
	}{
		{input: "/a/b/c/./../../g", expected: "/a/g"},
		{input: "mid/content=5/../6", expected: "mid/6"},
		{input: "/../a", expected: "/a"},
		{input: "/a/.", expected: "/a/"},
		{input: "/", expected: "/"},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, removeDotSegments(tc.input))
		})
	}
}
