package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidToken(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected bool
	}{
		{
			desc:     "valid token with alphabets",
			input:    "Token",
			expected: true,
		},
		{
			desc:     "valid token with digits",
			input:    "Token123",
			expected: true,
		},
		{
			desc:     "valid token with special characters",
			input:    "Token-._~",
			expected: true,
		},
		{
			desc:     "invalid token with space",
			input:    "Token 123",
			expected: false,
		},
		{
			desc:     "invalid token with special characters",
			input:    "Token@123",
			expected: false,
		},
		{
			desc:     "empty token",
			input:    "",
			expected: false,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidToken(tc.input))
		})
	}
}

func TestUnquote(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected string
	}{
		{desc: "not quoted", input: "Token", expected: "Token"},
		{desc: "quoted", input: `"Token"`, expected: "Token"},
		{desc: "half-quoted", input: `"Token`, expected: `"Token`},
		{desc: "unescape", input: `"Tok\"en"`, expected: `Tok"en`},
		{desc: "escaped backslash", input: `"a\\b"`, expected: `a\b`},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, Unquote(tc.input))
		})
	}
}

func TestParam(t *testing.T) {
	testcases := []struct {
		desc     string
		value    string
		name     string
		expected string
		found    bool
	}{
		{
			desc:     "plain",
			value:    "multipart/form-data; boundary=abc",
			name:     "boundary",
			expected: "abc",
			found:    true,
		},
		{
			desc:     "quoted and case-insensitive",
			value:    `multipart/mixed;BOUNDARY="a b"`,
			name:     "boundary",
			expected: "a b",
			found:    true,
		},
		{
			desc:  "missing",
			value: "text/plain; charset=utf-8",
			name:  "boundary",
		},
		{
			desc:  "media type is not a parameter",
			value: "boundary=abc",
			name:  "boundary",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			v, found := Param(tc.value, tc.name)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestTrimOWS(t *testing.T) {
	assert.Equal(t, "a b", TrimOWS(" \ta b\t "))
	assert.Equal(t, "", TrimOWS("  "))
}
