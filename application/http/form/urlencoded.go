package form

import (
	"strings"

	"http-engine/application/util/uri"
)

const listSuffix = "[]"

// Encode writes values as key=value pairs joined by '&'. Keys are emitted
// in sorted order, list items in their stored order.
func Encode(values Values) string {
	b := new(strings.Builder)
	for _, key := range values.Keys() {
		escapedKey := uri.EscapeComponent(key)
		for _, v := range values[key].Items {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(escapedKey)
			b.WriteByte('=')
			b.WriteString(uri.EscapeComponent(v))
		}
	}
	return b.String()
}

// Decode parses a query string. A key ending with "[]" is stored, without
// the suffix, as a list. Components that fail to percent-decode are kept
// undecoded, with '+' already turned into a space.
func Decode(s string) Values {
	values := make(Values)
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key, value = decodeComponent(key), decodeComponent(value)

		if name, found := strings.CutSuffix(key, listSuffix); found {
			values.Append(name, value)
			continue
		}
		values.Add(key, value)
	}
	return values
}

func decodeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	decoded, err := uri.UnescapeComponent(s)
	if err != nil {
		return s
	}
	return decoded
}
