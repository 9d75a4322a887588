package semantic

import (
	"slices"
	"strings"

	"http-engine/application/http"
)

// Headers is an ordered, case-insensitive header mapping. A name keeps the
// spelling it was first given; later spellings only address it.
// The zero value is ready to use.
type Headers struct {
	entries []headerEntry
	index   map[string]int // lower cased name -> position in entries
}

type headerEntry struct {
	name   string
	values []string
}

// HeadersFrom collects raw fields, keeping repeated names as multiple
// values in arrival order.
func HeadersFrom(fields []http.Field) Headers {
	var h Headers
	for _, field := range fields {
		h.Add(field.Name, field.Value)
	}
	return h
}

func (h *Headers) lookup(name string) (int, bool) {
	idx, ok := h.index[strings.ToLower(name)]
	return idx, ok
}

// Get returns the value of name. Repeated fields are joined by "\n".
func (h *Headers) Get(name string) (value string, ok bool) {
	idx, ok := h.lookup(name)
	if !ok {
		return "", false
	}
	return strings.Join(h.entries[idx].values, "\n"), true
}

func (h *Headers) Values(name string) []string {
	idx, ok := h.lookup(name)
	if !ok {
		return nil
	}
	return slices.Clone(h.entries[idx].values)
}

func (h *Headers) Has(name string) bool {
	_, ok := h.lookup(name)
	return ok
}

// Set replaces the values of name, keeping its position.
func (h *Headers) Set(name, value string) {
	if idx, ok := h.lookup(name); ok {
		h.entries[idx].values = []string{value}
		return
	}
	h.append(name, value)
}

// SetDefault sets name only when it is absent and reports whether it did.
func (h *Headers) SetDefault(name, value string) bool {
	if h.Has(name) {
		return false
	}
	h.append(name, value)
	return true
}

func (h *Headers) Add(name, value string) {
	if idx, ok := h.lookup(name); ok {
		h.entries[idx].values = append(h.entries[idx].values, value)
		return
	}
	h.append(name, value)
}

func (h *Headers) append(name, value string) {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	h.index[strings.ToLower(name)] = len(h.entries)
	h.entries = append(h.entries, headerEntry{name: name, values: []string{value}})
}

func (h *Headers) Del(name string) {
	idx, ok := h.lookup(name)
	if !ok {
		return
	}

	h.entries = slices.Delete(h.entries, idx, idx+1)
	delete(h.index, strings.ToLower(name))
	for i := idx; i < len(h.entries); i++ {
		h.index[strings.ToLower(h.entries[i].name)] = i
	}
}

func (h *Headers) Len() int { return len(h.entries) }

// Names lists names in insertion order.
func (h *Headers) Names() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.name
	}
	return names
}

// ToRawFields emits one field line per value, in insertion order.
func (h *Headers) ToRawFields() []http.Field {
	fields := make([]http.Field, 0, len(h.entries))
	for _, e := range h.entries {
		for _, v := range e.values {
			fields = append(fields, http.Field{Name: e.name, Value: v})
		}
	}
	return fields
}

func (h *Headers) Clone() Headers {
	var out Headers
	for _, e := range h.entries {
		for _, v := range e.values {
			out.Add(e.name, v)
		}
	}
	return out
}

// CGIName maps a header name to the environment variable a CGI host
// passes it in, e.g. "User-Agent" to "HTTP_USER_AGENT".
func CGIName(name string) string {
	return "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
