package form

import (
	"maps"
	"slices"
)

// Entry holds what is stored under one key. A key seen once holds a
// single item; repeating it, or naming it with a "[]" suffix, turns the
// entry into a list.
type Entry[T any] struct {
	Items []T
	List  bool
}

// Mapping maps names to one or many values, keeping the order in which
// repeated values arrive.
type Mapping[T any] map[string]*Entry[T]

type (
	Values = Mapping[string]
	Files  = Mapping[File]
)

// Add stores v under key. A second Add of the same key promotes the entry
// to a list.
func (m Mapping[T]) Add(key string, v T) {
	e, ok := m[key]
	if !ok {
		m[key] = &Entry[T]{Items: []T{v}}
		return
	}
	e.Items = append(e.Items, v)
	e.List = true
}

// Append stores v under key as a list item, even for the first value.
func (m Mapping[T]) Append(key string, v T) {
	e, ok := m[key]
	if !ok {
		e = new(Entry[T])
		m[key] = e
	}
	e.Items = append(e.Items, v)
	e.List = true
}

// Set replaces whatever key holds with the single value v.
func (m Mapping[T]) Set(key string, v T) {
	m[key] = &Entry[T]{Items: []T{v}}
}

// SetList replaces whatever key holds with the list vs.
func (m Mapping[T]) SetList(key string, vs ...T) {
	m[key] = &Entry[T]{Items: slices.Clone(vs), List: true}
}

// Get returns the first value under key.
func (m Mapping[T]) Get(key string) (v T, ok bool) {
	e, ok := m[key]
	if !ok || len(e.Items) == 0 {
		return v, false
	}
	return e.Items[0], true
}

func (m Mapping[T]) Values(key string) []T {
	e, ok := m[key]
	if !ok {
		return nil
	}
	return slices.Clone(e.Items)
}

func (m Mapping[T]) IsList(key string) bool {
	e, ok := m[key]
	return ok && e.List
}

func (m Mapping[T]) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Mapping[T]) Del(key string) { delete(m, key) }

// Keys returns the keys in sorted order.
func (m Mapping[T]) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

func (m Mapping[T]) Clone() Mapping[T] {
	out := make(Mapping[T], len(m))
	for key, e := range m {
		out[key] = &Entry[T]{Items: slices.Clone(e.Items), List: e.List}
	}
	return out
}
