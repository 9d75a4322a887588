package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMappingAddPromotes(t *testing.T) {
	m := make(Values)

	m.Add("a", "1")
	assert.False(t, m.IsList("a"))
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	m.Add("a", "2")
	m.Add("a", "3")
	assert.True(t, m.IsList("a"))
	assert.Equal(t, []string{"1", "2", "3"}, m.Values("a"))
}

func TestMappingAppendForcesList(t *testing.T) {
	m := make(Values)

	m.Append("a", "x")
	assert.True(t, m.IsList("a"))
	assert.Equal(t, []string{"x"}, m.Values("a"))

	// A scalar followed by a list item turns into a list too.
	m.Set("b", "1")
	m.Append("b", "2")
	assert.Equal(t, []string{"1", "2"}, m.Values("b"))
}

func TestMappingSetAndDel(t *testing.T) {
	m := make(Values)
	m.SetList("a", "1", "2")
	m.Set("a", "3")
	assert.False(t, m.IsList("a"))
	assert.Equal(t, []string{"3"}, m.Values("a"))

	m.Del("a")
	assert.False(t, m.Has("a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Nil(t, m.Values("a"))
}

func TestMappingKeysAndClone(t *testing.T) {
	m := make(Values)
	m.Add("b", "1")
	m.Add("a", "2")
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	cloned := m.Clone()
	cloned.Add("a", "3")
	assert.False(t, m.IsList("a"))
	assert.True(t, cloned.IsList("a"))
}
