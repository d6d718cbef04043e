package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyspace_GetOrCreate(t *testing.T) {
	ks := NewKeyspace(nil)

	l, err := GetOrCreate(ks, "list", NewList)
	require.NoError(t, err)
	l.RPush("a")

	again, err := GetOrCreate(ks, "list", NewList)
	require.NoError(t, err)
	assert.Same(t, l, again)

	_, err = GetOrCreate(ks, "list", NewSet)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestKeyspace_PeekNeverCreates(t *testing.T) {
	ks := NewKeyspace(nil)

	_, found, err := Peek[*Hash](ks, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, ks.Len())

	ks.Put("s", NewString("x"))
	_, found, err = Peek[*List](ks, "s")
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestKeyspace_SeedDropsEmptyContainers(t *testing.T) {
	ks := NewKeyspace(map[string]Value{
		"str":   NewString(""),
		"list":  NewListOf("a"),
		"empty": NewSet(),
	})
	assert.Equal(t, 2, ks.Len())
	assert.Equal(t, 0, ks.Exists("empty"))
}

func TestKeyspace_DeleteIfEmpty(t *testing.T) {
	ks := NewKeyspace(map[string]Value{"l": NewListOf("a"), "s": NewString("")})

	l, _, _ := Peek[*List](ks, "l")
	l.LPop()
	assert.True(t, ks.DeleteIfEmpty("l"))
	assert.Equal(t, 0, ks.Exists("l"))

	// strings are never containers
	assert.False(t, ks.DeleteIfEmpty("s"))
	assert.False(t, ks.DeleteIfEmpty("missing"))
}

func TestKeyspace_ExistsAndRemove(t *testing.T) {
	ks := NewKeyspace(map[string]Value{"a": NewString("1"), "b": NewString("2")})

	assert.Equal(t, 3, ks.Exists("a", "a", "b", "c"))
	assert.Equal(t, 1, ks.Remove("a", "a", "c"))
	assert.Equal(t, 1, ks.Len())
}

func TestKeyspace_TypeAndKeys(t *testing.T) {
	ks := NewKeyspace(map[string]Value{
		"user:1": NewHashOf(HashFieldValue{Field: "n", Value: "x"}),
		"user:2": NewString("y"),
		"queue":  NewListOf("j"),
	})

	kind, ok := ks.Type("user:1")
	assert.True(t, ok)
	assert.Equal(t, "hash", kind.String())

	_, ok = ks.Type("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"user:1", "user:2"}, ks.Keys("user:*"))
	assert.Empty(t, ks.Keys("["))

	ks.Flush()
	assert.Equal(t, 0, ks.Len())
}

func TestString_Numeric(t *testing.T) {
	s := NewString("10")
	n, err := s.IncrBy(5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	assert.Equal(t, "15", s.Get())

	f, err := s.IncrByFloat(0.5)
	require.NoError(t, err)
	assert.Equal(t, 15.5, f)

	_, err = s.IncrBy(1)
	assert.ErrorIs(t, err, ErrNotAnInteger)

	assert.Equal(t, 8, s.Append("abc"))
}
