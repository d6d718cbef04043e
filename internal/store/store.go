// Package store provides the typed keyspace and the value kinds it holds.
package store

import (
	"sort"
)

// Keyspace maps keys to typed values. Every key holds exactly one kind of
// value and container kinds never remain in the keyspace empty.
//
// Keyspace is NOT safe for concurrent use; the engine serializes access.
type Keyspace struct {
	data map[string]Value
}

// NewKeyspace creates a keyspace pre-populated with seed. Empty containers in
// the seed are dropped.
func NewKeyspace(seed map[string]Value) *Keyspace {
	ks := &Keyspace{data: make(map[string]Value, len(seed))}
	for key, val := range seed {
		if val == nil || (val.Kind().IsContainer() && val.Len() == 0) {
			continue
		}
		ks.data[key] = val
	}
	return ks
}

// GetOrCreate returns the value of kind T stored at key, creating it with
// newFn when the key is absent. A key holding another kind yields
// ErrWrongType.
func GetOrCreate[T Value](ks *Keyspace, key string, newFn func() T) (T, error) {
	if existing, ok := ks.data[key]; ok {
		typed, ok := existing.(T)
		if !ok {
			var zero T
			return zero, ErrWrongType
		}
		return typed, nil
	}
	created := newFn()
	ks.data[key] = created
	return created, nil
}

// Peek returns the value of kind T stored at key without ever creating it.
// found is false for an absent key; a key holding another kind yields
// ErrWrongType.
func Peek[T Value](ks *Keyspace, key string) (val T, found bool, err error) {
	existing, ok := ks.data[key]
	if !ok {
		return val, false, nil
	}
	typed, ok := existing.(T)
	if !ok {
		return val, true, ErrWrongType
	}
	return typed, true, nil
}

// Get returns whatever value is stored at key.
func (ks *Keyspace) Get(key string) (Value, bool) {
	val, ok := ks.data[key]
	return val, ok
}

// Put stores val at key, replacing any existing value of any kind.
func (ks *Keyspace) Put(key string, val Value) {
	ks.data[key] = val
}

// DeleteIfEmpty removes key when it holds a container with no elements.
// Returns true if the key was removed.
func (ks *Keyspace) DeleteIfEmpty(key string) bool {
	val, ok := ks.data[key]
	if !ok || !val.Kind().IsContainer() || val.Len() > 0 {
		return false
	}
	delete(ks.data, key)
	return true
}

// Exists returns how many of keys are present. Duplicates are counted each
// time they appear.
func (ks *Keyspace) Exists(keys ...string) int {
	n := 0
	for _, key := range keys {
		if _, ok := ks.data[key]; ok {
			n++
		}
	}
	return n
}

// Remove deletes keys and returns how many existed. Duplicate keys are
// counted once.
func (ks *Keyspace) Remove(keys ...string) int {
	n := 0
	for _, key := range keys {
		if _, ok := ks.data[key]; ok {
			delete(ks.data, key)
			n++
		}
	}
	return n
}

// Type returns the kind stored at key.
func (ks *Keyspace) Type(key string) (Kind, bool) {
	val, ok := ks.data[key]
	if !ok {
		return 0, false
	}
	return val.Kind(), true
}

// Keys returns the sorted keys matching a glob pattern. See MatchPattern.
func (ks *Keyspace) Keys(pattern string) []string {
	keys := make([]string, 0)
	for key := range ks.data {
		if MatchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (ks *Keyspace) Len() int {
	return len(ks.data)
}

// Flush removes every key.
func (ks *Keyspace) Flush() {
	ks.data = make(map[string]Value)
}
