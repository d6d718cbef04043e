package engine

import (
	"math"

	"github.com/flashdb/flashmock/internal/store"
)

// ========================
// String Operations
// ========================

// Get returns the string stored at key.
func (e *Engine) Get(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	s, found, err := store.Peek[*store.String](e.ks, key)
	if err != nil || !found {
		return "", false, err
	}
	return s.Get(), true, nil
}

// Set stores value at key, replacing whatever the key held before.
func (e *Engine) Set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ks.Put(key, store.NewString(value))
	e.recordWrite("SET", key)
}

// MGet returns the string at each key. Absent keys and keys of other kinds
// are reported as invalid rather than failing the command.
func (e *Engine) MGet(keys ...string) []NullString {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	out := make([]NullString, len(keys))
	for i, key := range keys {
		if s, found, err := store.Peek[*store.String](e.ks, key); found && err == nil {
			out[i] = NullString{String: s.Get(), Valid: true}
		}
	}
	return out
}

// Append appends value to the string at key and returns the new length.
func (e *Engine) Append(key, value string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := store.GetOrCreate(e.ks, key, func() *store.String { return store.NewString("") })
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	n := s.Append(value)
	e.recordWrite("APPEND", key)
	return n, nil
}

// StrLen returns the length of the string at key, 0 when absent.
func (e *Engine) StrLen(key string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	s, found, err := store.Peek[*store.String](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return s.Len(), nil
}

// Incr increments the integer at key by one.
func (e *Engine) Incr(key string) (int64, error) {
	return e.IncrBy(key, 1)
}

// Decr decrements the integer at key by one.
func (e *Engine) Decr(key string) (int64, error) {
	return e.IncrBy(key, -1)
}

// DecrBy decrements the integer at key by delta. MinInt64 has no negation
// and is rejected.
func (e *Engine) DecrBy(key string, delta int64) (int64, error) {
	if delta == math.MinInt64 {
		e.recordCommand()
		return 0, store.ErrNotAnInteger
	}
	return e.IncrBy(key, -delta)
}

// IncrBy increments the integer at key by delta. An absent key counts as 0.
func (e *Engine) IncrBy(key string, delta int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.counter(key)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	n, err := s.IncrBy(delta)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	e.ks.Put(key, s)
	e.recordWrite("INCRBY", key)
	return n, nil
}

// IncrByFloat increments the float at key by delta. An absent key counts as 0.
func (e *Engine) IncrByFloat(key string, delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.counter(key)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	f, err := s.IncrByFloat(delta)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	e.ks.Put(key, s)
	e.recordWrite("INCRBYFLOAT", key)
	return f, nil
}

// counter returns the string at key, or a detached "0" when the key is
// absent. The caller stores it only once the update succeeds.
func (e *Engine) counter(key string) (*store.String, error) {
	s, found, err := store.Peek[*store.String](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return store.NewString("0"), nil
	}
	return s, nil
}
