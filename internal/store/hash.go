// Package store - Hash data type
//
// A Hash is a map of field→value pairs stored under a single key. Fields
// are reported in insertion order.
package store

import "strconv"

// HashFieldValue represents a field-value pair in a hash.
type HashFieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Hash represents a Redis-like hash.
// The Hash itself is NOT thread-safe; concurrency is managed by the Engine.
type Hash struct {
	fields map[string]string
	order  []string
}

// NewHash creates a new empty Hash.
func NewHash() *Hash {
	return &Hash{fields: make(map[string]string)}
}

// NewHashOf creates a Hash holding the given pairs in order.
func NewHashOf(pairs ...HashFieldValue) *Hash {
	h := NewHash()
	for _, p := range pairs {
		h.Set(p.Field, p.Value)
	}
	return h
}

func (h *Hash) Kind() Kind { return KindHash }

// Len returns the number of fields in the hash.
func (h *Hash) Len() int { return len(h.fields) }

// Set sets field to value. Returns true if the field is new.
func (h *Hash) Set(field, value string) bool {
	_, existed := h.fields[field]
	if !existed {
		h.order = append(h.order, field)
	}
	h.fields[field] = value
	return !existed
}

// SetNX sets field only if it does not exist. Returns true if it was set.
func (h *Hash) SetNX(field, value string) bool {
	if _, exists := h.fields[field]; exists {
		return false
	}
	return h.Set(field, value)
}

// Get returns the value of a field.
func (h *Hash) Get(field string) (string, bool) {
	val, exists := h.fields[field]
	return val, exists
}

// Del removes fields and returns how many existed.
func (h *Hash) Del(fields ...string) int {
	removed := 0
	for _, f := range fields {
		if _, exists := h.fields[f]; !exists {
			continue
		}
		delete(h.fields, f)
		for i, name := range h.order {
			if name == f {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
		removed++
	}
	return removed
}

// Exists returns whether a field exists in the hash.
func (h *Hash) Exists(field string) bool {
	_, exists := h.fields[field]
	return exists
}

// GetAll returns all field-value pairs in insertion order.
func (h *Hash) GetAll() []HashFieldValue {
	result := make([]HashFieldValue, 0, len(h.order))
	for _, field := range h.order {
		result = append(result, HashFieldValue{Field: field, Value: h.fields[field]})
	}
	return result
}

// Keys returns all field names in insertion order.
func (h *Hash) Keys() []string {
	return append([]string{}, h.order...)
}

// Vals returns all values in field insertion order.
func (h *Hash) Vals() []string {
	vals := make([]string, 0, len(h.order))
	for _, field := range h.order {
		vals = append(vals, h.fields[field])
	}
	return vals
}

// IncrBy increments the integer value of a field by delta. A missing field
// counts as 0.
func (h *Hash) IncrBy(field string, delta int64) (int64, error) {
	cur, exists := h.fields[field]
	n, err := incrInt(cur, exists, delta)
	if err != nil {
		return 0, err
	}
	h.Set(field, strconv.FormatInt(n, 10))
	return n, nil
}

// IncrByFloat increments the float value of a field by delta. A missing
// field counts as 0.
func (h *Hash) IncrByFloat(field string, delta float64) (float64, error) {
	cur, exists := h.fields[field]
	f, err := incrFloat(cur, exists, delta)
	if err != nil {
		return 0, err
	}
	h.Set(field, FormatFloat(f))
	return f, nil
}
