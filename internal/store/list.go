// Package store - List data type
//
// A List is an ordered sequence of text elements stored under a single key.
// Push/Pop at the tail are O(1); head operations and index-based
// operations are O(N).
package store

// List represents a Redis-like list backed by a Go slice.
// The List itself is NOT thread-safe; concurrency is managed by the Engine.
type List struct {
	items []string
}

// NewList creates a new empty List.
func NewList() *List {
	return &List{items: make([]string, 0)}
}

// NewListOf creates a List holding the given elements in order.
func NewListOf(elems ...string) *List {
	l := NewList()
	l.RPush(elems...)
	return l
}

func (l *List) Kind() Kind { return KindList }

// Len returns the number of elements in the list.
func (l *List) Len() int { return len(l.items) }

// LPush prepends values one at a time from left to right, so
// LPUSH mylist a b c results in c b a.
// Returns the new length of the list.
func (l *List) LPush(values ...string) int {
	items := make([]string, 0, len(values)+len(l.items))
	for i := len(values) - 1; i >= 0; i-- {
		items = append(items, values[i])
	}
	l.items = append(items, l.items...)
	return len(l.items)
}

// RPush appends values and returns the new length of the list.
func (l *List) RPush(values ...string) int {
	l.items = append(l.items, values...)
	return len(l.items)
}

// LPop removes and returns the first element.
func (l *List) LPop() (string, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	val := l.items[0]
	l.items = l.items[1:]
	return val, true
}

// RPop removes and returns the last element.
func (l *List) RPop() (string, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	val := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return val, true
}

// Index returns the element at index; negative indices count from the end.
func (l *List) Index(index int) (string, bool) {
	idx := l.resolveIndex(index)
	if idx < 0 || idx >= len(l.items) {
		return "", false
	}
	return l.items[idx], true
}

// Set overwrites the element at index.
func (l *List) Set(index int, value string) error {
	idx := l.resolveIndex(index)
	if idx < 0 || idx >= len(l.items) {
		return ErrIndexOutOfRange
	}
	l.items[idx] = value
	return nil
}

// Range returns a copy of the elements in the inclusive window [start, stop].
func (l *List) Range(start, stop int) []string {
	from, to, ok := resolveRange(start, stop, len(l.items))
	if !ok {
		return []string{}
	}
	out := make([]string, to-from+1)
	copy(out, l.items[from:to+1])
	return out
}

// Insert inserts value before or after the first occurrence of pivot.
// Returns the new length, or -1 if pivot was not found.
func (l *List) Insert(before bool, pivot, value string) int {
	for i, item := range l.items {
		if item != pivot {
			continue
		}
		pos := i
		if !before {
			pos = i + 1
		}
		l.items = append(l.items, "")
		copy(l.items[pos+1:], l.items[pos:])
		l.items[pos] = value
		return len(l.items)
	}
	return -1
}

// Rem removes occurrences of value:
//   - count > 0: the first count occurrences, head to tail
//   - count < 0: the last |count| occurrences, tail to head
//   - count == 0: all occurrences
//
// Returns the number of removed elements.
func (l *List) Rem(count int, value string) int {
	limit := count
	if limit < 0 {
		limit = -limit
	}

	removed := 0
	keep := make([]bool, len(l.items))
	visit := func(i int) {
		if l.items[i] == value && (limit == 0 || removed < limit) {
			removed++
			return
		}
		keep[i] = true
	}
	if count >= 0 {
		for i := range l.items {
			visit(i)
		}
	} else {
		for i := len(l.items) - 1; i >= 0; i-- {
			visit(i)
		}
	}

	items := make([]string, 0, len(l.items)-removed)
	for i, item := range l.items {
		if keep[i] {
			items = append(items, item)
		}
	}
	l.items = items
	return removed
}

// Trim keeps only the elements in the inclusive window [start, stop].
func (l *List) Trim(start, stop int) {
	from, to, ok := resolveRange(start, stop, len(l.items))
	if !ok {
		l.items = l.items[:0]
		return
	}
	l.items = l.items[from : to+1]
}

// resolveIndex converts a possibly-negative index to a non-negative one.
func (l *List) resolveIndex(index int) int {
	if index < 0 {
		return len(l.items) + index
	}
	return index
}
