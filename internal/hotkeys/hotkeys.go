// Package hotkeys counts mutations per key so a test run can see which keys
// its code under test writes to most.
package hotkeys

import (
	"container/heap"
	"sync"
)

// Entry represents a single hot key with its write count.
type Entry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Tracker counts writes per key and reports the top-N most written keys.
// It is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int64
	topN   int
}

// New creates a tracker whose Top defaults to topN entries.
func New(topN int) *Tracker {
	if topN <= 0 {
		topN = 100
	}
	return &Tracker{
		counts: make(map[string]int64),
		topN:   topN,
	}
}

// Record counts one write to each of keys. A key repeated in one call is
// counted once.
func (t *Tracker) Record(keys ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, key := range keys {
		if seenBefore(keys[:i], key) {
			continue
		}
		t.counts[key]++
	}
}

func seenBefore(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Top returns up to n keys by write count, highest first. Equal counts are
// ordered by key. n <= 0 uses the tracker's default.
func (t *Tracker) Top(n int) []Entry {
	if n <= 0 {
		n = t.topN
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	h := &entryHeap{}
	for key, cnt := range t.counts {
		e := Entry{Key: key, Count: cnt}
		if h.Len() < n {
			heap.Push(h, e)
		} else if colder((*h)[0], e) {
			(*h)[0] = e
			heap.Fix(h, 0)
		}
	}

	result := make([]Entry, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Entry)
	}
	return result
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.counts = make(map[string]int64)
	t.mu.Unlock()
}

// Size returns the number of tracked keys.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}

// colder reports whether a ranks below b.
func colder(a, b Entry) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Key > b.Key
}

// min-heap on colder, so the root is the first entry to evict
type entryHeap []Entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return colder(h[i], h[j]) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(Entry)) }

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
