// Package events records keyspace mutations in a ring buffer and fans them
// out to subscribers. Blocking commands use a subscription as their
// wake-on-write signal.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event represents a single successful keyspace mutation.
type Event struct {
	ID        uint64   `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Command   string   `json:"command"`
	Keys      []string `json:"keys,omitempty"`
}

// Touches reports whether the event mutated any of keys.
func (e Event) Touches(keys ...string) bool {
	for _, k := range e.Keys {
		for _, want := range keys {
			if k == want {
				return true
			}
		}
	}
	return false
}

// Stream is a thread-safe ring buffer of mutation events with subscriber support.
type Stream struct {
	mu      sync.RWMutex
	buf     []Event
	head    int
	size    int
	cap     int
	seq     atomic.Uint64
	subs    map[uint64]chan Event
	subMu   sync.Mutex
	nextSub uint64
}

// NewStream creates a stream with the given ring buffer capacity.
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Stream{
		buf:  make([]Event, capacity),
		cap:  capacity,
		subs: make(map[uint64]chan Event),
	}
}

// Record appends a new event to the stream and notifies all subscribers.
// Subscribers whose buffer is full miss the event.
func (s *Stream) Record(command string, keys ...string) Event {
	ev := Event{
		ID:        s.seq.Add(1),
		Timestamp: time.Now().UnixMilli(),
		Command:   command,
		Keys:      keys,
	}

	s.mu.Lock()
	s.buf[s.head] = ev
	s.head = (s.head + 1) % s.cap
	if s.size < s.cap {
		s.size++
	}
	s.mu.Unlock()

	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.subMu.Unlock()

	return ev
}

// LastID returns the ID of the most recent event, or 0 before the first.
func (s *Stream) LastID() uint64 {
	return s.seq.Load()
}

// Since returns all buffered events with ID > afterID, in order. Events that
// have already left the ring are not returned; a first ID above afterID+1
// shows the gap.
func (s *Stream) Since(afterID uint64) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Event
	start := s.head - s.size
	if start < 0 {
		start += s.cap
	}
	for i := 0; i < s.size; i++ {
		idx := (start + i) % s.cap
		if s.buf[idx].ID > afterID {
			result = append(result, s.buf[idx])
		}
	}
	return result
}

// Latest returns the N most recent events, oldest first.
func (s *Stream) Latest(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > s.size {
		n = s.size
	}
	if n <= 0 {
		return nil
	}

	result := make([]Event, n)
	for i := 0; i < n; i++ {
		idx := s.head - n + i
		if idx < 0 {
			idx += s.cap
		}
		result[i] = s.buf[idx]
	}
	return result
}

// Subscribe creates a channel that receives events recorded from now on.
func (s *Stream) Subscribe(bufSize int) (uint64, <-chan Event) {
	if bufSize <= 0 {
		bufSize = 16
	}
	ch := make(chan Event, bufSize)

	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = ch
	s.subMu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Stream) Unsubscribe(id uint64) {
	s.subMu.Lock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()
}

// Stats holds current stream statistics.
type Stats struct {
	TotalEvents uint64 `json:"total_events"`
	BufferSize  int    `json:"buffer_size"`
	BufferCap   int    `json:"buffer_cap"`
	Subscribers int    `json:"subscribers"`
}

func (s *Stream) Stats() Stats {
	s.mu.RLock()
	size := s.size
	s.mu.RUnlock()

	s.subMu.Lock()
	subs := len(s.subs)
	s.subMu.Unlock()

	return Stats{
		TotalEvents: s.seq.Load(),
		BufferSize:  size,
		BufferCap:   s.cap,
		Subscribers: subs,
	}
}
