// Package engine provides the command layer over the typed keyspace.
// Every command takes the engine lock, resolves its keys through the
// keyspace's type-checked accessors, and records a mutation event after a
// successful write so blocked callers can re-check their keys.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flashdb/flashmock/internal/events"
	"github.com/flashdb/flashmock/internal/hotkeys"
	"github.com/flashdb/flashmock/internal/store"
)

// Stats holds engine statistics.
type Stats struct {
	TotalCommands int64        `json:"total_commands"`
	TotalReads    int64        `json:"total_reads"`
	TotalWrites   int64        `json:"total_writes"`
	StartTime     time.Time    `json:"start_time"`
	KeysCount     int          `json:"keys"`
	Events        events.Stats `json:"events"`
}

// NullString is a string that may be absent, as in a multi-key read.
type NullString struct {
	String string
	Valid  bool
}

// Engine serializes all access to one shared keyspace.
// It is safe for concurrent use by multiple goroutines.
type Engine struct {
	mu     sync.Mutex
	ks     *store.Keyspace
	events *events.Stream
	hot    *hotkeys.Tracker
	cfg    *config
	log    *slog.Logger

	startTime     time.Time
	totalCommands atomic.Int64
	totalReads    atomic.Int64
	totalWrites   atomic.Int64
}

// New creates an Engine, applying opts over the defaults.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		ks:        store.NewKeyspace(cfg.seed),
		events:    events.NewStream(cfg.eventBuffer),
		hot:       hotkeys.New(cfg.hotKeys),
		cfg:       cfg,
		log:       cfg.logger,
		startTime: time.Now(),
	}
	e.log.Debug("engine ready", "keys", e.ks.Len(), "poll_interval", cfg.pollInterval)
	return e, nil
}

func (e *Engine) recordRead() {
	e.totalReads.Add(1)
	e.totalCommands.Add(1)
}

// recordWrite counts a successful mutation and publishes it to waiters.
// Must be called with e.mu held so events are ordered like the writes.
func (e *Engine) recordWrite(command string, keys ...string) {
	e.totalWrites.Add(1)
	e.totalCommands.Add(1)
	e.events.Record(command, keys...)
	e.hot.Record(keys...)
}

func (e *Engine) recordCommand() {
	e.totalCommands.Add(1)
}

// ========================
// Key Operations
// ========================

// Del removes keys and returns how many existed. Repeated keys count once.
func (e *Engine) Del(keys ...string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.ks.Remove(keys...)
	if n == 0 {
		e.recordCommand()
		return 0
	}
	e.recordWrite("DEL", keys...)
	return n
}

// Exists counts how many of keys exist. Repeated keys count each time.
func (e *Engine) Exists(keys ...string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()
	return e.ks.Exists(keys...)
}

// Type returns the type name of the value at key, or "none".
func (e *Engine) Type(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	kind, ok := e.ks.Type(key)
	if !ok {
		return "none"
	}
	return kind.String()
}

// Keys returns all keys matching a glob pattern, sorted.
func (e *Engine) Keys(pattern string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()
	return e.ks.Keys(pattern)
}

// DBSize returns the number of keys.
func (e *Engine) DBSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()
	return e.ks.Len()
}

// FlushAll removes every key.
func (e *Engine) FlushAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ks.Flush()
	e.recordWrite("FLUSHALL")
}

// GetStats returns engine statistics.
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	keys := e.ks.Len()
	e.mu.Unlock()

	return Stats{
		TotalCommands: e.totalCommands.Load(),
		TotalReads:    e.totalReads.Load(),
		TotalWrites:   e.totalWrites.Load(),
		StartTime:     e.startTime,
		KeysCount:     keys,
		Events:        e.events.Stats(),
	}
}

// HotKeys returns up to n keys ordered by how often they were written.
func (e *Engine) HotKeys(n int) []hotkeys.Entry {
	return e.hot.Top(n)
}

// RecentEvents returns the n most recent mutation events, oldest first.
func (e *Engine) RecentEvents(n int) []events.Event {
	return e.events.Latest(n)
}

// EventsSince returns the buffered mutation events after afterID.
func (e *Engine) EventsSince(afterID uint64) []events.Event {
	return e.events.Since(afterID)
}
