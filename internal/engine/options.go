package engine

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/flashdb/flashmock/internal/store"
)

// ErrInvalidOption is returned by New when an option value is unusable.
var ErrInvalidOption = errors.New("engine: invalid option")

// config holds the configuration for an Engine.
type config struct {
	seed         map[string]store.Value
	pollInterval time.Duration
	eventBuffer  int
	hotKeys      int
	logger       *slog.Logger
}

func defaultConfig() *config {
	return &config{
		pollInterval: 50 * time.Millisecond,
		eventBuffer:  1024,
		hotKeys:      100,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option represents a configuration option for an Engine.
type Option func(*config) error

// WithSeed pre-populates the keyspace. The engine takes ownership of the
// values; callers must not mutate them afterwards.
//
// Example:
//
//	engine.New(engine.WithSeed(map[string]store.Value{
//		"queue": store.NewListOf("a", "b"),
//	}))
func WithSeed(seed map[string]store.Value) Option {
	return func(c *config) error {
		c.seed = seed
		return nil
	}
}

// WithPollInterval sets how often blocked commands re-check their keys when
// no write has woken them.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return ErrInvalidOption
		}
		c.pollInterval = d
		return nil
	}
}

// WithEventBuffer sets the capacity of the mutation event ring buffer.
func WithEventBuffer(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidOption
		}
		c.eventBuffer = n
		return nil
	}
}

// WithHotKeys sets how many keys HotKeys reports by default.
func WithHotKeys(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return ErrInvalidOption
		}
		c.hotKeys = n
		return nil
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}
