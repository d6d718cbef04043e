package engine

import (
	"context"
	"time"
)

// KeyedElement is the reply of a blocking list pop.
type KeyedElement struct {
	Key     string
	Element string
}

// KeyedMember is the reply of a blocking sorted-set pop.
type KeyedMember struct {
	Key    string
	Member string
	Score  float64
}

// BLPop pops the head of the first non-empty list among keys, waiting up to
// timeout for one to receive data. A zero timeout waits until ctx is done.
// ok is false when the timeout elapses without data.
func (e *Engine) BLPop(ctx context.Context, timeout time.Duration, keys ...string) (KeyedElement, bool, error) {
	return await(ctx, e, "BLPOP", timeout, keys, func(key string) (KeyedElement, bool, error) {
		val, ok, err := e.popLocked(key, true)
		return KeyedElement{Key: key, Element: val}, ok, err
	})
}

// BRPop pops the tail of the first non-empty list among keys. See BLPop.
func (e *Engine) BRPop(ctx context.Context, timeout time.Duration, keys ...string) (KeyedElement, bool, error) {
	return await(ctx, e, "BRPOP", timeout, keys, func(key string) (KeyedElement, bool, error) {
		val, ok, err := e.popLocked(key, false)
		return KeyedElement{Key: key, Element: val}, ok, err
	})
}

// BZPopMin pops the lowest-scored member of the first non-empty sorted set
// among keys. See BLPop for the timeout contract.
func (e *Engine) BZPopMin(ctx context.Context, timeout time.Duration, keys ...string) (KeyedMember, bool, error) {
	return await(ctx, e, "BZPOPMIN", timeout, keys, func(key string) (KeyedMember, bool, error) {
		return e.zpopOne(key, false)
	})
}

// BZPopMax pops the highest-scored member of the first non-empty sorted set
// among keys. See BLPop for the timeout contract.
func (e *Engine) BZPopMax(ctx context.Context, timeout time.Duration, keys ...string) (KeyedMember, bool, error) {
	return await(ctx, e, "BZPOPMAX", timeout, keys, func(key string) (KeyedMember, bool, error) {
		return e.zpopOne(key, true)
	})
}

func (e *Engine) zpopOne(key string, reverse bool) (KeyedMember, bool, error) {
	popped, err := e.zpopLocked(key, 1, reverse)
	if err != nil || len(popped) == 0 {
		return KeyedMember{}, false, err
	}
	return KeyedMember{Key: key, Member: popped[0].Member, Score: popped[0].Score}, true, nil
}

// await runs the blocking protocol shared by all blocking pops. It
// subscribes to mutation events before the first attempt so no write between
// an attempt and the wait can be missed. Each attempt scans keys in caller
// order under the engine lock and the first key that yields data wins.
//
// The subscription only rings the bell; the stream itself is read from the
// cursor of the last failed attempt, so a dropped notification loses nothing
// and writes to unrelated keys do not trigger a rescan.
func await[T any](ctx context.Context, e *Engine, command string, timeout time.Duration, keys []string, pop func(key string) (T, bool, error)) (T, bool, error) {
	var zero T
	e.recordCommand()

	subID, wake := e.events.Subscribe(1)
	defer e.events.Unsubscribe(subID)

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	poll := time.NewTicker(e.cfg.pollInterval)
	defer poll.Stop()

	var cursor uint64
	attempt := func() (T, bool, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		for _, key := range keys {
			reply, ok, err := pop(key)
			if err != nil || ok {
				return reply, ok, err
			}
		}
		// writes are recorded under e.mu, so nothing up to here was missed
		cursor = e.events.LastID()
		return zero, false, nil
	}

	// relevant reports whether a write since the last attempt may have fed
	// one of keys, and advances the cursor past writes that cannot have.
	relevant := func() bool {
		evs := e.events.Since(cursor)
		if len(evs) == 0 {
			return false
		}
		if evs[0].ID != cursor+1 {
			return true
		}
		for _, ev := range evs {
			if ev.Touches(keys...) {
				return true
			}
		}
		cursor = evs[len(evs)-1].ID
		return false
	}

	waited := false
	for {
		reply, ok, err := attempt()
		if err != nil || ok {
			if waited {
				e.log.Debug("blocking pop served", "command", command, "keys", keys)
			}
			return reply, ok, err
		}
		if !waited {
			e.log.Debug("blocking pop waiting", "command", command, "keys", keys, "timeout", timeout)
			waited = true
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				e.log.Debug("blocking pop cancelled", "command", command, "err", ctx.Err())
				return zero, false, ctx.Err()
			case <-deadline:
				// final attempt before reporting a timeout
				reply, ok, err := attempt()
				if !ok && err == nil {
					e.log.Debug("blocking pop timed out", "command", command, "keys", keys)
				}
				return reply, ok, err
			case <-wake:
				if relevant() {
					break wait
				}
			case <-poll.C:
				break wait
			}
		}
	}
}
