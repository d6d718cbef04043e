package engine

import "github.com/flashdb/flashmock/internal/store"

// ========================
// Sorted Set Operations
// ========================

// ZAdd adds members with scores. Returns the number of new members.
func (e *Engine) ZAdd(key string, members ...store.ScoredMember) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, err := store.GetOrCreate(e.ks, key, store.NewSortedSet)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	added := z.Add(members...)
	if e.ks.DeleteIfEmpty(key) {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("ZADD", key)
	return added, nil
}

// ZIncrBy increments the score of member, adding it when absent.
func (e *Engine) ZIncrBy(key, member string, delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, err := store.GetOrCreate(e.ks, key, store.NewSortedSet)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	score, err := z.Incr(member, delta)
	if err != nil {
		e.ks.DeleteIfEmpty(key)
		e.recordCommand()
		return 0, err
	}
	e.recordWrite("ZINCRBY", key)
	return score, nil
}

// ZRem removes members. Returns the number removed.
func (e *Engine) ZRem(key string, members ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	removed := z.Remove(members...)
	e.ks.DeleteIfEmpty(key)
	if removed == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("ZREM", key)
	return removed, nil
}

// ZCard returns the cardinality, 0 when absent.
func (e *Engine) ZCard(key string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return z.Len(), nil
}

// ZScore returns the score of member.
func (e *Engine) ZScore(key, member string) (float64, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		return 0, false, err
	}
	score, ok := z.Score(member)
	return score, ok, nil
}

// ZRank returns the ascending rank of member.
func (e *Engine) ZRank(key, member string) (int, bool, error) {
	return e.rank(key, member, false)
}

// ZRevRank returns the descending rank of member.
func (e *Engine) ZRevRank(key, member string) (int, bool, error) {
	return e.rank(key, member, true)
}

func (e *Engine) rank(key, member string, reverse bool) (int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		return 0, false, err
	}
	r, ok := z.Rank(member, reverse)
	return r, ok, nil
}

// ZCount returns the number of members with min <= score <= max.
func (e *Engine) ZCount(key string, min, max float64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return z.Count(min, max), nil
}

// ZRange returns members in the inclusive index window, ascending.
func (e *Engine) ZRange(key string, start, stop int) ([]store.ScoredMember, error) {
	return e.zread(key, func(z *store.SortedSet) []store.ScoredMember {
		return z.Range(start, stop, false)
	})
}

// ZRevRange returns members in the inclusive index window, descending.
func (e *Engine) ZRevRange(key string, start, stop int) ([]store.ScoredMember, error) {
	return e.zread(key, func(z *store.SortedSet) []store.ScoredMember {
		return z.Range(start, stop, true)
	})
}

// ZRangeByScore returns members with min <= score <= max, ascending. A
// non-nil limit applies after filtering.
func (e *Engine) ZRangeByScore(key string, min, max float64, limit *store.Limit) ([]store.ScoredMember, error) {
	return e.zread(key, func(z *store.SortedSet) []store.ScoredMember {
		return z.RangeByScore(min, max, false, limit)
	})
}

// ZRevRangeByScore returns members with min <= score <= max, descending.
// Bounds are given high first.
func (e *Engine) ZRevRangeByScore(key string, max, min float64, limit *store.Limit) ([]store.ScoredMember, error) {
	return e.zread(key, func(z *store.SortedSet) []store.ScoredMember {
		return z.RangeByScore(min, max, true, limit)
	})
}

func (e *Engine) zread(key string, read func(*store.SortedSet) []store.ScoredMember) ([]store.ScoredMember, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []store.ScoredMember{}, nil
	}
	return read(z), nil
}

// ZPopMin removes and returns up to count lowest-scored members.
func (e *Engine) ZPopMin(key string, count int) ([]store.ScoredMember, error) {
	return e.zpop(key, count, false)
}

// ZPopMax removes and returns up to count highest-scored members.
func (e *Engine) ZPopMax(key string, count int) ([]store.ScoredMember, error) {
	return e.zpop(key, count, true)
}

func (e *Engine) zpop(key string, count int, reverse bool) ([]store.ScoredMember, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	popped, err := e.zpopLocked(key, count, reverse)
	if len(popped) == 0 {
		e.recordCommand()
	}
	return popped, err
}

// zpopLocked is the non-blocking pop shared by ZPOPMIN, ZPOPMAX and the
// blocking variants. Only a successful pop is counted. e.mu must be held.
func (e *Engine) zpopLocked(key string, count int, reverse bool) ([]store.ScoredMember, error) {
	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []store.ScoredMember{}, nil
	}
	popped := z.Pop(count, reverse)
	e.ks.DeleteIfEmpty(key)
	if len(popped) == 0 {
		return popped, nil
	}
	command := "ZPOPMIN"
	if reverse {
		command = "ZPOPMAX"
	}
	e.recordWrite(command, key)
	return popped, nil
}

// ZRemRangeByRank removes members in the inclusive rank window.
func (e *Engine) ZRemRangeByRank(key string, start, stop int) (int, error) {
	return e.zremove(key, "ZREMRANGEBYRANK", func(z *store.SortedSet) int {
		return z.RemoveRangeByRank(start, stop)
	})
}

// ZRemRangeByScore removes members with min <= score <= max.
func (e *Engine) ZRemRangeByScore(key string, min, max float64) (int, error) {
	return e.zremove(key, "ZREMRANGEBYSCORE", func(z *store.SortedSet) int {
		return z.RemoveRangeByScore(min, max)
	})
}

func (e *Engine) zremove(key, command string, remove func(*store.SortedSet) int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, found, err := store.Peek[*store.SortedSet](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	removed := remove(z)
	e.ks.DeleteIfEmpty(key)
	if removed == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite(command, key)
	return removed, nil
}
