package engine

import "github.com/flashdb/flashmock/internal/store"

// ========================
// Set Operations
// ========================

// SAdd adds members to a set. Returns the number of new members.
func (e *Engine) SAdd(key string, members ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := store.GetOrCreate(e.ks, key, store.NewSet)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	added := s.Add(members...)
	e.ks.DeleteIfEmpty(key)
	if added == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("SADD", key)
	return added, nil
}

// SRem removes members from a set. Returns the number removed.
func (e *Engine) SRem(key string, members ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, found, err := store.Peek[*store.Set](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	removed := s.Rem(members...)
	e.ks.DeleteIfEmpty(key)
	if removed == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("SREM", key)
	return removed, nil
}

// SCard returns the set cardinality, 0 when absent.
func (e *Engine) SCard(key string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	s, found, err := store.Peek[*store.Set](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return s.Len(), nil
}

// SIsMember reports whether member belongs to the set at key.
func (e *Engine) SIsMember(key, member string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	s, found, err := store.Peek[*store.Set](e.ks, key)
	if err != nil || !found {
		return false, err
	}
	return s.IsMember(member), nil
}

// SMembers returns all members in ascending order.
func (e *Engine) SMembers(key string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	s, found, err := store.Peek[*store.Set](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return s.Members(), nil
}

// SMove moves member from src to dst, creating dst if needed. Returns false
// when member is not in src.
func (e *Engine) SMove(src, dst, member string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	from, found, err := store.Peek[*store.Set](e.ks, src)
	if err != nil {
		e.recordCommand()
		return false, err
	}
	if _, _, err := store.Peek[*store.Set](e.ks, dst); err != nil {
		e.recordCommand()
		return false, err
	}
	if !found || !from.IsMember(member) {
		e.recordCommand()
		return false, nil
	}

	from.Rem(member)
	e.ks.DeleteIfEmpty(src)
	to, err := store.GetOrCreate(e.ks, dst, store.NewSet)
	if err != nil {
		e.recordCommand()
		return false, err
	}
	to.Add(member)
	e.recordWrite("SMOVE", src, dst)
	return true, nil
}

// SPop removes and returns one random member.
func (e *Engine) SPop(key string) (string, bool, error) {
	popped, err := e.SPopN(key, 1)
	if err != nil || len(popped) == 0 {
		return "", false, err
	}
	return popped[0], true, nil
}

// SPopN removes and returns up to count random members.
func (e *Engine) SPopN(key string, count int) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, found, err := store.Peek[*store.Set](e.ks, key)
	if err != nil {
		e.recordCommand()
		return nil, err
	}
	if !found {
		e.recordCommand()
		return []string{}, nil
	}
	popped := s.Pop(count)
	e.ks.DeleteIfEmpty(key)
	if len(popped) == 0 {
		e.recordCommand()
		return popped, nil
	}
	e.recordWrite("SPOP", key)
	return popped, nil
}

// SInter returns the members present in every set at keys.
func (e *Engine) SInter(keys ...string) ([]string, error) {
	return e.algebra(keys, (*store.Set).Inter)
}

// SUnion returns the members present in any set at keys.
func (e *Engine) SUnion(keys ...string) ([]string, error) {
	return e.algebra(keys, (*store.Set).Union)
}

// SDiff returns the members of the first set absent from all the others.
func (e *Engine) SDiff(keys ...string) ([]string, error) {
	return e.algebra(keys, (*store.Set).Diff)
}

// SInterStore stores the intersection at dst and returns its size.
func (e *Engine) SInterStore(dst string, keys ...string) (int, error) {
	return e.algebraStore("SINTERSTORE", dst, keys, (*store.Set).Inter)
}

// SUnionStore stores the union at dst and returns its size.
func (e *Engine) SUnionStore(dst string, keys ...string) (int, error) {
	return e.algebraStore("SUNIONSTORE", dst, keys, (*store.Set).Union)
}

// SDiffStore stores the difference at dst and returns its size.
func (e *Engine) SDiffStore(dst string, keys ...string) (int, error) {
	return e.algebraStore("SDIFFSTORE", dst, keys, (*store.Set).Diff)
}

type setOp func(*store.Set, ...*store.Set) *store.Set

func (e *Engine) algebra(keys []string, op setOp) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	result, err := e.combineLocked(keys, op)
	if err != nil {
		return nil, err
	}
	return result.Members(), nil
}

// algebraStore replaces dst with the result. An empty result deletes dst.
func (e *Engine) algebraStore(command, dst string, keys []string, op setOp) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.combineLocked(keys, op)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	if result.Len() == 0 {
		e.ks.Remove(dst)
	} else {
		e.ks.Put(dst, result)
	}
	e.recordWrite(command, dst)
	return result.Len(), nil
}

// combineLocked resolves every key as a set (absent keys are empty sets)
// and folds them with op. e.mu must be held.
func (e *Engine) combineLocked(keys []string, op setOp) (*store.Set, error) {
	sets := make([]*store.Set, len(keys))
	for i, key := range keys {
		s, found, err := store.Peek[*store.Set](e.ks, key)
		if err != nil {
			return nil, err
		}
		if !found {
			s = store.NewSet()
		}
		sets[i] = s
	}
	if len(sets) == 0 {
		return store.NewSet(), nil
	}
	return op(sets[0], sets[1:]...), nil
}
