package engine

import "github.com/flashdb/flashmock/internal/store"

// ========================
// List Operations
// ========================

// LPush prepends values to a list. Returns new length.
func (e *Engine) LPush(key string, values ...string) (int, error) {
	return e.push(key, "LPUSH", true, values)
}

// RPush appends values to a list. Returns new length.
func (e *Engine) RPush(key string, values ...string) (int, error) {
	return e.push(key, "RPUSH", false, values)
}

func (e *Engine) push(key, command string, head bool, values []string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := store.GetOrCreate(e.ks, key, store.NewList)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	var n int
	if head {
		n = l.LPush(values...)
	} else {
		n = l.RPush(values...)
	}
	if e.ks.DeleteIfEmpty(key) {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite(command, key)
	return n, nil
}

// LPushX prepends values only when the list already exists. Returns the new
// length, or 0 when the key is absent.
func (e *Engine) LPushX(key string, values ...string) (int, error) {
	return e.pushExisting(key, "LPUSHX", true, values)
}

// RPushX appends values only when the list already exists.
func (e *Engine) RPushX(key string, values ...string) (int, error) {
	return e.pushExisting(key, "RPUSHX", false, values)
}

func (e *Engine) pushExisting(key, command string, head bool, values []string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	var n int
	if head {
		n = l.LPush(values...)
	} else {
		n = l.RPush(values...)
	}
	e.recordWrite(command, key)
	return n, nil
}

// LPop removes and returns the first element.
func (e *Engine) LPop(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	val, ok, err := e.popLocked(key, true)
	if !ok {
		e.recordCommand()
	}
	return val, ok, err
}

// RPop removes and returns the last element.
func (e *Engine) RPop(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	val, ok, err := e.popLocked(key, false)
	if !ok {
		e.recordCommand()
	}
	return val, ok, err
}

// popLocked is the non-blocking list pop shared by LPOP, RPOP and the
// blocking variants. Only a successful pop is counted. e.mu must be held.
func (e *Engine) popLocked(key string, head bool) (string, bool, error) {
	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		return "", false, err
	}

	var (
		val string
		ok  bool
	)
	command := "RPOP"
	if head {
		command = "LPOP"
		val, ok = l.LPop()
	} else {
		val, ok = l.RPop()
	}
	e.ks.DeleteIfEmpty(key)
	if !ok {
		return "", false, nil
	}
	e.recordWrite(command, key)
	return val, true, nil
}

// LLen returns the list length, 0 when absent.
func (e *Engine) LLen(key string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return l.Len(), nil
}

// LIndex returns the element at index.
func (e *Engine) LIndex(key string, index int) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		return "", false, err
	}
	val, ok := l.Index(index)
	return val, ok, nil
}

// LSet overwrites the element at index. An absent key is out of range.
func (e *Engine) LSet(key string, index int, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil {
		e.recordCommand()
		return err
	}
	if !found {
		e.recordCommand()
		return store.ErrIndexOutOfRange
	}
	if err := l.Set(index, value); err != nil {
		e.recordCommand()
		return err
	}
	e.recordWrite("LSET", key)
	return nil
}

// LRange returns the elements in the inclusive window [start, stop].
func (e *Engine) LRange(key string, start, stop int) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return l.Range(start, stop), nil
}

// LInsert inserts value before or after pivot. Returns the new length, -1
// when pivot is missing, or 0 when the key is absent.
func (e *Engine) LInsert(key string, before bool, pivot, value string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	n := l.Insert(before, pivot, value)
	if n < 0 {
		e.recordCommand()
		return n, nil
	}
	e.recordWrite("LINSERT", key)
	return n, nil
}

// LRem removes occurrences of value. See store.List.Rem for count semantics.
func (e *Engine) LRem(key string, count int, value string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	removed := l.Rem(count, value)
	e.ks.DeleteIfEmpty(key)
	if removed == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("LREM", key)
	return removed, nil
}

// LTrim trims the list to the inclusive window [start, stop].
func (e *Engine) LTrim(key string, start, stop int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, found, err := store.Peek[*store.List](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return err
	}
	l.Trim(start, stop)
	e.ks.DeleteIfEmpty(key)
	e.recordWrite("LTRIM", key)
	return nil
}

// RPopLPush moves the last element of src to the head of dst. Both keys are
// type-checked before anything moves.
func (e *Engine) RPopLPush(src, dst string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	from, found, err := store.Peek[*store.List](e.ks, src)
	if err != nil {
		e.recordCommand()
		return "", false, err
	}
	if _, _, err := store.Peek[*store.List](e.ks, dst); err != nil {
		e.recordCommand()
		return "", false, err
	}
	if !found {
		e.recordCommand()
		return "", false, nil
	}

	val, _ := from.RPop()
	e.ks.DeleteIfEmpty(src)
	to, err := store.GetOrCreate(e.ks, dst, store.NewList)
	if err != nil {
		e.recordCommand()
		return "", false, err
	}
	to.LPush(val)
	e.recordWrite("RPOPLPUSH", src, dst)
	return val, true, nil
}
