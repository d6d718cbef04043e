package engine

import "github.com/flashdb/flashmock/internal/store"

// ========================
// Hash Operations
// ========================

// HSet sets field/value pairs given as alternating arguments. Returns the
// number of fields that were new.
func (e *Engine) HSet(key string, fieldValues ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(fieldValues) == 0 || len(fieldValues)%2 != 0 {
		e.recordCommand()
		return 0, store.ErrWrongArgumentCount
	}
	h, err := store.GetOrCreate(e.ks, key, store.NewHash)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	added := 0
	for i := 0; i < len(fieldValues); i += 2 {
		if h.Set(fieldValues[i], fieldValues[i+1]) {
			added++
		}
	}
	e.recordWrite("HSET", key)
	return added, nil
}

// HMSet sets field/value pairs given as alternating arguments.
func (e *Engine) HMSet(key string, fieldValues ...string) error {
	_, err := e.HSet(key, fieldValues...)
	return err
}

// HSetNX sets a hash field only if it does not exist.
func (e *Engine) HSetNX(key, field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, err := store.GetOrCreate(e.ks, key, store.NewHash)
	if err != nil {
		e.recordCommand()
		return false, err
	}
	if !h.SetNX(field, value) {
		e.recordCommand()
		return false, nil
	}
	e.recordWrite("HSETNX", key)
	return true, nil
}

// HGet returns the value of a hash field.
func (e *Engine) HGet(key, field string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil || !found {
		return "", false, err
	}
	val, ok := h.Get(field)
	return val, ok, nil
}

// HMGet returns the value of each field, invalid where the field is absent.
func (e *Engine) HMGet(key string, fields ...string) ([]NullString, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil {
		return nil, err
	}
	out := make([]NullString, len(fields))
	if !found {
		return out, nil
	}
	for i, f := range fields {
		if val, ok := h.Get(f); ok {
			out[i] = NullString{String: val, Valid: true}
		}
	}
	return out, nil
}

// HGetAll returns all field-value pairs in insertion order.
func (e *Engine) HGetAll(key string) ([]store.HashFieldValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []store.HashFieldValue{}, nil
	}
	return h.GetAll(), nil
}

// HDel removes fields. Returns the number removed.
func (e *Engine) HDel(key string, fields ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil || !found {
		e.recordCommand()
		return 0, err
	}
	removed := h.Del(fields...)
	e.ks.DeleteIfEmpty(key)
	if removed == 0 {
		e.recordCommand()
		return 0, nil
	}
	e.recordWrite("HDEL", key)
	return removed, nil
}

// HExists checks if a hash field exists.
func (e *Engine) HExists(key, field string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil || !found {
		return false, err
	}
	return h.Exists(field), nil
}

// HLen returns the number of fields, 0 when absent.
func (e *Engine) HLen(key string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil || !found {
		return 0, err
	}
	return h.Len(), nil
}

// HStrLen returns the length of a field's value, 0 when absent.
func (e *Engine) HStrLen(key, field string) (int, error) {
	val, _, err := e.HGet(key, field)
	return len(val), err
}

// HKeys returns all field names in insertion order.
func (e *Engine) HKeys(key string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return h.Keys(), nil
}

// HVals returns all values in field insertion order.
func (e *Engine) HVals(key string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return h.Vals(), nil
}

// HIncrBy increments the integer value of a hash field.
func (e *Engine) HIncrBy(key, field string, delta int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, err := e.hashForUpdate(key)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	n, err := h.IncrBy(field, delta)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	e.ks.Put(key, h)
	e.recordWrite("HINCRBY", key)
	return n, nil
}

// HIncrByFloat increments the float value of a hash field.
func (e *Engine) HIncrByFloat(key, field string, delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, err := e.hashForUpdate(key)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	f, err := h.IncrByFloat(field, delta)
	if err != nil {
		e.recordCommand()
		return 0, err
	}
	e.ks.Put(key, h)
	e.recordWrite("HINCRBYFLOAT", key)
	return f, nil
}

// hashForUpdate returns the hash at key, or a detached empty hash when the
// key is absent so a failed update never leaves an empty key behind.
func (e *Engine) hashForUpdate(key string) (*store.Hash, error) {
	h, found, err := store.Peek[*store.Hash](e.ks, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return store.NewHash(), nil
	}
	return h, nil
}
