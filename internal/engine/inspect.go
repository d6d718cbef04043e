package engine

import "github.com/flashdb/flashmock/internal/store"

// KeyDump is a detached copy of the value at one key. Value holds a string
// for strings, []string for lists and sets, []store.HashFieldValue for
// hashes, and []store.ScoredMember in ascending order for sorted sets.
type KeyDump struct {
	Key   string
	Type  string
	Len   int
	Value interface{}
}

// Dump copies the value at key without modifying it.
func (e *Engine) Dump(key string) (KeyDump, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordRead()

	val, ok := e.ks.Get(key)
	if !ok {
		return KeyDump{}, false
	}

	d := KeyDump{Key: key, Type: val.Kind().String(), Len: val.Len()}
	switch v := val.(type) {
	case *store.String:
		d.Value = v.Get()
	case *store.List:
		d.Value = v.Range(0, -1)
	case *store.Set:
		d.Value = v.Members()
	case *store.Hash:
		d.Value = v.GetAll()
	case *store.SortedSet:
		d.Value = v.Range(0, -1, false)
	}
	return d, true
}
