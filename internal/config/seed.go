package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/flashdb/flashmock/internal/store"
)

// seedEntry is one key of a seed file:
//
//	{"type": "list", "value": ["a", "b"]}
//
// string values are JSON strings, list and set values are string arrays,
// hash values are objects of field to string, and zset values are objects
// of member to score.
type seedEntry struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// LoadSeed reads a JSON seed file into values for engine.WithSeed.
func LoadSeed(path string) (map[string]store.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed file contents.
func ParseSeed(data []byte) (map[string]store.Value, error) {
	var entries map[string]seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	seed := make(map[string]store.Value, len(entries))
	for key, entry := range entries {
		val, err := entry.decode()
		if err != nil {
			return nil, fmt.Errorf("seed: key %q: %w", key, err)
		}
		seed[key] = val
	}
	return seed, nil
}

func (e seedEntry) decode() (store.Value, error) {
	switch e.Type {
	case "string":
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			return nil, err
		}
		return store.NewString(s), nil

	case "list":
		var items []string
		if err := json.Unmarshal(e.Value, &items); err != nil {
			return nil, err
		}
		return store.NewListOf(items...), nil

	case "set":
		var members []string
		if err := json.Unmarshal(e.Value, &members); err != nil {
			return nil, err
		}
		return store.NewSetOf(members...), nil

	case "hash":
		var fields map[string]string
		if err := json.Unmarshal(e.Value, &fields); err != nil {
			return nil, err
		}
		names := make([]string, 0, len(fields))
		for f := range fields {
			names = append(names, f)
		}
		sort.Strings(names)
		pairs := make([]store.HashFieldValue, len(names))
		for i, f := range names {
			pairs[i] = store.HashFieldValue{Field: f, Value: fields[f]}
		}
		return store.NewHashOf(pairs...), nil

	case "zset":
		var scores map[string]float64
		if err := json.Unmarshal(e.Value, &scores); err != nil {
			return nil, err
		}
		members := make([]store.ScoredMember, 0, len(scores))
		for m, score := range scores {
			members = append(members, store.ScoredMember{Member: m, Score: score})
		}
		return store.NewSortedSetOf(members...), nil

	default:
		return nil, fmt.Errorf("unknown type %q", e.Type)
	}
}
