// Package store - Set data type
//
// A Set is an unordered collection of unique text members.
// Add/Remove/IsMember are O(1); Inter/Union/Diff are O(N*M) in the worst case.
package store

import (
	"math/rand"
	"sort"
)

// Set represents a Redis-like set.
// The Set itself is NOT thread-safe; concurrency is managed by the Engine.
type Set struct {
	members map[string]struct{}
}

// NewSet creates a new empty Set.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// NewSetOf creates a Set holding the given members.
func NewSetOf(members ...string) *Set {
	s := NewSet()
	s.Add(members...)
	return s
}

func (s *Set) Kind() Kind { return KindSet }

// Len returns the number of members in the set.
func (s *Set) Len() int { return len(s.members) }

// Add adds members and returns how many were not already present.
func (s *Set) Add(members ...string) int {
	added := 0
	for _, m := range members {
		if _, exists := s.members[m]; !exists {
			s.members[m] = struct{}{}
			added++
		}
	}
	return added
}

// Rem removes members and returns how many were actually present.
func (s *Set) Rem(members ...string) int {
	removed := 0
	for _, m := range members {
		if _, exists := s.members[m]; exists {
			delete(s.members, m)
			removed++
		}
	}
	return removed
}

// IsMember returns true if member is in the set.
func (s *Set) IsMember(member string) bool {
	_, exists := s.members[member]
	return exists
}

// Members returns all members in ascending order.
func (s *Set) Members() []string {
	return sortedKeys(s.members)
}

// Pop removes and returns up to count uniformly chosen members.
func (s *Set) Pop(count int) []string {
	if len(s.members) == 0 || count <= 0 {
		return []string{}
	}

	members := s.Members()
	rand.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
	if count > len(members) {
		count = len(members)
	}

	popped := members[:count]
	for _, m := range popped {
		delete(s.members, m)
	}
	return popped
}

// Inter returns the members of s present in every one of others.
func (s *Set) Inter(others ...*Set) *Set {
	out := NewSet()
	for member := range s.members {
		inAll := true
		for _, other := range others {
			if !other.IsMember(member) {
				inAll = false
				break
			}
		}
		if inAll {
			out.members[member] = struct{}{}
		}
	}
	return out
}

// Union returns the members present in s or any of others.
func (s *Set) Union(others ...*Set) *Set {
	out := NewSet()
	for m := range s.members {
		out.members[m] = struct{}{}
	}
	for _, other := range others {
		for m := range other.members {
			out.members[m] = struct{}{}
		}
	}
	return out
}

// Diff returns the members of s that are in none of others.
func (s *Set) Diff(others ...*Set) *Set {
	out := NewSet()
	for member := range s.members {
		inOther := false
		for _, other := range others {
			if other.IsMember(member) {
				inOther = true
				break
			}
		}
		if !inOther {
			out.members[member] = struct{}{}
		}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
