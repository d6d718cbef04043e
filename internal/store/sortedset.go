// Package store - Sorted Set data type
//
// Members are ordered by score ascending, ties broken by member in ascending
// byte order. The reverse order is the exact mirror of that order. Ordered
// queries sort on demand; ranks are computed by counting.
package store

import (
	"math"
	"sort"
)

// ScoredMember represents a member with its score in a sorted set.
type ScoredMember struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// Limit restricts a score range query to Count members starting at Offset.
// A negative Count returns everything from Offset onward.
type Limit struct {
	Offset int
	Count  int
}

// SortedSet represents a Redis-like sorted set.
// The SortedSet itself is NOT thread-safe; concurrency is managed by the Engine.
type SortedSet struct {
	members map[string]float64 // member -> score
}

// NewSortedSet creates a new empty sorted set.
func NewSortedSet() *SortedSet {
	return &SortedSet{members: make(map[string]float64)}
}

// NewSortedSetOf creates a sorted set holding the given members.
func NewSortedSetOf(members ...ScoredMember) *SortedSet {
	z := NewSortedSet()
	z.Add(members...)
	return z
}

func (z *SortedSet) Kind() Kind { return KindSortedSet }

// Len returns the cardinality of the sorted set.
func (z *SortedSet) Len() int { return len(z.members) }

// IsEmpty reports whether the sorted set has no members.
func (z *SortedSet) IsEmpty() bool { return len(z.members) == 0 }

// Add inserts or re-scores members. Returns the number of new members added.
func (z *SortedSet) Add(members ...ScoredMember) int {
	added := 0
	for _, m := range members {
		if _, exists := z.members[m.Member]; !exists {
			added++
		}
		z.members[m.Member] = m.Score
	}
	return added
}

// Incr adds delta to the score of member, creating it at delta if absent.
// A sum that is not a number leaves the set unchanged.
func (z *SortedSet) Incr(member string, delta float64) (float64, error) {
	score := z.members[member] + delta
	if math.IsNaN(score) {
		return 0, ErrNotAFloat
	}
	z.members[member] = score
	return score, nil
}

// Remove removes members from the set. Returns number removed.
func (z *SortedSet) Remove(members ...string) int {
	removed := 0
	for _, m := range members {
		if _, exists := z.members[m]; exists {
			delete(z.members, m)
			removed++
		}
	}
	return removed
}

// Score returns the score of a member.
func (z *SortedSet) Score(member string) (float64, bool) {
	score, exists := z.members[member]
	return score, exists
}

// Rank returns the 0-based position of member in ascending order, or in
// descending order when reverse is set.
func (z *SortedSet) Rank(member string, reverse bool) (int, bool) {
	score, exists := z.members[member]
	if !exists {
		return -1, false
	}

	rank := 0
	for m, s := range z.members {
		if reverse {
			if s > score || (s == score && m > member) {
				rank++
			}
		} else if s < score || (s == score && m < member) {
			rank++
		}
	}
	return rank, true
}

// Count returns the number of members with min <= score <= max.
func (z *SortedSet) Count(min, max float64) int {
	count := 0
	for _, score := range z.members {
		if score >= min && score <= max {
			count++
		}
	}
	return count
}

// Range returns members by inclusive index window. Negative indices count
// from the end.
func (z *SortedSet) Range(start, stop int, reverse bool) []ScoredMember {
	sorted := z.sorted(reverse)
	from, to, ok := resolveRange(start, stop, len(sorted))
	if !ok {
		return []ScoredMember{}
	}
	return sorted[from : to+1]
}

// RangeByScore returns members with min <= score <= max in order. A non-nil
// limit is applied after filtering.
func (z *SortedSet) RangeByScore(min, max float64, reverse bool, limit *Limit) []ScoredMember {
	result := []ScoredMember{}
	for _, m := range z.sorted(reverse) {
		if m.Score >= min && m.Score <= max {
			result = append(result, m)
		}
	}
	if limit == nil {
		return result
	}

	if limit.Offset < 0 || limit.Offset >= len(result) {
		return []ScoredMember{}
	}
	result = result[limit.Offset:]
	if limit.Count >= 0 && limit.Count < len(result) {
		result = result[:limit.Count]
	}
	return result
}

// Pop removes and returns up to count members from the low end, or from the
// high end when reverse is set, extremum first.
func (z *SortedSet) Pop(count int, reverse bool) []ScoredMember {
	if count <= 0 || len(z.members) == 0 {
		return []ScoredMember{}
	}

	sorted := z.sorted(reverse)
	if count > len(sorted) {
		count = len(sorted)
	}
	popped := sorted[:count]
	for _, m := range popped {
		delete(z.members, m.Member)
	}
	return popped
}

// RemoveRangeByRank removes members by rank range (inclusive).
func (z *SortedSet) RemoveRangeByRank(start, stop int) int {
	removed := z.Range(start, stop, false)
	for _, m := range removed {
		delete(z.members, m.Member)
	}
	return len(removed)
}

// RemoveRangeByScore removes members with scores in the given range.
func (z *SortedSet) RemoveRangeByScore(min, max float64) int {
	removed := 0
	for member, score := range z.members {
		if score >= min && score <= max {
			delete(z.members, member)
			removed++
		}
	}
	return removed
}

// sorted returns a fresh slice of all members in ascending order, or in the
// mirrored descending order when reverse is set.
func (z *SortedSet) sorted(reverse bool) []ScoredMember {
	result := make([]ScoredMember, 0, len(z.members))
	for member, score := range z.members {
		result = append(result, ScoredMember{Member: member, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if reverse {
			a, b = b, a
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.Member < b.Member
	})
	return result
}
