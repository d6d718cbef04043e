package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaderboard() *SortedSet {
	return NewSortedSetOf(
		ScoredMember{Member: "alice", Score: 100},
		ScoredMember{Member: "bob", Score: 200},
		ScoredMember{Member: "carol", Score: 150},
		ScoredMember{Member: "dave", Score: 150},
	)
}

func members(ms []ScoredMember) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Member
	}
	return out
}

func TestSortedSet_Add(t *testing.T) {
	z := NewSortedSet()

	added := z.Add(
		ScoredMember{Member: "alice", Score: 100},
		ScoredMember{Member: "bob", Score: 200},
	)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, z.Len())

	// re-scoring is not a new member
	added = z.Add(ScoredMember{Member: "alice", Score: 110})
	assert.Equal(t, 0, added)

	score, ok := z.Score("alice")
	assert.True(t, ok)
	assert.Equal(t, 110.0, score)
}

func TestSortedSet_Incr(t *testing.T) {
	z := NewSortedSet()
	score, err := z.Incr("m", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, score)
	score, err = z.Incr("m", -1)
	require.NoError(t, err)
	assert.Equal(t, 1.5, score)

	z.Add(ScoredMember{Member: "top", Score: math.Inf(1)})
	_, err = z.Incr("top", math.Inf(-1))
	assert.ErrorIs(t, err, ErrNotAFloat)
	top, _ := z.Score("top")
	assert.True(t, math.IsInf(top, 1))
}

func TestSortedSet_Remove(t *testing.T) {
	z := leaderboard()
	assert.Equal(t, 2, z.Remove("alice", "bob", "nobody"))
	assert.Equal(t, 2, z.Len())
	assert.False(t, z.IsEmpty())
}

func TestSortedSet_TieBreakByMember(t *testing.T) {
	z := leaderboard()
	assert.Equal(t, []string{"alice", "carol", "dave", "bob"}, members(z.Range(0, -1, false)))
	assert.Equal(t, []string{"bob", "dave", "carol", "alice"}, members(z.Range(0, -1, true)))
}

func TestSortedSet_RankMirrorsRevRank(t *testing.T) {
	z := leaderboard()
	n := z.Len()
	for _, m := range []string{"alice", "bob", "carol", "dave"} {
		rank, ok := z.Rank(m, false)
		assert.True(t, ok)
		rev, ok := z.Rank(m, true)
		assert.True(t, ok)
		assert.Equal(t, n-1-rank, rev, m)
	}

	rank, _ := z.Rank("carol", false)
	assert.Equal(t, 1, rank)

	_, ok := z.Rank("nobody", false)
	assert.False(t, ok)
}

func TestSortedSet_Count(t *testing.T) {
	z := leaderboard()
	assert.Equal(t, 3, z.Count(150, 200))
	assert.Equal(t, 0, z.Count(300, 400))
}

func TestSortedSet_Range(t *testing.T) {
	z := leaderboard()
	assert.Equal(t, []string{"dave", "bob"}, members(z.Range(-2, -1, false)))
	assert.Equal(t, []string{"alice", "carol", "dave", "bob"}, members(z.Range(-100, 100, false)))
	assert.Equal(t, []ScoredMember{}, z.Range(3, 1, false))
	assert.Equal(t, []ScoredMember{}, NewSortedSet().Range(0, -1, false))
}

func TestSortedSet_RangeByScore(t *testing.T) {
	z := leaderboard()

	got := z.RangeByScore(150, 200, false, nil)
	assert.Equal(t, []string{"carol", "dave", "bob"}, members(got))

	got = z.RangeByScore(150, 200, true, nil)
	assert.Equal(t, []string{"bob", "dave", "carol"}, members(got))

	got = z.RangeByScore(0, 1000, false, &Limit{Offset: 1, Count: 2})
	assert.Equal(t, []string{"carol", "dave"}, members(got))

	got = z.RangeByScore(0, 1000, false, &Limit{Offset: 1, Count: -1})
	assert.Equal(t, []string{"carol", "dave", "bob"}, members(got))

	got = z.RangeByScore(0, 1000, false, &Limit{Offset: 10, Count: 1})
	assert.Empty(t, got)
}

func TestSortedSet_Pop(t *testing.T) {
	z := leaderboard()

	low := z.Pop(2, false)
	assert.Equal(t, []ScoredMember{{Member: "alice", Score: 100}, {Member: "carol", Score: 150}}, low)

	high := z.Pop(1, true)
	assert.Equal(t, []ScoredMember{{Member: "bob", Score: 200}}, high)

	rest := z.Pop(5, true)
	assert.Equal(t, []string{"dave"}, members(rest))
	assert.True(t, z.IsEmpty())
	assert.Empty(t, z.Pop(1, false))
}

func TestSortedSet_RemoveRanges(t *testing.T) {
	z := leaderboard()
	assert.Equal(t, 2, z.RemoveRangeByRank(0, 1))
	assert.Equal(t, []string{"dave", "bob"}, members(z.Range(0, -1, false)))

	z = leaderboard()
	assert.Equal(t, 2, z.RemoveRangeByScore(150, 150))
	assert.Equal(t, []string{"alice", "bob"}, members(z.Range(0, -1, false)))
}
