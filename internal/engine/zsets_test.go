package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdb/flashmock/internal/store"
)

func memberNames(ms []store.ScoredMember) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Member
	}
	return out
}

func seedOneTwoThree(t *testing.T, e *Engine) {
	t.Helper()
	_, err := e.ZAdd("z",
		store.ScoredMember{Member: "one", Score: 1},
		store.ScoredMember{Member: "two", Score: 2},
		store.ScoredMember{Member: "three", Score: 3},
	)
	require.NoError(t, err)
}

func TestEngine_ZRange(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	got, err := e.ZRange("z", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, memberNames(got))

	got, err = e.ZRange("z", -2, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, memberNames(got))

	got, err = e.ZRevRange("z", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []store.ScoredMember{{Member: "three", Score: 3}}, got)
}

func TestEngine_ZRankMatchesRange(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.ZAdd("z",
		store.ScoredMember{Member: "b", Score: 1},
		store.ScoredMember{Member: "a", Score: 1},
		store.ScoredMember{Member: "c", Score: 0},
		store.ScoredMember{Member: "d", Score: 5},
	)
	require.NoError(t, err)

	all, err := e.ZRange("z", 0, -1)
	require.NoError(t, err)
	for i, m := range all {
		rank, ok, err := e.ZRank("z", m.Member)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, rank, m.Member)

		rev, _, err := e.ZRevRank("z", m.Member)
		require.NoError(t, err)
		assert.Equal(t, len(all)-1-i, rev, m.Member)
	}

	_, ok, err := e.ZRank("z", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_ZRangeByScore(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	got, err := e.ZRangeByScore("z", math.Inf(-1), math.Inf(1), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, memberNames(got))

	got, err = e.ZRevRangeByScore("z", math.Inf(1), math.Inf(-1), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two", "one"}, memberNames(got))

	got, err = e.ZRangeByScore("z", 2, 3, &store.Limit{Offset: 1, Count: -1})
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, memberNames(got))

	n, err := e.ZCount("z", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_ZAddRemoveRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)
	before, _ := e.ZRange("z", 0, -1)

	_, err := e.ZAdd("z", store.ScoredMember{Member: "four", Score: 4})
	require.NoError(t, err)
	_, err = e.ZRem("z", "four")
	require.NoError(t, err)

	after, _ := e.ZRange("z", 0, -1)
	assert.Equal(t, before, after)

	_, err = e.ZAdd("solo", store.ScoredMember{Member: "m", Score: 1})
	require.NoError(t, err)
	_, err = e.ZRem("solo", "m")
	require.NoError(t, err)
	assert.Equal(t, 0, e.Exists("solo"))
}

func TestEngine_ZScoreAndIncr(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	score, ok, err := e.ZScore("z", "two")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.0, score)

	score, err = e.ZIncrBy("z", "two", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, score)

	n, err := e.ZCard("z")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = e.ZIncrBy("z", "inf", math.Inf(1))
	require.NoError(t, err)
	_, err = e.ZIncrBy("z", "inf", math.Inf(-1))
	assert.ErrorIs(t, err, store.ErrNotAFloat)
	score, _, err = e.ZScore("z", "inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(score, 1))
}

func TestEngine_ZPop(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	got, err := e.ZPopMin("z", 1)
	require.NoError(t, err)
	assert.Equal(t, []store.ScoredMember{{Member: "one", Score: 1}}, got)

	got, err = e.ZPopMax("z", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, memberNames(got))
	assert.Equal(t, 0, e.Exists("z"))
}

func TestEngine_ZRemRanges(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	n, err := e.ZRemRangeByRank("z", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = e.ZRemRangeByScore("z", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, e.Exists("z"))
}
