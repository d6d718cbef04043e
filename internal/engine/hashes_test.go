package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdb/flashmock/internal/store"
)

func TestEngine_HSetHGet(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.HSet("h", "f1", "v1", "f2", "v2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = e.HSet("h", "f1", "changed", "f3", "v3")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	val, ok, err := e.HGet("h", "f1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "changed", val)

	_, ok, err = e.HGet("h", "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.HSet("h", "odd")
	assert.ErrorIs(t, err, store.ErrWrongArgumentCount)
	assert.ErrorIs(t, e.HMSet("h2", "a", "b", "c"), store.ErrWrongArgumentCount)
	assert.Equal(t, 0, e.Exists("h2"))
}

func TestEngine_HashReads(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.HMSet("h", "name", "ann", "age", "30"))

	all, err := e.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, []store.HashFieldValue{{Field: "name", Value: "ann"}, {Field: "age", Value: "30"}}, all)

	keys, err := e.HKeys("h")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, keys)

	vals, err := e.HVals("h")
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "30"}, vals)

	got, err := e.HMGet("h", "name", "nope")
	require.NoError(t, err)
	assert.Equal(t, []NullString{{String: "ann", Valid: true}, {}}, got)

	n, err := e.HLen("h")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = e.HStrLen("h", "name")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := e.HExists("h", "age")
	require.NoError(t, err)
	assert.True(t, ok)

	all, err = e.HGetAll("missing")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEngine_HSetNX(t *testing.T) {
	e := newTestEngine(t)

	ok, err := e.HSetNX("h", "f", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.HSetNX("h", "f", "2")
	require.NoError(t, err)
	assert.False(t, ok)

	val, _, _ := e.HGet("h", "f")
	assert.Equal(t, "1", val)
}

func TestEngine_HDel(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.HSet("h", "a", "1", "b", "2")
	require.NoError(t, err)

	n, err := e.HDel("h", "a", "zzz")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = e.HDel("h", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, e.Exists("h"))
}

func TestEngine_HIncr(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.HIncrBy("h", "count", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	f, err := e.HIncrByFloat("h", "ratio", 10.5)
	require.NoError(t, err)
	assert.Equal(t, 10.5, f)

	f, err = e.HIncrByFloat("h", "ratio", 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 10.6, f, 1e-9)

	_, err = e.HSet("h", "name", "ann")
	require.NoError(t, err)
	_, err = e.HIncrBy("h", "name", 1)
	assert.ErrorIs(t, err, store.ErrNotAnInteger)

	// a failed increment never vivifies the key
	_, err = e.HIncrByFloat("fresh", "f", math.Inf(1))
	assert.ErrorIs(t, err, store.ErrNotAFloat)
	assert.Equal(t, 0, e.Exists("fresh"))
}
