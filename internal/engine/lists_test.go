package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdb/flashmock/internal/store"
)

func TestEngine_PushPop(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.RPush("k", "one", "two", "three")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = e.LPush("k", "zero")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	val, ok, err := e.LPop("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "zero", val)

	val, ok, err = e.RPop("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "three", val)

	_, ok, err = e.LPop("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_LRangeClamps(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RPush("k", "one", "two", "three")
	require.NoError(t, err)

	items, err := e.LRange("k", -100, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, items)

	items, err = e.LRange("k", 5, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{}, items)

	n, err := e.LLen("k")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEngine_PushX(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.LPushX("k", "a")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, e.Exists("k"))

	_, err = e.RPush("k", "b")
	require.NoError(t, err)
	n, err = e.LPushX("k", "a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = e.RPushX("k", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, _ := e.LRange("k", 0, -1)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestEngine_LIndexLSet(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RPush("k", "a", "b", "c")
	require.NoError(t, err)

	val, ok, err := e.LIndex("k", -1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", val)

	require.NoError(t, e.LSet("k", 0, "A"))
	val, _, _ = e.LIndex("k", 0)
	assert.Equal(t, "A", val)

	assert.ErrorIs(t, e.LSet("k", 10, "x"), store.ErrIndexOutOfRange)
	assert.ErrorIs(t, e.LSet("missing", 0, "x"), store.ErrIndexOutOfRange)
	assert.Equal(t, 0, e.Exists("missing"))
}

func TestEngine_LInsert(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.LInsert("k", true, "p", "v")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = e.RPush("k", "Hello", "World")
	require.NoError(t, err)
	n, err = e.LInsert("k", true, "World", "There")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = e.LInsert("k", false, "nope", "x")
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	items, _ := e.LRange("k", 0, -1)
	assert.Equal(t, []string{"Hello", "There", "World"}, items)
}

func TestEngine_LRemAndTrim(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RPush("k", "hello", "hello", "foo", "hello")
	require.NoError(t, err)

	n, err := e.LRem("k", -2, "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	items, _ := e.LRange("k", 0, -1)
	assert.Equal(t, []string{"hello", "foo"}, items)

	require.NoError(t, e.LTrim("k", 3, 5))
	assert.Equal(t, 0, e.Exists("k"))
}

func TestEngine_RPopLPush(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RPush("src", "one", "two", "three")
	require.NoError(t, err)

	val, ok, err := e.RPopLPush("src", "dst")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "three", val)

	dst, _ := e.LRange("dst", 0, -1)
	assert.Equal(t, []string{"three"}, dst)

	// rotation on a single key
	val, _, err = e.RPopLPush("src", "src")
	require.NoError(t, err)
	assert.Equal(t, "two", val)
	src, _ := e.LRange("src", 0, -1)
	assert.Equal(t, []string{"two", "one"}, src)

	e.Set("str", "x")
	_, _, err = e.RPopLPush("src", "str")
	assert.ErrorIs(t, err, store.ErrWrongType)
	src, _ = e.LRange("src", 0, -1)
	assert.Equal(t, []string{"two", "one"}, src)

	_, ok, err = e.RPopLPush("missing", "dst")
	require.NoError(t, err)
	assert.False(t, ok)
}
