package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdb/flashmock/internal/store"
)

func TestEngine_BLPopImmediate(t *testing.T) {
	e := newTestEngine(t, WithSeed(map[string]store.Value{
		"second": store.NewListOf("b1"),
		"first":  store.NewListOf("a1", "a2"),
	}))

	got, ok, err := e.BLPop(context.Background(), time.Second, "missing", "first", "second")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, KeyedElement{Key: "first", Element: "a1"}, got)

	got, ok, err = e.BRPop(context.Background(), time.Second, "first", "second")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, KeyedElement{Key: "first", Element: "a2"}, got)
	assert.Equal(t, 0, e.Exists("first"))
}

func TestEngine_BLPopTimeout(t *testing.T) {
	e := newTestEngine(t)

	start := time.Now()
	_, ok, err := e.BLPop(context.Background(), 60*time.Millisecond, "q")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
	assert.Equal(t, 0, e.Exists("q"))
}

// A zero timeout waits for a write, and the write wakes the waiter well
// before the fallback poll would have.
func TestEngine_BLPopWakesOnWrite(t *testing.T) {
	e := newTestEngine(t, WithPollInterval(time.Hour))

	type result struct {
		got KeyedElement
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		got, ok, err := e.BLPop(context.Background(), 0, "q")
		done <- result{got, ok, err}
	}()

	time.Sleep(30 * time.Millisecond)
	_, err := e.RPush("q", "job")
	require.NoError(t, err)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.True(t, r.ok)
		assert.Equal(t, KeyedElement{Key: "q", Element: "job"}, r.got)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked pop was not woken by the write")
	}
	assert.Equal(t, 0, e.Exists("q"))
}

func TestEngine_BlockingContextCancel(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	_, ok, err := e.BZPopMin(ctx, 0, "z")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)
}

func TestEngine_BlockingWrongType(t *testing.T) {
	e := newTestEngine(t)
	e.Set("str", "x")

	_, _, err := e.BLPop(context.Background(), time.Second, "str")
	assert.ErrorIs(t, err, store.ErrWrongType)

	_, _, err = e.BZPopMax(context.Background(), time.Second, "str")
	assert.ErrorIs(t, err, store.ErrWrongType)
}

func TestEngine_BZPop(t *testing.T) {
	e := newTestEngine(t)
	seedOneTwoThree(t, e)

	got, ok, err := e.BZPopMin(context.Background(), time.Second, "other", "z")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, KeyedMember{Key: "z", Member: "one", Score: 1}, got)

	got, ok, err = e.BZPopMax(context.Background(), time.Second, "z")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, KeyedMember{Key: "z", Member: "three", Score: 3}, got)
}

func TestEngine_BZPopMinWaitsForZAdd(t *testing.T) {
	e := newTestEngine(t, WithPollInterval(time.Hour))

	done := make(chan KeyedMember, 1)
	go func() {
		got, ok, err := e.BZPopMin(context.Background(), 0, "a", "b")
		if err == nil && ok {
			done <- got
		}
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	_, err := e.ZAdd("b", store.ScoredMember{Member: "m", Score: 7})
	require.NoError(t, err)

	select {
	case got, ok := <-done:
		require.True(t, ok)
		assert.Equal(t, KeyedMember{Key: "b", Member: "m", Score: 7}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked pop was not woken by the write")
	}
}

func TestEngine_BlockingSingleWinner(t *testing.T) {
	e := newTestEngine(t, WithPollInterval(10*time.Millisecond))

	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, ok, _ := e.BLPop(context.Background(), 300*time.Millisecond, "q")
			results <- ok
		}()
	}

	time.Sleep(30 * time.Millisecond)
	_, err := e.RPush("q", "only")
	require.NoError(t, err)

	served := 0
	for i := 0; i < 2; i++ {
		if <-results {
			served++
		}
	}
	assert.Equal(t, 1, served)
}

// Writes to other keys are skipped without losing a later write to a watched
// key, including when the event ring wraps between wakes.
func TestEngine_BlockingUnrelatedWrites(t *testing.T) {
	for _, buffer := range []int{1024, 2} {
		e := newTestEngine(t, WithPollInterval(time.Hour), WithEventBuffer(buffer))

		done := make(chan KeyedElement, 1)
		go func() {
			got, ok, err := e.BLPop(context.Background(), 2*time.Second, "q")
			if err == nil && ok {
				done <- got
			}
			close(done)
		}()

		time.Sleep(30 * time.Millisecond)
		for i := 0; i < 5; i++ {
			e.Set("noise", "x")
		}
		_, err := e.RPush("q", "job")
		require.NoError(t, err)

		select {
		case got, ok := <-done:
			require.True(t, ok, "buffer %d", buffer)
			assert.Equal(t, KeyedElement{Key: "q", Element: "job"}, got)
		case <-time.After(3 * time.Second):
			t.Fatalf("buffer %d: blocked pop was not woken", buffer)
		}
	}
}

func TestEngine_EventsSince(t *testing.T) {
	e := newTestEngine(t)
	e.Set("a", "1")
	e.Set("b", "2")
	e.Set("c", "3")

	evs := e.EventsSince(1)
	require.Len(t, evs, 2)
	assert.Equal(t, []string{"b"}, evs[0].Keys)
	assert.Equal(t, uint64(3), evs[1].ID)
	assert.Empty(t, e.EventsSince(3))
}
