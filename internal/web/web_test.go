package web

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/store"
)

func newTestWebServer(t *testing.T, opts ...engine.Option) (*Server, http.Handler) {
	t.Helper()

	e, err := engine.New(opts...)
	require.NoError(t, err)

	s := New(":0", e, nil)
	return s, corsMiddleware(s.routes())
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHealthAndReadinessEndpoints(t *testing.T) {
	_, h := newTestWebServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(t, h, path)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "status")
	}
}

func TestStats(t *testing.T) {
	s, h := newTestWebServer(t)
	s.engine.Set("k", "v")

	rr := get(t, h, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Engine.KeysCount)
	assert.Equal(t, int64(1), resp.Engine.TotalWrites)
	assert.NotEmpty(t, resp.Version)
}

func TestKeysListing(t *testing.T) {
	_, h := newTestWebServer(t, engine.WithSeed(map[string]store.Value{
		"user:1": store.NewString("ann"),
		"user:2": store.NewListOf("a", "b"),
		"other":  store.NewSetOf("x"),
	}))

	rr := get(t, h, "/api/v1/keys?pattern=user:*&limit=1")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Keys  []KeyInfo `json:"keys"`
		Total int       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Keys, 1)
	assert.Equal(t, KeyInfo{Key: "user:1", Type: "string", Len: 3}, resp.Keys[0])

	rr = get(t, h, "/api/v1/keys?pattern=[")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
}

func TestKeyDumpAndDelete(t *testing.T) {
	s, h := newTestWebServer(t, engine.WithSeed(map[string]store.Value{
		"board": store.NewSortedSetOf(
			store.ScoredMember{Member: "top", Score: math.Inf(1)},
			store.ScoredMember{Member: "mid", Score: 2.5},
		),
	}))

	rr := get(t, h, "/api/v1/key/board")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"key":"board","type":"zset","len":2,
		"value":[{"member":"mid","score":"2.5"},{"member":"top","score":"inf"}]}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/key/missing").Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/key/board", nil)
	del := httptest.NewRecorder()
	h.ServeHTTP(del, req)
	require.Equal(t, http.StatusOK, del.Code)
	assert.JSONEq(t, `{"deleted":1}`, del.Body.String())
	assert.Equal(t, 0, s.engine.DBSize())
}

func TestEventsAndHotKeys(t *testing.T) {
	s, h := newTestWebServer(t)
	_, err := s.engine.RPush("q", "a", "b")
	require.NoError(t, err)
	_, _, err = s.engine.LPop("q")
	require.NoError(t, err)

	rr := get(t, h, "/api/v1/events?n=1")
	require.Equal(t, http.StatusOK, rr.Code)
	var evs struct {
		Events []struct {
			Command string   `json:"command"`
			Keys    []string `json:"keys"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &evs))
	require.Len(t, evs.Events, 1)
	assert.Equal(t, "LPOP", evs.Events[0].Command)
	assert.Equal(t, []string{"q"}, evs.Events[0].Keys)

	rr = get(t, h, "/api/v1/events?after=1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &evs))
	require.Len(t, evs.Events, 1)
	assert.Equal(t, "LPOP", evs.Events[0].Command)

	rr = get(t, h, "/api/v1/events?after=x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(t, h, "/api/v1/hotkeys")
	assert.JSONEq(t, `{"hotkeys":[{"key":"q","count":2}]}`, rr.Body.String())
}

func TestFlush(t *testing.T) {
	s, h := newTestWebServer(t)
	s.engine.Set("a", "1")

	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/api/v1/flush").Code)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/flush", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, s.engine.DBSize())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestWebServer(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
