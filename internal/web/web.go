// Package web provides a read-mostly HTTP API for inspecting the mock's
// keyspace from a browser or a test harness while it runs.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/store"
	"github.com/flashdb/flashmock/internal/version"
)

// Server represents the inspection HTTP server.
type Server struct {
	addr   string
	engine *engine.Engine
	log    *slog.Logger
	server *http.Server
}

const apiVersionPath = "/api/v1"

// New creates a new web server.
func New(addr string, e *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{addr: addr, engine: e, log: logger}
}

// StatsResponse represents server statistics.
type StatsResponse struct {
	Version     string       `json:"version"`
	RedisCompat string       `json:"redis_compat"`
	Uptime      int64        `json:"uptime"`
	UptimeHuman string       `json:"uptime_human"`
	GoRoutines  int          `json:"goroutines"`
	Engine      engine.Stats `json:"engine"`
}

// KeyInfo represents information about a key.
type KeyInfo struct {
	Key   string      `json:"key"`
	Type  string      `json:"type"`
	Len   int         `json:"len"`
	Value interface{} `json:"value,omitempty"`
}

// scoredMember is a sorted set entry with its score as text, since JSON
// has no infinities.
type scoredMember struct {
	Member string `json:"member"`
	Score  string `json:"score"`
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves the API on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.server = &http.Server{
		Handler:           corsMiddleware(s.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	s.log.Info("inspection API listening", "addr", listener.Addr().String())
	if err := s.server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(apiVersionPath+"/stats", s.handleStats)
	mux.HandleFunc(apiVersionPath+"/keys", s.handleKeys)
	mux.HandleFunc(apiVersionPath+"/key/", s.handleKey)
	mux.HandleFunc(apiVersionPath+"/events", s.handleEvents)
	mux.HandleFunc(apiVersionPath+"/hotkeys", s.handleHotKeys)
	mux.HandleFunc(apiVersionPath+"/flush", s.handleFlush)

	// Health endpoints
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return mux
}

// corsMiddleware adds CORS headers.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.engine.GetStats()
	uptime := time.Since(stats.StartTime)
	writeJSON(w, StatsResponse{
		Version:     version.Version,
		RedisCompat: version.RedisCompat,
		Uptime:      int64(uptime.Seconds()),
		UptimeHuman: formatDuration(uptime),
		GoRoutines:  runtime.NumGoroutine(),
		Engine:      stats,
	})
}

// handleKeys lists keys matching ?pattern= (default "*"), at most ?limit=.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}
	limit := queryInt(r, "limit", 100)

	keys := s.engine.Keys(pattern)
	total := len(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	infos := make([]KeyInfo, 0, len(keys))
	for _, key := range keys {
		// A key can vanish between listing and dumping.
		if d, ok := s.engine.Dump(key); ok {
			infos = append(infos, KeyInfo{Key: key, Type: d.Type, Len: d.Len})
		}
	}

	writeJSON(w, map[string]interface{}{
		"keys":  infos,
		"total": total,
	})
}

// handleKey returns the full value of one key, or deletes it.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, apiVersionPath+"/key/")
	if key == "" {
		http.Error(w, "Key required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		d, ok := s.engine.Dump(key)
		if !ok {
			http.Error(w, "Key not found", http.StatusNotFound)
			return
		}
		writeJSON(w, KeyInfo{Key: d.Key, Type: d.Type, Len: d.Len, Value: jsonValue(d.Value)})

	case http.MethodDelete:
		writeJSON(w, map[string]interface{}{"deleted": s.engine.Del(key)})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleEvents returns the ?n= (default 100) most recent mutations, or with
// ?after=<id> every buffered mutation newer than id.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if v := r.URL.Query().Get("after"); v != "" {
		after, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid after", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]interface{}{
			"events": s.engine.EventsSince(after),
		})
		return
	}
	writeJSON(w, map[string]interface{}{
		"events": s.engine.RecentEvents(queryInt(r, "n", 100)),
	})
}

func (s *Server) handleHotKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]interface{}{
		"hotkeys": s.engine.HotKeys(queryInt(r, "n", 0)),
	})
}

// handleFlush empties the keyspace so a harness can reset between tests.
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.engine.FlushAll()
	writeJSON(w, map[string]interface{}{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ready := s.engine != nil
	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}
	writeJSONWithStatus(w, statusCode, map[string]interface{}{
		"status": status,
		"ready":  ready,
	})
}

// jsonValue rewrites sorted set scores as text.
func jsonValue(v interface{}) interface{} {
	members, ok := v.([]store.ScoredMember)
	if !ok {
		return v
	}
	out := make([]scoredMember, len(members))
	for i, m := range members {
		out[i] = scoredMember{Member: m.Member, Score: formatScore(m.Score)}
	}
	return out
}

func formatScore(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return store.FormatFloat(f)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONWithStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// formatDuration formats a duration as human-readable string.
func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, mins, secs)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
