package server

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/version"
)

// Connection commands

func (s *Server) cmdPing(w *protocol.Writer, args []string) {
	if len(args) > 1 {
		writeWrongArgs(w, "PING")
		return
	}
	if len(args) == 1 {
		w.WriteBulkString(args[0])
		return
	}
	w.WriteSimpleString("PONG")
}

func (s *Server) cmdEcho(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "ECHO")
		return
	}
	w.WriteBulkString(args[0])
}

// SELECT command (for compatibility - we only have db0)
func (s *Server) cmdSelect(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "SELECT")
		return
	}
	if args[0] != "0" {
		w.WriteError("DB index is out of range")
		return
	}
	w.WriteSimpleString("OK")
}

// CLIENT command
func (s *Server) cmdClient(w *protocol.Writer, client *clientConn, args []string) {
	if len(args) == 0 {
		writeWrongArgs(w, "CLIENT")
		return
	}

	subCmd := strings.ToUpper(args[0])
	switch subCmd {
	case "SETINFO":
		w.WriteSimpleString("OK")

	case "SETNAME":
		if len(args) != 2 {
			writeWrongArgs(w, "CLIENT|SETNAME")
			return
		}
		s.mu.Lock()
		client.name = args[1]
		s.mu.Unlock()
		w.WriteSimpleString("OK")

	case "GETNAME":
		s.mu.RLock()
		name := client.name
		s.mu.RUnlock()
		writeOptionalString(w, name, name != "")

	case "ID":
		w.WriteInteger(client.id)

	case "LIST":
		s.mu.RLock()
		var sb strings.Builder
		for _, c := range s.clients {
			age := int64(time.Since(c.createdAt).Seconds())
			fmt.Fprintf(&sb, "id=%d addr=%s name=%s age=%d cmd=%d\n", c.id, c.addr, c.name, age, atomic.LoadInt64(&c.cmdCount))
		}
		s.mu.RUnlock()
		w.WriteBulkString(sb.String())

	default:
		w.WriteError(fmt.Sprintf("unknown subcommand '%s'", subCmd))
	}
}

func (s *Server) cmdInfo(w *protocol.Writer) {
	stats := s.engine.GetStats()
	uptime := time.Since(stats.StartTime).Seconds()

	s.mu.RLock()
	connCount := len(s.clients)
	s.mu.RUnlock()

	info := fmt.Sprintf(`# Server
redis_version:%s
flashmock_version:%s
uptime_in_seconds:%.0f

# Clients
connected_clients:%d
total_connections_received:%d

# Stats
total_commands_processed:%d
total_reads:%d
total_writes:%d
mutation_events:%d
blocked_waiters:%d

# Keyspace
db0:keys=%d
`, version.RedisCompat, version.Version, uptime, connCount, s.totalConns.Load(),
		stats.TotalCommands, stats.TotalReads, stats.TotalWrites,
		stats.Events.TotalEvents, stats.Events.Subscribers, stats.KeysCount)

	w.WriteBulkString(info)
}
