// Package server exposes the engine over TCP using the RESP2 protocol, so
// any Redis client can talk to the mock.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/version"
)

// Config holds server configuration.
type Config struct {
	MaxClients  int
	ReadTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		MaxClients:  10000,
		ReadTimeout: 0,
	}
}

// clientConn represents a client connection with state.
type clientConn struct {
	id        int64
	conn      net.Conn
	addr      string
	name      string
	createdAt time.Time
	cmdCount  int64
}

// Server represents the mock's TCP server.
type Server struct {
	addr       string
	engine     *engine.Engine
	config     Config
	log        *slog.Logger
	listener   net.Listener
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	nextConnID int64
	clients    map[int64]*clientConn
	startTime  time.Time
	totalCmds  atomic.Int64
	totalConns atomic.Int64
}

// New creates a new Server with the specified address and engine.
func New(addr string, e *engine.Engine, logger *slog.Logger) *Server {
	return NewWithConfig(addr, e, logger, DefaultConfig())
}

// NewWithConfig creates a new Server with the specified configuration.
func NewWithConfig(addr string, e *engine.Engine, logger *slog.Logger, cfg Config) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		addr:      addr,
		engine:    e,
		config:    cfg,
		log:       logger,
		clients:   make(map[int64]*clientConn),
		startTime: time.Now(),
	}
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: failed to listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or Close is
// called. It always returns after the listener is closed.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.cancel = cancel
	s.mu.Unlock()

	s.log.Info("flashmock listening", "addr", listener.Addr().String(), "version", version.Version)

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.RLock()
			closed := s.closed
			s.mu.RUnlock()

			if closed {
				return nil
			}
			s.log.Warn("failed to accept connection", "err", err)
			continue
		}

		s.mu.Lock()
		if s.config.MaxClients > 0 && len(s.clients) >= s.config.MaxClients {
			s.mu.Unlock()
			s.log.Warn("max clients reached, rejecting connection", "remote", conn.RemoteAddr().String())
			protocol.NewWriter(conn).WriteError("max number of clients reached")
			conn.Close()
			continue
		}
		s.nextConnID++
		client := &clientConn{
			id:        s.nextConnID,
			conn:      conn,
			addr:      conn.RemoteAddr().String(),
			createdAt: time.Now(),
		}
		s.clients[client.id] = client
		s.mu.Unlock()
		s.totalConns.Add(1)

		s.wg.Add(1)
		go func(c *clientConn) {
			defer s.wg.Done()
			defer func() {
				s.mu.Lock()
				delete(s.clients, c.id)
				s.mu.Unlock()
			}()
			s.handleConnection(ctx, c)
		}(client)
	}
}

// Addr returns the address the server is listening on, or the configured
// address before Serve has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Close stops accepting connections, disconnects every client, and waits for
// their handlers to return. Blocked commands are cancelled.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	cancel := s.cancel
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	if cancel != nil {
		cancel()
	}

	s.wg.Wait()
	s.log.Info("flashmock stopped", "connections_served", s.totalConns.Load())
	return err
}

// handleConnection handles a single client connection. Replies are flushed
// once the reader has no pipelined request left.
func (s *Server) handleConnection(ctx context.Context, client *clientConn) {
	defer client.conn.Close()

	reader := protocol.NewReader(client.conn)
	writer := protocol.NewWriter(client.conn)
	writer.SetAutoFlush(false)

	for {
		if ctx.Err() != nil {
			return
		}
		if s.config.ReadTimeout > 0 {
			client.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		val, err := reader.ReadValue()
		if err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			case errors.As(err, &netErr) && netErr.Timeout():
				s.log.Debug("client idle timeout", "client", client.id)
			case errors.Is(err, protocol.ErrInvalidProtocol):
				writer.WriteError("Protocol error: " + err.Error())
				writer.Flush()
			default:
				s.log.Warn("failed to read", "client", client.id, "err", err)
			}
			return
		}

		cmd, args, ok := val.Command()
		if !ok {
			writer.WriteError("invalid command format")
		} else {
			atomic.AddInt64(&client.cmdCount, 1)
			s.totalCmds.Add(1)
			if cmd == "QUIT" {
				writer.WriteSimpleString("OK")
				writer.Flush()
				return
			}
			if isBlocking(cmd) {
				// replies queued ahead of a blocking command must not wait on it
				if err := writer.Flush(); err != nil {
					return
				}
				s.executeBlocking(ctx, reader, writer, client, cmd, args)
			} else {
				s.executeCommand(ctx, writer, client, cmd, args)
			}
		}

		if reader.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				s.log.Debug("failed to write reply", "client", client.id, "err", err)
				return
			}
		}
	}
}

func isBlocking(cmd string) bool {
	switch cmd {
	case "BLPOP", "BRPOP", "BZPOPMIN", "BZPOPMAX":
		return true
	}
	return false
}

// executeBlocking runs a blocking command while watching the connection. A
// peer that closes while blocked cancels the command, so its waiter cannot
// take data it would never receive.
func (s *Server) executeBlocking(ctx context.Context, reader *protocol.Reader, w *protocol.Writer, client *clientConn, cmd string, args []string) {
	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	client.conn.SetReadDeadline(time.Time{})
	stop := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		if err := reader.Peek(); err != nil {
			select {
			case <-stop:
			default:
				s.log.Debug("client gone while blocked", "client", client.id, "command", cmd, "err", err)
				cancel()
			}
		}
	}()

	s.executeCommand(cmdCtx, w, client, cmd, args)

	// Release the watcher before the read loop touches the reader again.
	close(stop)
	client.conn.SetReadDeadline(time.Now())
	<-watched
	client.conn.SetReadDeadline(time.Time{})
}

// executeCommand executes a command and writes the response.
func (s *Server) executeCommand(ctx context.Context, w *protocol.Writer, client *clientConn, cmd string, args []string) {
	switch cmd {
	// Connection
	case "PING":
		s.cmdPing(w, args)
	case "ECHO":
		s.cmdEcho(w, args)
	case "HELLO":
		// RESP3 is not spoken; clients fall back to RESP2 on an error reply.
		w.WriteError("unknown command 'HELLO'")
	case "SELECT":
		s.cmdSelect(w, args)
	case "CLIENT":
		s.cmdClient(w, client, args)
	case "INFO":
		s.cmdInfo(w)
	case "COMMAND":
		w.WriteStringArray([]string{})

	// Keys
	case "DEL":
		s.cmdDel(w, args)
	case "EXISTS":
		s.cmdExists(w, args)
	case "TYPE":
		s.cmdType(w, args)
	case "KEYS":
		s.cmdKeys(w, args)
	case "DBSIZE":
		s.cmdDBSize(w, args)
	case "FLUSHALL", "FLUSHDB":
		s.cmdFlushAll(w)

	// Strings
	case "GET":
		s.cmdGet(w, args)
	case "SET":
		s.cmdSet(w, args)
	case "MGET":
		s.cmdMGet(w, args)
	case "APPEND":
		s.cmdAppend(w, args)
	case "STRLEN":
		s.cmdStrLen(w, args)
	case "INCR":
		s.cmdIncr(w, args)
	case "DECR":
		s.cmdDecr(w, args)
	case "INCRBY":
		s.cmdIncrBy(w, args)
	case "DECRBY":
		s.cmdDecrBy(w, args)
	case "INCRBYFLOAT":
		s.cmdIncrByFloat(w, args)

	// Lists
	case "LPUSH":
		s.cmdPush(w, "LPUSH", args, s.engine.LPush)
	case "RPUSH":
		s.cmdPush(w, "RPUSH", args, s.engine.RPush)
	case "LPUSHX":
		s.cmdPush(w, "LPUSHX", args, s.engine.LPushX)
	case "RPUSHX":
		s.cmdPush(w, "RPUSHX", args, s.engine.RPushX)
	case "LPOP":
		s.cmdPop(w, "LPOP", args, s.engine.LPop)
	case "RPOP":
		s.cmdPop(w, "RPOP", args, s.engine.RPop)
	case "LLEN":
		s.cmdLLen(w, args)
	case "LINDEX":
		s.cmdLIndex(w, args)
	case "LINSERT":
		s.cmdLInsert(w, args)
	case "LRANGE":
		s.cmdLRange(w, args)
	case "LREM":
		s.cmdLRem(w, args)
	case "LSET":
		s.cmdLSet(w, args)
	case "LTRIM":
		s.cmdLTrim(w, args)
	case "RPOPLPUSH":
		s.cmdRPopLPush(w, args)
	case "BLPOP":
		s.cmdBlockingListPop(ctx, w, "BLPOP", args, s.engine.BLPop)
	case "BRPOP":
		s.cmdBlockingListPop(ctx, w, "BRPOP", args, s.engine.BRPop)

	// Sets
	case "SADD":
		s.cmdSAdd(w, args)
	case "SREM":
		s.cmdSRem(w, args)
	case "SCARD":
		s.cmdSCard(w, args)
	case "SISMEMBER":
		s.cmdSIsMember(w, args)
	case "SMEMBERS":
		s.cmdSMembers(w, args)
	case "SMOVE":
		s.cmdSMove(w, args)
	case "SPOP":
		s.cmdSPop(w, args)
	case "SINTER":
		s.cmdSetAlgebra(w, "SINTER", args, s.engine.SInter)
	case "SUNION":
		s.cmdSetAlgebra(w, "SUNION", args, s.engine.SUnion)
	case "SDIFF":
		s.cmdSetAlgebra(w, "SDIFF", args, s.engine.SDiff)
	case "SINTERSTORE":
		s.cmdSetAlgebraStore(w, "SINTERSTORE", args, s.engine.SInterStore)
	case "SUNIONSTORE":
		s.cmdSetAlgebraStore(w, "SUNIONSTORE", args, s.engine.SUnionStore)
	case "SDIFFSTORE":
		s.cmdSetAlgebraStore(w, "SDIFFSTORE", args, s.engine.SDiffStore)

	// Hashes
	case "HSET":
		s.cmdHSet(w, args)
	case "HMSET":
		s.cmdHMSet(w, args)
	case "HSETNX":
		s.cmdHSetNX(w, args)
	case "HGET":
		s.cmdHGet(w, args)
	case "HMGET":
		s.cmdHMGet(w, args)
	case "HGETALL":
		s.cmdHGetAll(w, args)
	case "HDEL":
		s.cmdHDel(w, args)
	case "HEXISTS":
		s.cmdHExists(w, args)
	case "HLEN":
		s.cmdHLen(w, args)
	case "HSTRLEN":
		s.cmdHStrLen(w, args)
	case "HKEYS":
		s.cmdHKeys(w, args)
	case "HVALS":
		s.cmdHVals(w, args)
	case "HINCRBY":
		s.cmdHIncrBy(w, args)
	case "HINCRBYFLOAT":
		s.cmdHIncrByFloat(w, args)

	// Sorted sets
	case "ZADD":
		s.cmdZAdd(w, args)
	case "ZCARD":
		s.cmdZCard(w, args)
	case "ZSCORE":
		s.cmdZScore(w, args)
	case "ZRANK":
		s.cmdZRank(w, "ZRANK", args, s.engine.ZRank)
	case "ZREVRANK":
		s.cmdZRank(w, "ZREVRANK", args, s.engine.ZRevRank)
	case "ZINCRBY":
		s.cmdZIncrBy(w, args)
	case "ZREM":
		s.cmdZRem(w, args)
	case "ZCOUNT":
		s.cmdZCount(w, args)
	case "ZRANGE":
		s.cmdZRange(w, "ZRANGE", args, s.engine.ZRange)
	case "ZREVRANGE":
		s.cmdZRange(w, "ZREVRANGE", args, s.engine.ZRevRange)
	case "ZRANGEBYSCORE":
		s.cmdZRangeByScore(w, "ZRANGEBYSCORE", args, s.engine.ZRangeByScore)
	case "ZREVRANGEBYSCORE":
		s.cmdZRangeByScore(w, "ZREVRANGEBYSCORE", args, s.engine.ZRevRangeByScore)
	case "ZPOPMIN":
		s.cmdZPop(w, "ZPOPMIN", args, s.engine.ZPopMin)
	case "ZPOPMAX":
		s.cmdZPop(w, "ZPOPMAX", args, s.engine.ZPopMax)
	case "ZREMRANGEBYRANK":
		s.cmdZRemRangeByRank(w, args)
	case "ZREMRANGEBYSCORE":
		s.cmdZRemRangeByScore(w, args)
	case "BZPOPMIN":
		s.cmdBlockingZPop(ctx, w, "BZPOPMIN", args, s.engine.BZPopMin)
	case "BZPOPMAX":
		s.cmdBlockingZPop(ctx, w, "BZPOPMAX", args, s.engine.BZPopMax)

	default:
		w.WriteError(fmt.Sprintf("unknown command '%s'", cmd))
	}
}
