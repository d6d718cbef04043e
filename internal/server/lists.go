package server

import (
	"context"
	"strings"
	"time"

	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/store"
)

// List commands

func (s *Server) cmdPush(w *protocol.Writer, cmd string, args []string, push func(string, ...string) (int, error)) {
	if len(args) < 2 {
		writeWrongArgs(w, cmd)
		return
	}
	n, err := push(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdPop(w *protocol.Writer, cmd string, args []string, pop func(string) (string, bool, error)) {
	if len(args) != 1 {
		writeWrongArgs(w, cmd)
		return
	}
	val, ok, err := pop(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalString(w, val, ok)
}

func (s *Server) cmdLLen(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "LLEN")
		return
	}
	n, err := s.engine.LLen(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdLIndex(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "LINDEX")
		return
	}
	index, err := parseInt(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	val, ok, err := s.engine.LIndex(args[0], index)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalString(w, val, ok)
}

// LINSERT key BEFORE|AFTER pivot element
func (s *Server) cmdLInsert(w *protocol.Writer, args []string) {
	if len(args) != 4 {
		writeWrongArgs(w, "LINSERT")
		return
	}
	var before bool
	switch strings.ToUpper(args[1]) {
	case "BEFORE":
		before = true
	case "AFTER":
	default:
		writeEngineError(w, store.ErrSyntax)
		return
	}
	n, err := s.engine.LInsert(args[0], before, args[2], args[3])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdLRange(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "LRANGE")
		return
	}
	start, stop, err := parseIndexPair(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	items, err := s.engine.LRange(args[0], start, stop)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteStringArray(items)
}

func (s *Server) cmdLRem(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "LREM")
		return
	}
	count, err := parseInt(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	n, err := s.engine.LRem(args[0], count, args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdLSet(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "LSET")
		return
	}
	index, err := parseInt(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.engine.LSet(args[0], index, args[2]); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteSimpleString("OK")
}

func (s *Server) cmdLTrim(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "LTRIM")
		return
	}
	start, stop, err := parseIndexPair(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.engine.LTrim(args[0], start, stop); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteSimpleString("OK")
}

func (s *Server) cmdRPopLPush(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "RPOPLPUSH")
		return
	}
	val, ok, err := s.engine.RPopLPush(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalString(w, val, ok)
}

type blockingListPop func(context.Context, time.Duration, ...string) (engine.KeyedElement, bool, error)

// BLPOP|BRPOP key [key ...] timeout
func (s *Server) cmdBlockingListPop(ctx context.Context, w *protocol.Writer, cmd string, args []string, pop blockingListPop) {
	keys, timeout, ok := parseBlockingArgs(w, cmd, args)
	if !ok {
		return
	}
	got, ok, err := pop(ctx, timeout, keys...)
	if err != nil && ctx.Err() == nil {
		writeEngineError(w, err)
		return
	}
	if !ok {
		w.WriteNullArray()
		return
	}
	w.WriteStringArray([]string{got.Key, got.Element})
}

// parseBlockingArgs splits "key [key ...] timeout". It writes the error
// reply itself and reports ok=false on failure.
func parseBlockingArgs(w *protocol.Writer, cmd string, args []string) ([]string, time.Duration, bool) {
	if len(args) < 2 {
		writeWrongArgs(w, cmd)
		return nil, 0, false
	}
	timeout, err := parseTimeout(args[len(args)-1])
	if err != nil {
		writeEngineError(w, err)
		return nil, 0, false
	}
	return args[:len(args)-1], timeout, true
}

func parseIndexPair(a, b string) (int, int, error) {
	start, err := parseInt(a)
	if err != nil {
		return 0, 0, err
	}
	stop, err := parseInt(b)
	if err != nil {
		return 0, 0, err
	}
	return start, stop, nil
}
