package server

import (
	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/store"
)

// String commands

func (s *Server) cmdGet(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "GET")
		return
	}
	val, ok, err := s.engine.Get(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalString(w, val, ok)
}

// SET key value. Expiry and conditional flags are not supported.
func (s *Server) cmdSet(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "SET")
		return
	}
	if len(args) > 2 {
		writeEngineError(w, store.ErrSyntax)
		return
	}
	s.engine.Set(args[0], args[1])
	w.WriteSimpleString("OK")
}

func (s *Server) cmdMGet(w *protocol.Writer, args []string) {
	if len(args) == 0 {
		writeWrongArgs(w, "MGET")
		return
	}
	vals := s.engine.MGet(args...)
	items := make([]string, len(vals))
	valid := make([]bool, len(vals))
	for i, v := range vals {
		items[i], valid[i] = v.String, v.Valid
	}
	w.WriteArrayWithNulls(items, valid)
}

func (s *Server) cmdAppend(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "APPEND")
		return
	}
	n, err := s.engine.Append(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdStrLen(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "STRLEN")
		return
	}
	n, err := s.engine.StrLen(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdIncr(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "INCR")
		return
	}
	writeCounter(w)(s.engine.Incr(args[0]))
}

func (s *Server) cmdDecr(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "DECR")
		return
	}
	writeCounter(w)(s.engine.Decr(args[0]))
}

func (s *Server) cmdIncrBy(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "INCRBY")
		return
	}
	delta, err := store.ParseInt(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeCounter(w)(s.engine.IncrBy(args[0], delta))
}

func (s *Server) cmdDecrBy(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "DECRBY")
		return
	}
	delta, err := store.ParseInt(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeCounter(w)(s.engine.DecrBy(args[0], delta))
}

// writeCounter returns a sink for an integer command result.
func writeCounter(w *protocol.Writer) func(int64, error) {
	return func(n int64, err error) {
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteInteger(n)
	}
}

func (s *Server) cmdIncrByFloat(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "INCRBYFLOAT")
		return
	}
	delta, err := store.ParseFloat(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	f, err := s.engine.IncrByFloat(args[0], delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeFloat(w, f)
}
