package server

import (
	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/store"
)

// Hash commands

func (s *Server) cmdHSet(w *protocol.Writer, args []string) {
	if len(args) < 3 || len(args)%2 == 0 {
		writeWrongArgs(w, "HSET")
		return
	}
	n, err := s.engine.HSet(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdHMSet(w *protocol.Writer, args []string) {
	if len(args) < 3 || len(args)%2 == 0 {
		writeWrongArgs(w, "HMSET")
		return
	}
	if err := s.engine.HMSet(args[0], args[1:]...); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteSimpleString("OK")
}

func (s *Server) cmdHSetNX(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "HSETNX")
		return
	}
	ok, err := s.engine.HSetNX(args[0], args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeBool(w, ok)
}

func (s *Server) cmdHGet(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "HGET")
		return
	}
	val, ok, err := s.engine.HGet(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalString(w, val, ok)
}

func (s *Server) cmdHMGet(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "HMGET")
		return
	}
	vals, err := s.engine.HMGet(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	items := make([]string, len(vals))
	valid := make([]bool, len(vals))
	for i, v := range vals {
		items[i], valid[i] = v.String, v.Valid
	}
	w.WriteArrayWithNulls(items, valid)
}

func (s *Server) cmdHGetAll(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "HGETALL")
		return
	}
	pairs, err := s.engine.HGetAll(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteArrayHeader(len(pairs) * 2)
	for _, p := range pairs {
		w.WriteBulkString(p.Field)
		w.WriteBulkString(p.Value)
	}
}

func (s *Server) cmdHDel(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "HDEL")
		return
	}
	n, err := s.engine.HDel(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdHExists(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "HEXISTS")
		return
	}
	ok, err := s.engine.HExists(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeBool(w, ok)
}

func (s *Server) cmdHLen(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "HLEN")
		return
	}
	n, err := s.engine.HLen(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdHStrLen(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "HSTRLEN")
		return
	}
	n, err := s.engine.HStrLen(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdHKeys(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "HKEYS")
		return
	}
	fields, err := s.engine.HKeys(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteStringArray(fields)
}

func (s *Server) cmdHVals(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "HVALS")
		return
	}
	vals, err := s.engine.HVals(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteStringArray(vals)
}

func (s *Server) cmdHIncrBy(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "HINCRBY")
		return
	}
	delta, err := store.ParseInt(args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeCounter(w)(s.engine.HIncrBy(args[0], args[1], delta))
}

func (s *Server) cmdHIncrByFloat(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "HINCRBYFLOAT")
		return
	}
	delta, err := store.ParseFloat(args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	f, err := s.engine.HIncrByFloat(args[0], args[1], delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeFloat(w, f)
}
