package server

import "github.com/flashdb/flashmock/internal/protocol"

// Set commands

func (s *Server) cmdSAdd(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "SADD")
		return
	}
	n, err := s.engine.SAdd(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdSRem(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "SREM")
		return
	}
	n, err := s.engine.SRem(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdSCard(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "SCARD")
		return
	}
	n, err := s.engine.SCard(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdSIsMember(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "SISMEMBER")
		return
	}
	ok, err := s.engine.SIsMember(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeBool(w, ok)
}

func (s *Server) cmdSMembers(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "SMEMBERS")
		return
	}
	members, err := s.engine.SMembers(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteStringArray(members)
}

func (s *Server) cmdSMove(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "SMOVE")
		return
	}
	moved, err := s.engine.SMove(args[0], args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeBool(w, moved)
}

// SPOP key [count]
func (s *Server) cmdSPop(w *protocol.Writer, args []string) {
	switch len(args) {
	case 1:
		val, ok, err := s.engine.SPop(args[0])
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeOptionalString(w, val, ok)
	case 2:
		count, err := parseInt(args[1])
		if err != nil || count < 0 {
			w.WriteError("value is out of range, must be positive")
			return
		}
		popped, err := s.engine.SPopN(args[0], count)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteStringArray(popped)
	default:
		writeWrongArgs(w, "SPOP")
	}
}

func (s *Server) cmdSetAlgebra(w *protocol.Writer, cmd string, args []string, op func(...string) ([]string, error)) {
	if len(args) == 0 {
		writeWrongArgs(w, cmd)
		return
	}
	members, err := op(args...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteStringArray(members)
}

func (s *Server) cmdSetAlgebraStore(w *protocol.Writer, cmd string, args []string, op func(string, ...string) (int, error)) {
	if len(args) < 2 {
		writeWrongArgs(w, cmd)
		return
	}
	n, err := op(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}
