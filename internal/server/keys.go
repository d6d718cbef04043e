package server

import "github.com/flashdb/flashmock/internal/protocol"

// Key commands

func (s *Server) cmdDel(w *protocol.Writer, args []string) {
	if len(args) == 0 {
		writeWrongArgs(w, "DEL")
		return
	}
	w.WriteInteger(int64(s.engine.Del(args...)))
}

func (s *Server) cmdExists(w *protocol.Writer, args []string) {
	if len(args) == 0 {
		writeWrongArgs(w, "EXISTS")
		return
	}
	w.WriteInteger(int64(s.engine.Exists(args...)))
}

func (s *Server) cmdType(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "TYPE")
		return
	}
	w.WriteSimpleString(s.engine.Type(args[0]))
}

func (s *Server) cmdKeys(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "KEYS")
		return
	}
	w.WriteStringArray(s.engine.Keys(args[0]))
}

func (s *Server) cmdDBSize(w *protocol.Writer, args []string) {
	if len(args) != 0 {
		writeWrongArgs(w, "DBSIZE")
		return
	}
	w.WriteInteger(int64(s.engine.DBSize()))
}

func (s *Server) cmdFlushAll(w *protocol.Writer) {
	s.engine.FlushAll()
	w.WriteSimpleString("OK")
}
