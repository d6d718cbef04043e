package server

import (
	"context"
	"strings"
	"time"

	"github.com/flashdb/flashmock/internal/engine"
	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/store"
)

// Sorted set commands

// ZADD key score member [score member ...]
func (s *Server) cmdZAdd(w *protocol.Writer, args []string) {
	if len(args) < 3 || len(args)%2 == 0 {
		writeWrongArgs(w, "ZADD")
		return
	}
	members := make([]store.ScoredMember, 0, (len(args)-1)/2)
	for i := 1; i < len(args); i += 2 {
		score, err := parseScore(args[i])
		if err != nil {
			writeEngineError(w, err)
			return
		}
		members = append(members, store.ScoredMember{Member: args[i+1], Score: score})
	}
	n, err := s.engine.ZAdd(args[0], members...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdZCard(w *protocol.Writer, args []string) {
	if len(args) != 1 {
		writeWrongArgs(w, "ZCARD")
		return
	}
	n, err := s.engine.ZCard(args[0])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdZScore(w *protocol.Writer, args []string) {
	if len(args) != 2 {
		writeWrongArgs(w, "ZSCORE")
		return
	}
	score, ok, err := s.engine.ZScore(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if !ok {
		w.WriteNull()
		return
	}
	writeFloat(w, score)
}

func (s *Server) cmdZRank(w *protocol.Writer, cmd string, args []string, rank func(string, string) (int, bool, error)) {
	if len(args) != 2 {
		writeWrongArgs(w, cmd)
		return
	}
	n, ok, err := rank(args[0], args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeOptionalInt(w, n, ok)
}

func (s *Server) cmdZIncrBy(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "ZINCRBY")
		return
	}
	delta, err := parseScore(args[1])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	score, err := s.engine.ZIncrBy(args[0], args[2], delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeFloat(w, score)
}

func (s *Server) cmdZRem(w *protocol.Writer, args []string) {
	if len(args) < 2 {
		writeWrongArgs(w, "ZREM")
		return
	}
	n, err := s.engine.ZRem(args[0], args[1:]...)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdZCount(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "ZCOUNT")
		return
	}
	min, max, err := parseScoreRange(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	n, err := s.engine.ZCount(args[0], min, max)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

// ZRANGE|ZREVRANGE key start stop [WITHSCORES]
func (s *Server) cmdZRange(w *protocol.Writer, cmd string, args []string, read func(string, int, int) ([]store.ScoredMember, error)) {
	if len(args) != 3 && len(args) != 4 {
		writeWrongArgs(w, cmd)
		return
	}
	withScores := false
	if len(args) == 4 {
		if !strings.EqualFold(args[3], "WITHSCORES") {
			writeEngineError(w, store.ErrSyntax)
			return
		}
		withScores = true
	}
	start, stop, err := parseIndexPair(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	members, err := read(args[0], start, stop)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeScoredMembers(w, members, withScores)
}

type scoreRangeRead func(string, float64, float64, *store.Limit) ([]store.ScoredMember, error)

// ZRANGEBYSCORE key min max [WITHSCORES] [LIMIT offset count]
// ZREVRANGEBYSCORE key max min [WITHSCORES] [LIMIT offset count]
func (s *Server) cmdZRangeByScore(w *protocol.Writer, cmd string, args []string, read scoreRangeRead) {
	if len(args) < 3 {
		writeWrongArgs(w, cmd)
		return
	}
	minArg, maxArg := args[1], args[2]
	reverse := cmd == "ZREVRANGEBYSCORE"
	if reverse {
		minArg, maxArg = args[2], args[1]
	}
	min, max, err := parseScoreRange(minArg, maxArg)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	withScores := false
	var limit *store.Limit
	for i := 3; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "WITHSCORES":
			withScores = true
		case "LIMIT":
			if i+2 >= len(args) {
				writeEngineError(w, store.ErrSyntax)
				return
			}
			offset, err := parseInt(args[i+1])
			if err != nil {
				writeEngineError(w, err)
				return
			}
			count, err := parseInt(args[i+2])
			if err != nil {
				writeEngineError(w, err)
				return
			}
			limit = &store.Limit{Offset: offset, Count: count}
			i += 2
		default:
			writeEngineError(w, store.ErrSyntax)
			return
		}
	}

	first, second := min, max
	if reverse {
		first, second = max, min
	}
	members, err := read(args[0], first, second, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeScoredMembers(w, members, withScores)
}

// ZPOPMIN|ZPOPMAX key [count]
func (s *Server) cmdZPop(w *protocol.Writer, cmd string, args []string, pop func(string, int) ([]store.ScoredMember, error)) {
	if len(args) != 1 && len(args) != 2 {
		writeWrongArgs(w, cmd)
		return
	}
	count := 1
	if len(args) == 2 {
		n, err := parseInt(args[1])
		if err != nil {
			writeEngineError(w, err)
			return
		}
		count = n
	}
	members, err := pop(args[0], count)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeScoredMembers(w, members, true)
}

func (s *Server) cmdZRemRangeByRank(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "ZREMRANGEBYRANK")
		return
	}
	start, stop, err := parseIndexPair(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	n, err := s.engine.ZRemRangeByRank(args[0], start, stop)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

func (s *Server) cmdZRemRangeByScore(w *protocol.Writer, args []string) {
	if len(args) != 3 {
		writeWrongArgs(w, "ZREMRANGEBYSCORE")
		return
	}
	min, max, err := parseScoreRange(args[1], args[2])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	n, err := s.engine.ZRemRangeByScore(args[0], min, max)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteInteger(int64(n))
}

type blockingZPop func(context.Context, time.Duration, ...string) (engine.KeyedMember, bool, error)

// BZPOPMIN|BZPOPMAX key [key ...] timeout
func (s *Server) cmdBlockingZPop(ctx context.Context, w *protocol.Writer, cmd string, args []string, pop blockingZPop) {
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
	w.WriteStringArray([]string{got.Key, got.Member, formatScore(got.Score)})
}

// parseScoreRange parses an inclusive-or-exclusive min/max pair.
func parseScoreRange(minArg, maxArg string) (float64, float64, error) {
	min, err := parseScoreBound(minArg, true)
	if err != nil {
		return 0, 0, err
	}
	max, err := parseScoreBound(maxArg, false)
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}
