package server

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/flashdb/flashmock/internal/protocol"
	"github.com/flashdb/flashmock/internal/store"
)

// writeEngineError maps an engine error onto its Redis reply code.
func writeEngineError(w *protocol.Writer, err error) {
	switch {
	case errors.Is(err, store.ErrWrongType):
		w.WriteErrorCode("WRONGTYPE", "Operation against a key holding the wrong kind of value")
	case errors.Is(err, store.ErrIndexOutOfRange):
		w.WriteError("index out of range")
	default:
		w.WriteError(err.Error())
	}
}

func writeWrongArgs(w *protocol.Writer, cmd string) {
	w.WriteError(fmt.Sprintf("wrong number of arguments for '%s' command", strings.ToLower(cmd)))
}

func writeOptionalString(w *protocol.Writer, val string, ok bool) {
	if !ok {
		w.WriteNull()
		return
	}
	w.WriteBulkString(val)
}

func writeOptionalInt(w *protocol.Writer, n int, ok bool) {
	if !ok {
		w.WriteNull()
		return
	}
	w.WriteInteger(int64(n))
}

func writeBool(w *protocol.Writer, b bool) {
	if b {
		w.WriteInteger(1)
		return
	}
	w.WriteInteger(0)
}

func writeFloat(w *protocol.Writer, f float64) {
	w.WriteBulkString(formatScore(f))
}

// writeScoredMembers writes members, interleaving scores when withScores
// is set.
func writeScoredMembers(w *protocol.Writer, members []store.ScoredMember, withScores bool) {
	if withScores {
		w.WriteArrayHeader(len(members) * 2)
		for _, m := range members {
			w.WriteBulkString(m.Member)
			w.WriteBulkString(formatScore(m.Score))
		}
		return
	}
	w.WriteArrayHeader(len(members))
	for _, m := range members {
		w.WriteBulkString(m.Member)
	}
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

// parseInt parses an integer argument.
func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, store.ErrNotAnInteger
	}
	return n, nil
}

// parseScore parses a score argument, accepting +inf and -inf.
func parseScore(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "-inf":
		return math.Inf(-1), nil
	case "+inf", "inf":
		return math.Inf(1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, store.ErrNotAFloat
	}
	return f, nil
}

// parseScoreBound parses a range bound. A leading "(" makes the bound
// exclusive; it is turned into the nearest representable inclusive bound so
// the sorted set only ever sees min <= score <= max ranges.
func parseScoreBound(s string, lower bool) (float64, error) {
	exclusive := strings.HasPrefix(s, "(")
	if exclusive {
		s = s[1:]
	}
	f, err := parseScore(s)
	if err != nil {
		return 0, errors.New("min or max is not a float")
	}
	if !exclusive {
		return f, nil
	}
	if (lower && math.IsInf(f, 1)) || (!lower && math.IsInf(f, -1)) {
		// No score lies strictly beyond an infinity. NaN compares false
		// against every score, so the range selects nothing.
		return math.NaN(), nil
	}
	if lower {
		return math.Nextafter(f, math.Inf(1)), nil
	}
	return math.Nextafter(f, math.Inf(-1)), nil
}

// parseTimeout parses a blocking timeout given in (possibly fractional)
// seconds.
func parseTimeout(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, errors.New("timeout is not a float or out of range")
	}
	if secs < 0 {
		return 0, errors.New("timeout is negative")
	}
	return time.Duration(secs * float64(time.Second)), nil
}
