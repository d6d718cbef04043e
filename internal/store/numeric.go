package store

import (
	"math"
	"strconv"
)

// ParseInt parses s as a signed 64-bit integer, reporting ErrNotAnInteger
// on failure.
func ParseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotAnInteger
	}
	return n, nil
}

// ParseFloat parses s as a finite float, reporting ErrNotAFloat on failure.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, ErrNotAFloat
	}
	return f, nil
}

// FormatFloat renders f in the shortest form that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// incrInt adds delta to the integer held in s (absent counts as 0).
func incrInt(s string, present bool, delta int64) (int64, error) {
	var current int64
	if present {
		n, err := ParseInt(s)
		if err != nil {
			return 0, err
		}
		current = n
	}
	if (delta > 0 && current > math.MaxInt64-delta) || (delta < 0 && current < math.MinInt64-delta) {
		return 0, ErrNotAnInteger
	}
	return current + delta, nil
}

// incrFloat adds delta to the float held in s (absent counts as 0).
func incrFloat(s string, present bool, delta float64) (float64, error) {
	var current float64
	if present {
		f, err := ParseFloat(s)
		if err != nil {
			return 0, err
		}
		current = f
	}
	next := current + delta
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, ErrNotAFloat
	}
	return next, nil
}

// IncrBy adds delta to the integer held by s.
func (s *String) IncrBy(delta int64) (int64, error) {
	n, err := incrInt(s.val, true, delta)
	if err != nil {
		return 0, err
	}
	s.val = strconv.FormatInt(n, 10)
	return n, nil
}

// IncrByFloat adds delta to the float held by s.
func (s *String) IncrByFloat(delta float64) (float64, error) {
	f, err := incrFloat(s.val, true, delta)
	if err != nil {
		return 0, err
	}
	s.val = FormatFloat(f)
	return f, nil
}
