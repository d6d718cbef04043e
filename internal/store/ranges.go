package store

// resolveRange maps an inclusive [start, stop] window over n elements to
// concrete indices. Negative indices count from the end, out-of-range bounds
// are clamped, and ok is false when the window selects nothing.
func resolveRange(start, stop, n int) (from, to int, ok bool) {
	if n == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}
