package util

// RoundPercent returns round(100 * part / total) using round-half-up,
// computed in integer arithmetic so no float truncation leaks in.
// A non-positive total yields 0.
func RoundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	if part < 0 {
		part = 0
	}
	return (200*part + total) / (2 * total)
}

// ClampInt limits v to the closed range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
