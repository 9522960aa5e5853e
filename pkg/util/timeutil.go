package util

import (
	"math"
	"time"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampLimit normalizes a history limit: non-positive values take def, anything above
// max is capped.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		return max
	}
	return limit
}
