package util

import (
	"slices"
	"time"
)

// NewestFirst returns up to limit copies of rows ordered by timestamp descending,
// ties broken by id descending. A non-positive limit returns every row.
func NewestFirst[T any](rows []T, limit int, key func(T) (time.Time, int64)) []T {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		switch {
		case ib > ia:
			return 1
		case ib < ia:
			return -1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []T{}
	}
	return out
}
