// Package archive implements the quarter-boundary state machine that
// migrates live collection entries into quarter-labeled archive buckets.
package archive

import (
	"fmt"
	"time"
)

// Quarter identifies a calendar quarter. It is always derived from a
// timestamp at decision time, never persisted: the external catalog
// owns added_at, and a stored copy of the quarter could drift.
type Quarter struct {
	Year int
	Q    int // 1-4
}

// QuarterOf derives the quarter containing the given instant (UTC)
func QuarterOf(t time.Time) Quarter {
	t = t.UTC()
	return Quarter{
		Year: t.Year(),
		Q:    (int(t.Month())-1)/3 + 1,
	}
}

// Before reports whether q is strictly earlier than other,
// ordering by (year, quarter)
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}

// String formats the quarter as "2026 Q1"
func (q Quarter) String() string {
	return fmt.Sprintf("%d Q%d", q.Year, q.Q)
}

// Label formats the quarter as a compact tag like "2026Q1",
// matching backup file and export naming
func (q Quarter) Label() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}
