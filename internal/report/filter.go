// Package report computes the dashboard figures over the ledger: time-window
// filtering, sales and profit totals, chart groupings and export rows.
package report

import (
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
)

// Timestamped is anything stamped with a commit instant.
type Timestamped interface {
	Time() time.Time
}

// Range is an inclusive span of local calendar days used by the CUSTOM
// filter. A zero Start or End means the bound was not given.
type Range struct {
	Start time.Time
	End   time.Time
}

// Window resolves a filter to its [from, to] bounds. bounded is false when
// every record qualifies (LIFETIME, unknown filters, CUSTOM without both
// bounds). Boundaries are local days in now's location.
func Window(filter string, rng Range, now time.Time) (from, to time.Time, bounded bool) {
	switch filter {
	case enum.TimeFilterToday:
		return StartOfDay(now), time.Time{}, true
	case enum.TimeFilterWeek:
		return StartOfDay(now).AddDate(0, 0, -int(now.Weekday())), time.Time{}, true
	case enum.TimeFilterMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), time.Time{}, true
	case enum.TimeFilterCustom:
		if rng.Start.IsZero() || rng.End.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		return StartOfDay(rng.Start), EndOfDay(rng.End), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterByTime keeps the records inside the filter's window. Order is
// preserved.
func FilterByTime[T Timestamped](records []T, filter string, rng Range, now time.Time) []T {
	from, to, bounded := Window(filter, rng, now)
	if !bounded {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		ts := r.Time()
		if ts.Before(from) {
			continue
		}
		if !to.IsZero() && ts.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last millisecond of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
