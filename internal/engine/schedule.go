package engine

import "time"

const (
	resetHour    = 6
	resetWeekday = time.Wednesday
	day          = 24 * time.Hour
)

// Boundaries are the most recent (or next) reset instants of each cycle.
type Boundaries struct {
	Daily  time.Time
	Weekly time.Time
}

// LastResetBoundaries returns the latest daily 06:00 and Wednesday 06:00 in loc
// that are not after now. An instant exactly on a boundary has already passed it.
func LastResetBoundaries(now time.Time, loc *time.Location) Boundaries {
	local := now.In(loc)
	y, m, d := local.Date()

	daily := time.Date(y, m, d, resetHour, 0, 0, 0, loc)
	if local.Before(daily) {
		daily = daily.AddDate(0, 0, -1)
	}

	back := (int(local.Weekday()) - int(resetWeekday) + 7) % 7
	weekly := time.Date(y, m, d-back, resetHour, 0, 0, 0, loc)
	if local.Before(weekly) {
		// Wednesday before 06:00 still belongs to last week.
		weekly = weekly.AddDate(0, 0, -7)
	}

	return Boundaries{Daily: daily, Weekly: weekly}
}

// NextResetBoundaries returns the first daily and weekly reset instants after now.
func NextResetBoundaries(now time.Time, loc *time.Location) Boundaries {
	last := LastResetBoundaries(now, loc)
	return Boundaries{
		Daily:  last.Daily.AddDate(0, 0, 1),
		Weekly: last.Weekly.AddDate(0, 0, 7),
	}
}

// IntervalElapsed reports whether at least days whole days separate last and now.
// Values of days below one are treated as one.
func IntervalElapsed(last, now time.Time, days int) bool {
	if days < 1 {
		days = 1
	}
	if now.Before(last) {
		return false
	}
	return int64(now.Sub(last)/day) >= int64(days)
}

// WeeklyResetsUntil counts weekly boundaries in (now, until].
func WeeklyResetsUntil(now, until time.Time, loc *time.Location) int {
	n := 0
	for next := NextResetBoundaries(now, loc).Weekly; !next.After(until); next = next.AddDate(0, 0, 7) {
		n++
	}
	return n
}
