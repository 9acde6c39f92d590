// Package streak derives the daily quiz streak and the one-day recovery window
// from the dates on which quizzes were completed.
package streak

import (
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/vocquiz/internal/entity"
)

const dayLayout = "2006-01-02"

// Calculate returns the streak status at now. Every date is truncated to its calendar
// day in loc (UTC when nil) before comparison.
func Calculate(dates []time.Time, now time.Time, loc *time.Location) entity.StreakStatus {
	if len(dates) == 0 {
		return entity.StreakStatus{}
	}
	if loc == nil {
		loc = time.UTC
	}

	days := lo.SliceToMap(dates, func(d time.Time) (string, struct{}) {
		return d.In(loc).Format(dayLayout), struct{}{}
	})
	last := lo.MaxBy(lo.Keys(days), func(a, b string) bool { return a > b })

	now = now.In(loc)
	today := dayStart(now)
	yesterday := today.AddDate(0, 0, -1)
	dayBeforeYesterday := today.AddDate(0, 0, -2)

	start := yesterday
	if _, ok := days[today.Format(dayLayout)]; ok {
		start = today
	}

	status := entity.StreakStatus{Streak: chain(days, start)}
	status.CanRecover = status.Streak == 0 && last == dayBeforeYesterday.Format(dayLayout)
	if status.CanRecover {
		status.PotentialStreak = 1 + chain(days, dayBeforeYesterday)
	}
	return status
}

// RecoveryDate is the timestamp a recovery quiz is recorded under so that the missed
// day closes the gap. It is the same wall-clock time one calendar day earlier in loc
// (UTC when nil), which is not always 24 hours back across a DST change.
func RecoveryDate(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).AddDate(0, 0, -1)
}

// chain counts consecutive days present in days walking backward from start.
func chain(days map[string]struct{}, start time.Time) int {
	count := 0
	for d := start; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d.Format(dayLayout)]; !ok {
			return count
		}
		count++
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
