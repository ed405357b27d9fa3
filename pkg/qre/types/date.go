package types

import (
	"sort"
	"time"
)

// DateLayout is the MM/dd/yyyy layout used for every date in a document.
const DateLayout = "01/02/2006"

// DefaultWorkingDate returns now's date, or the preceding Friday when now falls on a weekend.
func DefaultWorkingDate(now time.Time) string {
	switch now.Weekday() {
	case time.Saturday:
		now = now.AddDate(0, 0, -1)
	case time.Sunday:
		now = now.AddDate(0, 0, -2)
	}
	return now.Format(DateLayout)
}

// ParseDate parses a MM/dd/yyyy date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// EventsRecentFirst returns a copy of events ordered by date, latest first.
// Events with unparsable dates sort last; ties keep document order.
func EventsRecentFirst(events []*ReportEvent) []*ReportEvent {
	out := append([]*ReportEvent(nil), events...)
	key := func(e *ReportEvent) time.Time {
		t, err := ParseDate(e.Date)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]).After(key(out[j])) })
	return out
}
