package schedule

import (
	"fmt"

	"gta-catalog/internal/domain"
)

// Diagnostics records what Normalize had to discard.
type Diagnostics struct {
	BadTime     bool     // time text present but unusable
	BadDates    bool     // date text present but unusable
	MissingDays bool     // a time range without any recognizable day
	DroppedDays []string // unrecognized day tokens
}

// Degraded reports whether any input was discarded.
func (d Diagnostics) Degraded() bool {
	return d.BadTime || d.BadDates || d.MissingDays || len(d.DroppedDays) > 0
}

// Normalize builds the TimeWindow for one section.
func Normalize(meetingDates, timeRange, days string) (domain.TimeWindow, Diagnostics) {
	var diag Diagnostics
	w := domain.TimeWindow{Days: []string{}}

	daySet, dropped := ParseDays(days)
	w.Days = daySet
	w.DaysCanonical = joinDays(daySet)
	diag.DroppedDays = dropped

	start, end, ok := ParseTimeRange(timeRange)
	switch {
	case ok && len(daySet) == 0:
		diag.MissingDays = true
	case ok:
		w.StartMinutes = start
		w.EndMinutes = end
		w.Start24 = clock(start)
		w.End24 = clock(end)
	case !isBlank(timeRange):
		diag.BadTime = true
	}

	from, to, ok := ParseDateRange(meetingDates)
	if ok {
		w.DateStart = from
		w.DateEnd = to
	} else if !isBlank(meetingDates) {
		diag.BadDates = true
	}

	return w, diag
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
