package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"gta-catalog/internal/domain"
)

const (
	icalUTC   = "20060102T150405Z"
	icalLocal = "20060102T150405"
)

var icalDays = map[string]string{
	"M": "MO",
	"T": "TU",
	"W": "WE",
	"R": "TH",
	"F": "FR",
	"S": "SA",
	"U": "SU",
}

var goDays = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "R",
	time.Friday:    "F",
	time.Saturday:  "S",
	time.Sunday:    "U",
}

// CalendarEvent is the weekly meeting of one section, in local time.
type CalendarEvent struct {
	UID     string
	Summary string
	Room    string
	Notes   string
	ByDay   []string
	Start   time.Time
	End     time.Time
	Until   time.Time
}

// Events builds one recurring event per section of term that has a meeting
// time, a day-set and a date range. The first occurrence is the first
// meeting day on or after the range start. Sections whose range holds no
// meeting day are left out.
func Events(rows []domain.EnrichedCourseSection, term string, loc *time.Location) []CalendarEvent {
	if loc == nil {
		loc = time.UTC
	}
	var out []CalendarEvent
	for _, r := range rows {
		w := r.Normalized
		if r.Term != term || !w.Scheduled() || w.DateStart == "" || w.DateEnd == "" {
			continue
		}
		from, err := time.ParseInLocation(time.DateOnly, w.DateStart, loc)
		if err != nil {
			continue
		}
		to, err := time.ParseInLocation(time.DateOnly, w.DateEnd, loc)
		if err != nil {
			continue
		}

		day, ok := firstMeeting(from, to, w.Days)
		if !ok {
			continue
		}

		byDay := make([]string, 0, len(w.Days))
		for _, d := range w.Days {
			byDay = append(byDay, icalDays[d])
		}

		out = append(out, CalendarEvent{
			UID:     fmt.Sprintf("%s-%s@gta-catalog", r.Term, r.CRN),
			Summary: summary(r.CourseSection),
			Room:    r.Room,
			Notes:   r.Instructor,
			ByDay:   byDay,
			Start:   at(day, w.StartMinutes),
			End:     at(day, w.EndMinutes),
			Until:   to.AddDate(0, 0, 1).Add(-time.Second),
		})
	}
	return out
}

func firstMeeting(from, to time.Time, days []string) (time.Time, bool) {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	for d := from; !d.After(to) && d.Before(from.AddDate(0, 0, 7)); d = d.AddDate(0, 0, 1) {
		if set[goDays[d.Weekday()]] {
			return d, true
		}
	}
	return time.Time{}, false
}

func at(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

func summary(s domain.CourseSection) string {
	parts := []string{s.Course}
	if s.Section != "" {
		parts[0] += "-" + s.Section
	}
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	return strings.Join(parts, " ")
}

// WriteCalendar writes events as an iCalendar file. DTSTAMP is the first
// occurrence so the same input always serializes the same way. Start and end
// carry the TZID of their location so weekly repeats keep local wall time
// across DST changes; UTC events are written in UTC.
func WriteCalendar(w io.Writer, name string, events []CalendarEvent) error {
	cal := ics.NewCalendar()
	cal.SetProductId("-//gta-catalog//schedule//EN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(name)

	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(e.Start.UTC())
		setLocalTime(ev, ics.ComponentPropertyDtStart, e.Start)
		setLocalTime(ev, ics.ComponentPropertyDtEnd, e.End)
		ev.SetSummary(e.Summary)
		if e.Room != "" {
			ev.SetLocation(e.Room)
		}
		if e.Notes != "" {
			ev.SetDescription(e.Notes)
		}
		ev.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
			strings.Join(e.ByDay, ","), e.Until.UTC().Format(icalUTC)))
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func setLocalTime(ev *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	loc := t.Location()
	if loc == time.UTC || loc.String() == "" {
		ev.SetProperty(prop, t.UTC().Format(icalUTC))
		return
	}
	ev.SetProperty(prop, t.Format(icalLocal), &ics.KeyValues{
		Key:   string(ics.ParameterTzid),
		Value: []string{loc.String()},
	})
}
