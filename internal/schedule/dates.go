package schedule

import (
	"regexp"
	"strings"
	"time"
)

var dateSeparatorRe = regexp.MustCompile(`(?i)\s+(?:to|-|–|—)\s+`)

var dateLayouts = []string{
	"02-Jan-2006",
	"2-Jan-2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDateRange parses "06-JAN-2026 to 14-MAR-2026" (and slash or ISO
// forms) into ISO dates. ok is false when either side is unparsable or the
// range runs backwards.
func ParseDateRange(s string) (start, end string, ok bool) {
	if isBlank(s) {
		return "", "", false
	}
	parts := dateSeparatorRe.Split(strings.TrimSpace(s), -1)
	if len(parts) != 2 {
		return "", "", false
	}
	from, ok1 := parseDate(parts[0])
	to, ok2 := parseDate(parts[1])
	if !ok1 || !ok2 || to.Before(from) {
		return "", "", false
	}
	return from.Format(time.DateOnly), to.Format(time.DateOnly), true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
