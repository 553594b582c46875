package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

var timeRangeRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(?:m\.?)?\s*(?:-|–|—|to)\s*(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(?:m\.?)?\s*$`)

// ParseTimeRange parses "10:00AM-11:50AM" and its common variants into
// minutes since midnight. A meridiem given on only one side is shared with
// the other side when that keeps the range increasing. Text without any
// meridiem is read as a 24-hour clock. ok is false unless end > start.
func ParseTimeRange(s string) (start, end int, ok bool) {
	if isBlank(s) {
		return 0, 0, false
	}
	m := timeRangeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	h1, m1, ap1 := m[1], m[2], strings.ToLower(m[3])
	h2, m2, ap2 := m[4], m[5], strings.ToLower(m[6])

	switch {
	case ap1 != "" && ap2 != "":
		start, ok1 := toMinutes(h1, m1, ap1)
		end, ok2 := toMinutes(h2, m2, ap2)
		return validRange(start, end, ok1 && ok2)
	case ap1 == "" && ap2 != "":
		end, okEnd := toMinutes(h2, m2, ap2)
		start, okStart := toMinutes(h1, m1, ap2)
		if okStart && start >= end {
			start, okStart = toMinutes(h1, m1, flip(ap2))
		}
		return validRange(start, end, okStart && okEnd)
	case ap1 != "" && ap2 == "":
		start, okStart := toMinutes(h1, m1, ap1)
		end, okEnd := toMinutes(h2, m2, ap1)
		if okEnd && end <= start {
			end, okEnd = toMinutes(h2, m2, flip(ap1))
		}
		return validRange(start, end, okStart && okEnd)
	default:
		start, ok1 := toMinutes(h1, m1, "")
		end, ok2 := toMinutes(h2, m2, "")
		return validRange(start, end, ok1 && ok2)
	}
}

func validRange(start, end int, ok bool) (int, int, bool) {
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// toMinutes converts one clock reading. meridiem is "a", "p" or "" (24-hour).
func toMinutes(hour, minute, meridiem string) (int, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return 0, false
	}
	mi := 0
	if minute != "" {
		if mi, err = strconv.Atoi(minute); err != nil || mi > 59 {
			return 0, false
		}
	}
	switch meridiem {
	case "a", "p":
		if h < 1 || h > 12 {
			return 0, false
		}
		h %= 12
		if meridiem == "p" {
			h += 12
		}
	default:
		if h > 23 {
			return 0, false
		}
	}
	return h*60 + mi, true
}

func flip(meridiem string) string {
	if meridiem == "p" {
		return "a"
	}
	return "p"
}

var placeholders = map[string]bool{"TBA": true, "TBD": true, "ARR": true, "ARRANGED": true, "N/A": true}

// isBlank treats "TBA" and friends the same as empty text.
func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || placeholders[strings.ToUpper(s)]
}
