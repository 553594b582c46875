package schedule

import "testing"

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		ok         bool
	}{
		{"10:00AM-11:50AM", 600, 710, true},
		{"10:00 am - 11:50 am", 600, 710, true},
		{"1:00PM-2:15PM", 780, 855, true},
		{"9:00-9:50 AM", 540, 590, true},
		{"11:00-12:15PM", 660, 735, true},
		{"1:00-2:15PM", 780, 855, true},
		{"11:00AM-12:15", 660, 735, true},
		{"9:30 a.m. to 10:45 a.m.", 570, 645, true},
		{"14:00–15:15", 840, 915, true},
		{"12:00PM-12:50PM", 720, 770, true},
		{"12:00AM-1:00AM", 0, 60, true},
		{"TBA", 0, 0, false},
		{"", 0, 0, false},
		{"   ", 0, 0, false},
		{"11:00AM-10:00AM", 0, 0, false},
		{"13:00PM-14:00PM", 0, 0, false},
		{"10:75-11:00", 0, 0, false},
		{"noon", 0, 0, false},
	}

	for _, tt := range tests {
		start, end, ok := ParseTimeRange(tt.in)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("ParseTimeRange(%q): expected (%d, %d, %v), got (%d, %d, %v)",
				tt.in, tt.start, tt.end, tt.ok, start, end, ok)
		}
	}
}
