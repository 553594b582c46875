package domain

import "testing"

func window(days string, start, end int) TimeWindow {
	w := TimeWindow{DaysCanonical: days, StartMinutes: start, EndMinutes: end}
	for _, r := range days {
		w.Days = append(w.Days, string(r))
	}
	if end > 0 {
		w.Start24 = "x"
		w.End24 = "x"
	}
	return w
}

func TestTimeWindowOverlaps(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     TimeWindow
		expected bool
	}{
		{"same meeting", window("MWF", 540, 590), window("MWF", 540, 590), true},
		{"partial overlap", window("MWF", 540, 590), window("MW", 570, 620), true},
		{"back to back", window("MWF", 540, 590), window("MWF", 590, 640), false},
		{"disjoint days", window("MWF", 540, 590), window("TR", 540, 590), false},
		{"unscheduled", window("MWF", 540, 590), TimeWindow{}, false},
		{"contained", window("R", 600, 780), window("TR", 660, 700), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tc.expected)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestTimeWindowSameMeeting(t *testing.T) {
	a := window("MWF", 540, 590)
	b := window("MWF", 540, 590)
	b.DateStart = "2026-01-05"
	if !a.SameMeeting(b) {
		t.Errorf("Expected windows differing only in dates to be the same meeting")
	}
	if a.SameMeeting(window("MW", 540, 590)) {
		t.Errorf("Expected different day-sets to differ")
	}
	if (TimeWindow{}).SameMeeting(TimeWindow{}) {
		t.Errorf("Expected unscheduled windows never to match")
	}
}

func TestEffectiveInstructor(t *testing.T) {
	testCases := []struct {
		entry    PreferenceEntry
		expected string
	}{
		{PreferenceEntry{Instructor: "A", ListedInstructor: "B", UpdatedInstructor: "C"}, "C"},
		{PreferenceEntry{Instructor: "A", ListedInstructor: " B "}, "B"},
		{PreferenceEntry{Instructor: "A", UpdatedInstructor: "  "}, "A"},
		{PreferenceEntry{}, ""},
	}
	for _, tc := range testCases {
		if got := tc.entry.EffectiveInstructor(); got != tc.expected {
			t.Errorf("EffectiveInstructor() = %q, want %q", got, tc.expected)
		}
	}
}
