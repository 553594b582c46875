package domain

// TimeWindow is the canonical meeting schedule of a section.
//
// A window is scheduled when it has both a start and an end time and at least
// one day; EndMinutes is then strictly greater than StartMinutes. Unscheduled
// windows keep whatever day and date information could still be parsed.
type TimeWindow struct {
	Start24       string   `json:"start_24"`
	End24         string   `json:"end_24"`
	StartMinutes  int      `json:"start_minutes"`
	EndMinutes    int      `json:"end_minutes"`
	Days          []string `json:"days"`
	DaysCanonical string   `json:"days_canonical"`
	DateStart     string   `json:"date_start"`
	DateEnd       string   `json:"date_end"`
}

// Scheduled reports whether the window has a usable time range and day-set.
func (w TimeWindow) Scheduled() bool {
	return w.Start24 != "" && w.End24 != "" && len(w.Days) > 0 && w.EndMinutes > w.StartMinutes
}

// SameMeeting reports whether both windows are scheduled with the same
// day-set and the same start and end minutes. Dates are not compared.
func (w TimeWindow) SameMeeting(o TimeWindow) bool {
	if !w.Scheduled() || !o.Scheduled() {
		return false
	}
	return w.DaysCanonical == o.DaysCanonical &&
		w.StartMinutes == o.StartMinutes &&
		w.EndMinutes == o.EndMinutes
}

// SharesDay reports whether the day-sets intersect.
func (w TimeWindow) SharesDay(o TimeWindow) bool {
	for _, a := range w.Days {
		for _, b := range o.Days {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Overlaps uses open intervals: meetings that only touch at an endpoint do
// not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	if !w.Scheduled() || !o.Scheduled() {
		return false
	}
	if !w.SharesDay(o) {
		return false
	}
	return w.StartMinutes < o.EndMinutes && o.StartMinutes < w.EndMinutes
}
