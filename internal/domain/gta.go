package domain

// GTASection is the trimmed view of an eligible section handed to the GTA
// feed and the compatibility matrix.
type GTASection struct {
	Term                  string   `json:"term"`
	CRN                   string   `json:"crn"`
	Course                string   `json:"course"`
	Section               string   `json:"section"`
	Title                 string   `json:"title"`
	CourseType            string   `json:"course_type"`
	MeetingDates          string   `json:"meeting_dates"`
	Time                  string   `json:"time"`
	Days                  string   `json:"days"`
	Hours                 string   `json:"hours"`
	Room                  string   `json:"room"`
	Instructor            string   `json:"instructor"`
	Seats                 int      `json:"seats"`
	Enrolled              int      `json:"enrolled"`
	CrosslistedEnrollment int      `json:"crosslisted_enrollment"`
	TotalEnrollment       int      `json:"total_enrollment"`
	Crosslist             []string `json:"crosslist"`
	Conflicts             []string `json:"conflicts"`
}

// GTAView trims an enriched section.
func (s EnrichedCourseSection) GTAView() GTASection {
	return GTASection{
		Term:                  s.Term,
		CRN:                   s.CRN,
		Course:                s.Course,
		Section:               s.Section,
		Title:                 s.Title,
		CourseType:            s.CourseType,
		MeetingDates:          s.MeetingDates,
		Time:                  s.Time,
		Days:                  s.Days,
		Hours:                 s.Hours,
		Room:                  s.Room,
		Instructor:            s.Instructor,
		Seats:                 s.Seats,
		Enrolled:              s.Enrolled,
		CrosslistedEnrollment: s.CrosslistedEnrollment,
		TotalEnrollment:       s.TotalEnrollment,
		Crosslist:             s.Crosslist,
		Conflicts:             s.Conflicts,
	}
}
