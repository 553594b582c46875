package domain

// CourseSection is one scheduled offering from a catalog snapshot.
// (Term, CRN) identifies it. Sections are never mutated after enrichment;
// EnrichedCourseSection layers derived fields on top.
type CourseSection struct {
	Term         string `json:"term"`
	College      string `json:"college"`
	SubjectCode  string `json:"subject_code"`
	SubjectLabel string `json:"subject_label"`
	CRN          string `json:"crn"`
	Course       string `json:"course"`
	Section      string `json:"section"`
	Title        string `json:"title"`
	CourseType   string `json:"course_type"`
	MeetingDates string `json:"meeting_dates"`
	Time         string `json:"time"`
	Days         string `json:"days"`
	Hours        string `json:"hours"`
	Room         string `json:"room"`
	Instructor   string `json:"instructor"`
	Seats        int    `json:"seats"`
	Enrolled     int    `json:"enrolled"`

	ExamMeetingDates string `json:"exam_meeting_dates"`
	ExamTime         string `json:"exam_time"`
	ExamDays         string `json:"exam_days"`
	ExamRoom         string `json:"exam_room"`
	Description      string `json:"description"`
}

// EnrichedCourseSection is a CourseSection plus everything the enrichment
// engine derives for it. JSON output flattens the raw fields alongside.
type EnrichedCourseSection struct {
	CourseSection

	Normalized TimeWindow `json:"normalized"`

	// Crosslist holds sibling CRNs (self excluded), ascending.
	Crosslist             []string `json:"crosslist"`
	LowerCrosslist        bool     `json:"lower_crosslist"`
	CrosslistedEnrollment int      `json:"crosslisted_enrollment"`
	TotalEnrollment       int      `json:"total_enrollment"`
	TotalSeats            int      `json:"total_seats"`

	Conflicts   []string `json:"conflicts"`
	GTAEligible bool     `json:"gta_eligible"`
}

// Key is the (term, CRN) identity of a section.
type Key struct {
	Term string
	CRN  string
}

func (s CourseSection) Key() Key {
	return Key{Term: s.Term, CRN: s.CRN}
}
