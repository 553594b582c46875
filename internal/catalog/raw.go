package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gta-catalog/internal/domain"
)

// Text is a scraped field. The fetcher emits strings, but hand-edited
// snapshots also carry numbers, booleans and nulls.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// RawSection is one row as produced by the catalog fetcher.
type RawSection struct {
	Term         Text `json:"term"`
	College      Text `json:"college"`
	SubjectCode  Text `json:"subject_code"`
	SubjectLabel Text `json:"subject_label"`
	CRN          Text `json:"crn"`
	Course       Text `json:"course"`
	Section      Text `json:"section"`
	Title        Text `json:"title"`
	CourseType   Text `json:"course_type"`
	MeetingDates Text `json:"meeting_dates"`
	Time         Text `json:"time"`
	Days         Text `json:"days"`
	Hours        Text `json:"hours"`
	Room         Text `json:"room"`
	Instructor   Text `json:"instructor"`
	Seats        Text `json:"seats"`
	Enrolled     Text `json:"enrolled"`

	ExamMeetingDates Text `json:"exam_meeting_dates"`
	ExamTime         Text `json:"exam_time"`
	ExamDays         Text `json:"exam_days"`
	ExamRoom         Text `json:"exam_room"`
	Description      Text `json:"description"`
}

// ToSection maps a raw row onto a CourseSection. Non-numeric seat and
// enrollment counts become 0; lenient reports whether that happened.
func ToSection(r RawSection) (s domain.CourseSection, lenient bool) {
	seats, okSeats := count(r.Seats.String())
	enrolled, okEnrolled := count(r.Enrolled.String())
	return domain.CourseSection{
		Term:             r.Term.String(),
		College:          r.College.String(),
		SubjectCode:      r.SubjectCode.String(),
		SubjectLabel:     r.SubjectLabel.String(),
		CRN:              r.CRN.String(),
		Course:           r.Course.String(),
		Section:          r.Section.String(),
		Title:            r.Title.String(),
		CourseType:       r.CourseType.String(),
		MeetingDates:     r.MeetingDates.String(),
		Time:             r.Time.String(),
		Days:             r.Days.String(),
		Hours:            r.Hours.String(),
		Room:             r.Room.String(),
		Instructor:       r.Instructor.String(),
		Seats:            seats,
		Enrolled:         enrolled,
		ExamMeetingDates: r.ExamMeetingDates.String(),
		ExamTime:         r.ExamTime.String(),
		ExamDays:         r.ExamDays.String(),
		ExamRoom:         r.ExamRoom.String(),
		Description:      r.Description.String(),
	}, !okSeats || !okEnrolled
}

// count parses "30", "1,024" or "30.0". Blank counts as a clean 0.
func count(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}
