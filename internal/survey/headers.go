package survey

import "strings"

type column int

const (
	colTerm column = iota
	colCourse
	colSection
	colInstructor
	colListedInstructor
	colUpdatedInstructor
	colOfficeHours
	colInClass
	colGrading
	colTimeCommitment
	colNotes
	colCRN
	colTitle
)

var headerAliases = map[column][]string{
	colTerm:              {"term", "quarter", "semester", "term code", "term_code", "termcode"},
	colCourse:            {"course", "course number", "course_number", "course num", "course_num", "course id", "courseid"},
	colSection:           {"section", "sec"},
	colInstructor:        {"instructor", "instructor name", "professor", "faculty", "instructor_name"},
	colListedInstructor:  {"listed instructor", "listed_instructor"},
	colUpdatedInstructor: {"updated instructor", "updated_instructor"},
	colOfficeHours:       {"office hours", "office_hours", "officehrs", "officehours"},
	colInClass:           {"in class", "in-class", "inclass"},
	colGrading:           {"grading", "grades", "grade"},
	colTimeCommitment:    {"time commitment", "time_commitment", "timecommitment", "time committment"},
	colNotes:             {"notes", "note", "comments", "comment", "other notes", "other_notes", "course notes", "course_notes"},
	colCRN:               {"crn"},
	colTitle:             {"title", "course title", "course_title"},
}

var aliasIndex = func() map[string]column {
	m := map[string]column{}
	for col, names := range headerAliases {
		for _, n := range names {
			m[n] = col
		}
	}
	return m
}()

// headerMap locates known columns in a header row. The first matching
// header wins.
type headerMap map[column]int

func matchHeaders(header []string) headerMap {
	h := headerMap{}
	for i, raw := range header {
		name := strings.ToLower(strings.Join(strings.Fields(strings.TrimPrefix(raw, "\ufeff")), " "))
		col, ok := aliasIndex[name]
		if !ok {
			continue
		}
		if _, dup := h[col]; !dup {
			h[col] = i
		}
	}
	return h
}

// usable reports whether rows under this header can be attributed to a
// course and an instructor.
func (h headerMap) usable() bool {
	_, course := h[colCourse]
	_, a := h[colInstructor]
	_, b := h[colListedInstructor]
	_, c := h[colUpdatedInstructor]
	return course && (a || b || c)
}

func (h headerMap) get(row []string, col column) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var truthy = map[string]bool{
	"y": true, "yes": true, "true": true, "t": true, "1": true,
	"x": true, "✓": true, "✔": true, "check": true, "checked": true,
}

// parseBool reads a survey checkbox cell.
func parseBool(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}
