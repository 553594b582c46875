package history

import (
	"regexp"
	"strings"

	"gta-catalog/internal/domain"
)

// UnknownTitle stands in for a title that neither the survey nor the
// catalog provides.
const UnknownTitle = "Unknown Title"

var (
	bareNumberRe  = regexp.MustCompile(`^\d+[A-Za-z]?$`)
	subjectCodeRe = regexp.MustCompile(`^([A-Za-z]+)\s*(\d+[A-Za-z]?)$`)
)

// catalogIndex is what the merger needs from the current snapshot.
type catalogIndex struct {
	courses map[string]bool
	titles  map[domain.Key]string
}

func indexCatalog(rows []domain.EnrichedCourseSection) catalogIndex {
	idx := catalogIndex{courses: map[string]bool{}, titles: map[domain.Key]string{}}
	for _, r := range rows {
		if c := strings.TrimSpace(r.Course); c != "" {
			idx.courses[c] = true
		}
		if t := strings.TrimSpace(r.Title); t != "" {
			idx.titles[r.Key()] = t
		}
	}
	return idx
}

// courseKey maps a survey course value onto a catalog course string when
// one matches: "1101" becomes "<subject> 1101" and "comp1101" becomes
// "COMP 1101". Values with no match are kept as written.
func (idx catalogIndex) courseKey(course, defaultSubject string) string {
	course = strings.Join(strings.Fields(course), " ")
	if course == "" || idx.courses[course] {
		return course
	}
	if bareNumberRe.MatchString(course) && defaultSubject != "" {
		if c := strings.ToUpper(defaultSubject) + " " + course; idx.courses[c] {
			return c
		}
	}
	if m := subjectCodeRe.FindStringSubmatch(course); m != nil {
		if c := strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2]); idx.courses[c] {
			return c
		}
	}
	return course
}

// title returns the entry's own title, the catalog title of its
// (term, CRN), or UnknownTitle.
func (idx catalogIndex) title(e domain.PreferenceEntry) string {
	if t := strings.TrimSpace(e.Title); t != "" {
		return t
	}
	if t, ok := idx.titles[domain.Key{Term: e.Term, CRN: strings.TrimSpace(e.CRN)}]; ok {
		return t
	}
	return UnknownTitle
}
