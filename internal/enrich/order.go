package enrich

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gta-catalog/internal/domain"
)

var courseNumberRe = regexp.MustCompile(`\d+`)

// CourseNumber extracts the numeric part of a course string such as
// "COMP 1101".
func CourseNumber(course string) (int, bool) {
	m := courseNumberRe.FindString(course)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// compareCourse orders by course number, courses without one last, then by
// the full course string.
func compareCourse(a, b string) int {
	na, okA := CourseNumber(a)
	nb, okB := CourseNumber(b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && na != nb:
		return cmp.Compare(na, nb)
	}
	return strings.Compare(a, b)
}

// compareCode orders section codes and CRNs numerically when both sides are
// integers, otherwise lexically.
func compareCode(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		return cmp.Compare(na, nb)
	}
	return strings.Compare(a, b)
}

// CompareSections is the total output order: term, course number, section
// code, CRN.
func CompareSections(a, b domain.CourseSection) int {
	if c := strings.Compare(a.Term, b.Term); c != 0 {
		return c
	}
	if c := compareCourse(a.Course, b.Course); c != 0 {
		return c
	}
	if c := compareCode(a.Section, b.Section); c != 0 {
		return c
	}
	return compareCode(a.CRN, b.CRN)
}

// Order sorts rows in place into output order.
func Order(rows []domain.EnrichedCourseSection) {
	slices.SortStableFunc(rows, func(a, b domain.EnrichedCourseSection) int {
		return CompareSections(a.CourseSection, b.CourseSection)
	})
}

func sortCodes(codes []string) {
	slices.SortFunc(codes, compareCode)
}
