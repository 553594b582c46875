package history

import (
	"sort"
	"strings"

	"gta-catalog/internal/domain"
)

// TitleMap lists, per course and title, the distinct instructor names of the
// current rows.
func TitleMap(rows []domain.EnrichedCourseSection) domain.CourseTitleInstructors {
	seen := map[string]map[string]map[string]bool{}
	for _, r := range rows {
		course := strings.TrimSpace(r.Course)
		title := strings.TrimSpace(r.Title)
		instructor := strings.TrimSpace(r.Instructor)
		if course == "" || title == "" || instructor == "" {
			continue
		}
		if seen[course] == nil {
			seen[course] = map[string]map[string]bool{}
		}
		if seen[course][title] == nil {
			seen[course][title] = map[string]bool{}
		}
		seen[course][title][instructor] = true
	}

	out := domain.CourseTitleInstructors{}
	for course, titles := range seen {
		out[course] = map[string][]string{}
		for title, names := range titles {
			list := make([]string, 0, len(names))
			for n := range names {
				list = append(list, n)
			}
			sort.Strings(list)
			out[course][title] = list
		}
	}
	return out
}
