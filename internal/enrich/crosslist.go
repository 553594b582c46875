package enrich

import (
	"slices"
	"strings"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/partition"
)

type meetingKey struct {
	term       string
	days       string
	start, end int
	instructor string
}

// NormalizeInstructor folds case and collapses whitespace. It is the
// instructor comparison used for crosslisting.
func NormalizeInstructor(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func meetingKeyOf(r domain.EnrichedCourseSection) (meetingKey, bool) {
	inst := NormalizeInstructor(r.Instructor)
	if inst == "" || !r.Normalized.Scheduled() {
		return meetingKey{}, false
	}
	return meetingKey{
		term:       r.Term,
		days:       r.Normalized.DaysCanonical,
		start:      r.Normalized.StartMinutes,
		end:        r.Normalized.EndMinutes,
		instructor: inst,
	}, true
}

// CrosslistGroups partitions rows into crosslist groups. Each group lists
// row indices with the lower section first.
func CrosslistGroups(rows []domain.EnrichedCourseSection) [][]int {
	groups := partition.ByKey(rows, meetingKeyOf)
	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b int) int {
			if c := compareCourse(rows[a].Course, rows[b].Course); c != 0 {
				return c
			}
			return compareCode(rows[a].CRN, rows[b].CRN)
		})
	}
	return groups
}

// ApplyCrosslists fills the crosslist fields of every row and returns the
// number of groups with more than one member.
func ApplyCrosslists(rows []domain.EnrichedCourseSection) int {
	multi := 0
	for _, g := range CrosslistGroups(rows) {
		if len(g) > 1 {
			multi++
		}
		seats, enrolled := 0, 0
		for _, i := range g {
			seats += rows[i].Seats
			enrolled += rows[i].Enrolled
		}
		for pos, i := range g {
			r := &rows[i]
			r.Crosslist = []string{}
			for _, j := range g {
				if j != i {
					r.Crosslist = append(r.Crosslist, rows[j].CRN)
				}
			}
			sortCodes(r.Crosslist)
			r.LowerCrosslist = pos == 0
			r.TotalSeats = seats
			r.TotalEnrollment = enrolled
			r.CrosslistedEnrollment = enrolled - r.Enrolled
		}
	}
	return multi
}
