package enrich

import (
	"gta-catalog/internal/domain"
)

// ApplyConflicts fills Conflicts for every row. Crosslist fields must already
// be set. It returns the number of conflicting pairs.
func ApplyConflicts(rows []domain.EnrichedCourseSection) int {
	byTerm := map[string][]int{}
	for i := range rows {
		rows[i].Conflicts = []string{}
		if rows[i].Normalized.Scheduled() {
			byTerm[rows[i].Term] = append(byTerm[rows[i].Term], i)
		}
	}

	pairs := 0
	for _, idx := range byTerm {
		for a := 0; a < len(idx); a++ {
			ra := &rows[idx[a]]
			for b := a + 1; b < len(idx); b++ {
				rb := &rows[idx[b]]
				if ra.CRN == rb.CRN || siblings(ra, rb) {
					continue
				}
				if !ra.Normalized.Overlaps(rb.Normalized) {
					continue
				}
				ra.Conflicts = append(ra.Conflicts, rb.CRN)
				rb.Conflicts = append(rb.Conflicts, ra.CRN)
				pairs++
			}
		}
	}
	for i := range rows {
		sortCodes(rows[i].Conflicts)
	}
	return pairs
}

func siblings(a, b *domain.EnrichedCourseSection) bool {
	for _, crn := range a.Crosslist {
		if crn == b.CRN {
			return true
		}
	}
	return false
}
