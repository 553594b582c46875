package enrich

import "gta-catalog/internal/domain"

// Terms returns the distinct terms of rows in order of first appearance.
// For ordered rows that is ascending term order.
func Terms(rows []domain.EnrichedCourseSection) []string {
	var terms []string
	seen := map[string]bool{}
	for _, r := range rows {
		if !seen[r.Term] {
			seen[r.Term] = true
			terms = append(terms, r.Term)
		}
	}
	return terms
}

// ForTerm keeps the rows of one term, preserving order.
func ForTerm(rows []domain.EnrichedCourseSection, term string) []domain.EnrichedCourseSection {
	out := []domain.EnrichedCourseSection{}
	for _, r := range rows {
		if r.Term == term {
			out = append(out, r)
		}
	}
	return out
}

// GTASubset returns the trimmed view of eligible rows, preserving order.
func GTASubset(rows []domain.EnrichedCourseSection) []domain.GTASection {
	out := []domain.GTASection{}
	for _, r := range rows {
		if r.GTAEligible {
			out = append(out, r.GTAView())
		}
	}
	return out
}

// Compatibility is a symmetric CRN x CRN table over GTA-eligible sections of
// one term. Compatible[i][j] is true when sections i and j do not conflict.
type Compatibility struct {
	CRNs       []string
	Compatible [][]bool
}

// CompatibilityMatrix builds the table for the eligible rows of term, in row
// order. Crosslist siblings and the diagonal are always compatible.
func CompatibilityMatrix(rows []domain.EnrichedCourseSection, term string) Compatibility {
	var eligible []domain.EnrichedCourseSection
	for _, r := range rows {
		if r.Term == term && r.GTAEligible {
			eligible = append(eligible, r)
		}
	}

	m := Compatibility{
		CRNs:       make([]string, len(eligible)),
		Compatible: make([][]bool, len(eligible)),
	}
	for i, r := range eligible {
		m.CRNs[i] = r.CRN
		conflicts := make(map[string]bool, len(r.Conflicts))
		for _, c := range r.Conflicts {
			conflicts[c] = true
		}
		m.Compatible[i] = make([]bool, len(eligible))
		for j, o := range eligible {
			m.Compatible[i][j] = !conflicts[o.CRN]
		}
	}
	return m
}
