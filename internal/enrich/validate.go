package enrich

import (
	"errors"
	"fmt"
	"slices"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/schedule"
)

// ErrInvalidOutput marks an enriched set that fails Validate.
var ErrInvalidOutput = errors.New("enrich: enriched output failed validation")

// Issue is one failed check on one section.
type Issue struct {
	Term   string
	CRN    string
	Check  string
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s/%s %s: %s", i.Term, i.CRN, i.Check, i.Detail)
}

// ValidationError carries every issue found.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%v: %s", ErrInvalidOutput, e.Issues[0])
	}
	return fmt.Sprintf("%v: %d issues, first: %s", ErrInvalidOutput, len(e.Issues), e.Issues[0])
}

func (e *ValidationError) Unwrap() error { return ErrInvalidOutput }

// Check runs Validate and wraps any issues in a *ValidationError.
func Check(rows []domain.EnrichedCourseSection) error {
	if issues := Validate(rows); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Validate re-derives the enrichment from the raw fields of rows and checks
// the stored values against it, along with the structural properties of the
// crosslist and conflict relations and the row order.
func Validate(rows []domain.EnrichedCourseSection) []Issue {
	var issues []Issue
	add := func(r domain.EnrichedCourseSection, check, format string, args ...any) {
		issues = append(issues, Issue{Term: r.Term, CRN: r.CRN, Check: check, Detail: fmt.Sprintf(format, args...)})
	}

	if err := checkDuplicates(sectionsOf(rows)); err != nil {
		var ie *IntegrityError
		if errors.As(err, &ie) {
			for _, d := range ie.Duplicates {
				issues = append(issues, Issue{Term: d.Term, CRN: d.CRN, Check: "identity", Detail: fmt.Sprintf("CRN appears %d times", d.Count)})
			}
		}
		return issues
	}

	byKey := make(map[domain.Key]domain.EnrichedCourseSection, len(rows))
	for _, r := range rows {
		byKey[r.Key()] = r
	}

	// Structural checks on the stored relations.
	for _, r := range rows {
		lowers := 0
		if r.LowerCrosslist {
			lowers++
		}
		seats, enrolled := r.Seats, r.Enrolled
		for _, sib := range r.Crosslist {
			o, ok := byKey[domain.Key{Term: r.Term, CRN: sib}]
			if !ok {
				add(r, "crosslist", "sibling %s not in term", sib)
				continue
			}
			if !slices.Contains(o.Crosslist, r.CRN) {
				add(r, "crosslist", "sibling %s does not list it back", sib)
			}
			for _, third := range o.Crosslist {
				if third != r.CRN && !slices.Contains(r.Crosslist, third) {
					add(r, "crosslist", "%s is a sibling of %s but not of this section", third, sib)
				}
			}
			if o.LowerCrosslist {
				lowers++
			}
			seats += o.Seats
			enrolled += o.Enrolled
		}
		if lowers != 1 {
			add(r, "lower_crosslist", "group has %d lower sections", lowers)
		}
		if r.TotalSeats != seats {
			add(r, "total_seats", "got %d, group sum %d", r.TotalSeats, seats)
		}
		if r.TotalEnrollment != enrolled {
			add(r, "total_enrollment", "got %d, group sum %d", r.TotalEnrollment, enrolled)
		}
		if r.CrosslistedEnrollment != enrolled-r.Enrolled {
			add(r, "crosslisted_enrollment", "got %d, siblings sum %d", r.CrosslistedEnrollment, enrolled-r.Enrolled)
		}
		for _, c := range r.Conflicts {
			if c == r.CRN {
				add(r, "conflicts", "lists itself")
			}
			if slices.Contains(r.Crosslist, c) {
				add(r, "conflicts", "sibling %s listed as conflict", c)
			}
			o, ok := byKey[domain.Key{Term: r.Term, CRN: c}]
			if !ok {
				add(r, "conflicts", "conflict %s not in term", c)
				continue
			}
			if !slices.Contains(o.Conflicts, r.CRN) {
				add(r, "conflicts", "conflict %s is not symmetric", c)
			}
		}
	}

	// Recompute from the raw fields.
	fresh := make([]domain.EnrichedCourseSection, len(rows))
	for i, r := range rows {
		w, _ := schedule.Normalize(r.MeetingDates, r.Time, r.Days)
		fresh[i] = domain.EnrichedCourseSection{CourseSection: r.CourseSection, Normalized: w}
	}
	ApplyCrosslists(fresh)
	ApplyConflicts(fresh)
	for i, r := range rows {
		f := fresh[i]
		if !slices.Equal(r.Crosslist, f.Crosslist) {
			add(r, "crosslist", "stored %v, recomputed %v", r.Crosslist, f.Crosslist)
		}
		if r.LowerCrosslist != f.LowerCrosslist {
			add(r, "lower_crosslist", "stored %v, recomputed %v", r.LowerCrosslist, f.LowerCrosslist)
		}
		if !slices.Equal(r.Conflicts, f.Conflicts) {
			add(r, "conflicts", "stored %v, recomputed %v", r.Conflicts, f.Conflicts)
		}
	}

	for i := 1; i < len(rows); i++ {
		if CompareSections(rows[i-1].CourseSection, rows[i].CourseSection) > 0 {
			add(rows[i], "order", "sorts before %s/%s", rows[i-1].Term, rows[i-1].CRN)
		}
	}
	return issues
}

func sectionsOf(rows []domain.EnrichedCourseSection) []domain.CourseSection {
	out := make([]domain.CourseSection, len(rows))
	for i, r := range rows {
		out[i] = r.CourseSection
	}
	return out
}
