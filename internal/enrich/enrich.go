// Package enrich turns a raw catalog snapshot into the ordered set of
// enriched sections: normalized schedules, crosslist groups, conflicts and
// GTA eligibility.
package enrich

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/schedule"
)

// ErrDuplicateCRN marks a snapshot where a CRN repeats within a term.
var ErrDuplicateCRN = errors.New("enrich: duplicate CRN within term")

// Duplicate is one (term, CRN) pair seen more than once.
type Duplicate struct {
	Term  string
	CRN   string
	Count int
}

// IntegrityError reports every duplicate key of a snapshot.
type IntegrityError struct {
	Duplicates []Duplicate
}

func (e *IntegrityError) Error() string {
	parts := make([]string, 0, len(e.Duplicates))
	for _, d := range e.Duplicates {
		parts = append(parts, fmt.Sprintf("%s/%s x%d", d.Term, d.CRN, d.Count))
	}
	return fmt.Sprintf("%v: %s", ErrDuplicateCRN, strings.Join(parts, ", "))
}

func (e *IntegrityError) Unwrap() error { return ErrDuplicateCRN }

// Options is the per-run configuration of the engine.
type Options struct {
	GTAKeywords []string
}

// Stats summarizes one enrichment.
type Stats struct {
	Sections        int
	Terms           int
	Unscheduled     int
	Degraded        int
	CrosslistGroups int
	ConflictPairs   int
	GTAEligible     int
}

// Engine enriches catalog snapshots. It holds no per-run state and is safe
// for concurrent use.
type Engine struct {
	eligibility Eligibility
	log         *zap.Logger
}

func NewEngine(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		eligibility: NewEligibility(opts.GTAKeywords),
		log:         log,
	}
}

// Enrich derives the enriched, ordered section set. The input is not
// modified. A duplicate (term, CRN) returns an *IntegrityError and no rows.
func (e *Engine) Enrich(sections []domain.CourseSection) ([]domain.EnrichedCourseSection, Stats, error) {
	var st Stats
	if err := checkDuplicates(sections); err != nil {
		return nil, st, err
	}

	terms := map[string]bool{}
	rows := make([]domain.EnrichedCourseSection, len(sections))
	for i, s := range sections {
		w, diag := schedule.Normalize(s.MeetingDates, s.Time, s.Days)
		if diag.Degraded() {
			st.Degraded++
			e.log.Debug("schedule text degraded",
				zap.String("term", s.Term),
				zap.String("crn", s.CRN),
				zap.String("time", s.Time),
				zap.String("days", s.Days),
				zap.String("meeting_dates", s.MeetingDates),
				zap.Bool("bad_time", diag.BadTime),
				zap.Bool("bad_dates", diag.BadDates),
				zap.Bool("missing_days", diag.MissingDays),
				zap.Strings("dropped_days", diag.DroppedDays),
			)
		}
		if !w.Scheduled() {
			st.Unscheduled++
		}
		terms[s.Term] = true
		rows[i] = domain.EnrichedCourseSection{CourseSection: s, Normalized: w}
	}

	st.CrosslistGroups = ApplyCrosslists(rows)
	st.ConflictPairs = ApplyConflicts(rows)
	for i := range rows {
		rows[i].GTAEligible = e.eligibility.Eligible(rows[i].CourseSection)
		if rows[i].GTAEligible {
			st.GTAEligible++
		}
	}
	Order(rows)

	st.Sections = len(rows)
	st.Terms = len(terms)
	e.log.Info("enrichment complete",
		zap.Int("sections", st.Sections),
		zap.Int("terms", st.Terms),
		zap.Int("unscheduled", st.Unscheduled),
		zap.Int("degraded", st.Degraded),
		zap.Int("crosslist_groups", st.CrosslistGroups),
		zap.Int("conflict_pairs", st.ConflictPairs),
		zap.Int("gta_eligible", st.GTAEligible),
	)
	return rows, st, nil
}

func checkDuplicates(sections []domain.CourseSection) error {
	counts := map[domain.Key]int{}
	for _, s := range sections {
		counts[s.Key()]++
	}
	var dups []Duplicate
	for k, n := range counts {
		if n > 1 {
			dups = append(dups, Duplicate{Term: k.Term, CRN: k.CRN, Count: n})
		}
	}
	if len(dups) == 0 {
		return nil
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Term != dups[j].Term {
			return dups[i].Term < dups[j].Term
		}
		return compareCode(dups[i].CRN, dups[j].CRN) < 0
	})
	return &IntegrityError{Duplicates: dups}
}
