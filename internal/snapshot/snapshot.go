// Package snapshot compares two processed section sets so a run can report
// what moved since the previous one.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"

	"gta-catalog/internal/domain"
)

// Entry identifies a section that appeared or disappeared.
type Entry struct {
	Term   string `json:"term"`
	CRN    string `json:"crn"`
	Course string `json:"course"`
	Title  string `json:"title"`
}

// Change is a section present in both sets whose compared fields differ.
type Change struct {
	Entry
	Fields []string `json:"fields"`
}

// Diff is keyed by (term, CRN) and sorted by term then CRN.
type Diff struct {
	Added   []Entry  `json:"added"`
	Removed []Entry  `json:"removed"`
	Changed []Change `json:"changed"`
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare returns what changed from prev to curr.
func Compare(prev, curr []domain.EnrichedCourseSection) Diff {
	prevByKey := make(map[domain.Key]domain.EnrichedCourseSection, len(prev))
	for _, s := range prev {
		prevByKey[s.Key()] = s
	}
	currByKey := make(map[domain.Key]domain.EnrichedCourseSection, len(curr))
	for _, s := range curr {
		currByKey[s.Key()] = s
	}

	d := Diff{Added: []Entry{}, Removed: []Entry{}, Changed: []Change{}}
	for k, c := range currByKey {
		p, ok := prevByKey[k]
		if !ok {
			d.Added = append(d.Added, entryOf(c))
			continue
		}
		if fields := changedFields(p, c); len(fields) > 0 {
			d.Changed = append(d.Changed, Change{Entry: entryOf(c), Fields: fields})
		}
	}
	for k, p := range prevByKey {
		if _, ok := currByKey[k]; !ok {
			d.Removed = append(d.Removed, entryOf(p))
		}
	}

	slices.SortFunc(d.Added, compareEntry)
	slices.SortFunc(d.Removed, compareEntry)
	slices.SortFunc(d.Changed, func(a, b Change) int { return compareEntry(a.Entry, b.Entry) })
	return d
}

func entryOf(s domain.EnrichedCourseSection) Entry {
	return Entry{Term: s.Term, CRN: s.CRN, Course: s.Course, Title: s.Title}
}

func compareEntry(a, b Entry) int {
	if c := strings.Compare(a.Term, b.Term); c != 0 {
		return c
	}
	return strings.Compare(a.CRN, b.CRN)
}

// changedFields lists the JSON names of the fields that differ. Text is
// compared case-insensitively with surrounding space ignored.
func changedFields(p, c domain.EnrichedCourseSection) []string {
	var out []string
	text := []struct {
		name string
		a, b string
	}{
		{"course", p.Course, c.Course},
		{"section", p.Section, c.Section},
		{"title", p.Title, c.Title},
		{"course_type", p.CourseType, c.CourseType},
		{"meeting_dates", p.MeetingDates, c.MeetingDates},
		{"time", p.Time, c.Time},
		{"days", p.Days, c.Days},
		{"room", p.Room, c.Room},
		{"instructor", p.Instructor, c.Instructor},
	}
	for _, f := range text {
		if norm(f.a) != norm(f.b) {
			out = append(out, f.name)
		}
	}
	if p.Seats != c.Seats {
		out = append(out, "seats")
	}
	if p.Enrolled != c.Enrolled {
		out = append(out, "enrolled")
	}
	if !slices.Equal(p.Crosslist, c.Crosslist) {
		out = append(out, "crosslist")
	}
	if !slices.Equal(p.Conflicts, c.Conflicts) {
		out = append(out, "conflicts")
	}
	if p.GTAEligible != c.GTAEligible {
		out = append(out, "gta_eligible")
	}
	return out
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Load reads a processed section file. Names ending in ".br" are brotli
// compressed. A missing file returns an error satisfying
// errors.Is(err, os.ErrNotExist).
func Load(path string) ([]domain.EnrichedCourseSection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".br") {
		r = brotli.NewReader(f)
	}

	var rows []domain.EnrichedCourseSection
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return rows, nil
}
