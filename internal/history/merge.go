// Package history assembles the course -> title -> instructor view of
// preference history.
package history

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/identity"
)

// Options is the per-run configuration of a Merger.
type Options struct {
	// DefaultSubject prefixes bare course numbers found in surveys.
	DefaultSubject string
}

// Merger builds CourseTitleInstructorHistory.
type Merger struct {
	opts Options
	log  *zap.Logger
}

func NewMerger(opts Options, log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{opts: opts, log: log}
}

// Merge files every history entry of every record under its
// (course, title, instructor id) key. Every (course, title) of the current
// rows is present even without history. Entries from terms or courses
// outside rows are kept.
func (m *Merger) Merge(rows []domain.EnrichedCourseSection, dir *identity.Directory) domain.CourseTitleInstructorHistory {
	idx := indexCatalog(rows)
	out := domain.CourseTitleInstructorHistory{}

	for _, r := range rows {
		course := strings.TrimSpace(r.Course)
		if course == "" {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = UnknownTitle
		}
		slot(out, course, title)
	}

	entries, unknownTitles, remapped := 0, 0, 0
	for _, rec := range dir.Records() {
		for _, e := range rec.History {
			course := idx.courseKey(e.Course, m.opts.DefaultSubject)
			if course == "" {
				continue
			}
			if course != strings.TrimSpace(e.Course) {
				remapped++
			}
			title := idx.title(e)
			if title == UnknownTitle {
				unknownTitles++
			}

			titles := slot(out, course, title)
			h, ok := titles[rec.ID]
			if !ok {
				h = domain.InstructorHistory{DisplayName: rec.DisplayName, Aliases: rec.Aliases}
			}
			h.History = append(h.History, e)
			titles[rec.ID] = h
			entries++
		}
	}

	for _, titles := range out {
		for _, instructors := range titles {
			for _, h := range instructors {
				sortBucket(h.History)
			}
		}
	}

	m.log.Info("history merged",
		zap.Int("courses", len(out)),
		zap.Int("entries", entries),
		zap.Int("course_keys_remapped", remapped),
		zap.Int("unknown_titles", unknownTitles),
	)
	return out
}

func slot(out domain.CourseTitleInstructorHistory, course, title string) map[string]domain.InstructorHistory {
	titles, ok := out[course]
	if !ok {
		titles = map[string]map[string]domain.InstructorHistory{}
		out[course] = titles
	}
	instructors, ok := titles[title]
	if !ok {
		instructors = map[string]domain.InstructorHistory{}
		titles[title] = instructors
	}
	return instructors
}

// sortBucket orders the entries of one (course, title, instructor) key by
// term, section, CRN and provenance.
func sortBucket(entries []domain.PreferenceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Term != b.Term {
			return a.Term < b.Term
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.CRN != b.CRN {
			return a.CRN < b.CRN
		}
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		if a.SourceSheet != b.SourceSheet {
			return a.SourceSheet < b.SourceSheet
		}
		return a.SourceRow < b.SourceRow
	})
}
