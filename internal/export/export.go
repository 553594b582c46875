// Package export writes every derived artifact of a run. Files are staged
// and only renamed into the output directories after all of them were
// written.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/enrich"
)

// Bundle is everything one run produces.
type Bundle struct {
	Sections    []domain.EnrichedCourseSection
	History     domain.CourseTitleInstructorHistory
	Instructors []domain.InstructorRecord
	Titles      domain.CourseTitleInstructors
	// TermLabels names calendars; terms without a label use the code.
	TermLabels map[string]string
}

// Options places and shapes the outputs.
type Options struct {
	ProcessedDir   string
	ExportDir      string
	Location       *time.Location
	Archive        bool
	ArchiveQuality int
}

// Result lists what was committed.
type Result struct {
	Files  []string
	Events int
}

// ErrTermNameClash is returned when two terms map to the same file names.
var ErrTermNameClash = errors.New("export: terms share file names")

type job struct {
	stage *Stage
	name  string
	write func(w io.Writer) error
}

// Write stages and commits all artifacts. Processed snapshots, GTA records
// and instructor history go to ProcessedDir; feeds, matrices and calendars go
// to ExportDir. If any artifact fails to write, nothing is committed.
func Write(b Bundle, opts Options, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	processed, err := NewStage(opts.ProcessedDir)
	if err != nil {
		return Result{}, err
	}
	exports, err := NewStage(opts.ExportDir)
	if err != nil {
		processed.Abort()
		return Result{}, err
	}
	abort := func(err error) (Result, error) {
		return Result{}, errors.Join(err, processed.Abort(), exports.Abort())
	}

	sections := b.Sections
	if sections == nil {
		sections = []domain.EnrichedCourseSection{}
	}
	hist := b.History
	if hist == nil {
		hist = domain.CourseTitleInstructorHistory{}
	}
	records := b.Instructors
	if records == nil {
		records = []domain.InstructorRecord{}
	}
	titles := b.Titles
	if titles == nil {
		titles = domain.CourseTitleInstructors{}
	}

	jobs := []job{
		{processed, AllProcessedFile, func(w io.Writer) error { return WriteJSON(w, sections) }},
		{processed, HistoryFile, func(w io.Writer) error { return WriteJSON(w, hist) }},
		{processed, InstructorRecordsFile, func(w io.Writer) error { return WriteJSON(w, records) }},
		{processed, TitleMapFile, func(w io.Writer) error { return WriteJSON(w, titles) }},
	}
	if opts.Archive {
		jobs = append(jobs, job{processed, ArchiveFile, func(w io.Writer) error {
			return WriteArchive(w, sections, opts.ArchiveQuality)
		}})
	}

	terms := enrich.Terms(sections)
	byPart := make(map[string]string, len(terms))
	for _, term := range terms {
		if prev, ok := byPart[termPart(term)]; ok {
			return abort(fmt.Errorf("%w: %q and %q both write %s", ErrTermNameClash, prev, term, TermProcessedFile(term)))
		}
		byPart[termPart(term)] = term
	}

	events := 0
	for _, term := range terms {
		rows := enrich.ForTerm(sections, term)
		gta := enrich.GTASubset(rows)
		matrix := enrich.CompatibilityMatrix(rows, term)
		evs := Events(rows, term, opts.Location)
		events += len(evs)

		name := term
		if label := b.TermLabels[term]; label != "" {
			name = label
		}

		jobs = append(jobs,
			job{processed, TermProcessedFile(term), func(w io.Writer) error { return WriteJSON(w, rows) }},
			job{processed, GTAEligibleFile(term), func(w io.Writer) error { return WriteJSON(w, gta) }},
			job{exports, GTAFeedFile(term, ".csv"), func(w io.Writer) error { return WriteFeedCSV(w, term, gta) }},
			job{exports, GTAFeedFile(term, ".xlsx"), func(w io.Writer) error { return WriteFeedWorkbook(w, term, gta) }},
			job{exports, CompatibilityFile(term), func(w io.Writer) error { return WriteCompatibilityCSV(w, matrix) }},
			job{exports, CalendarFile(term), func(w io.Writer) error { return WriteCalendar(w, name, evs) }},
		)
	}

	for _, j := range jobs {
		if err := j.stage.Write(j.name, j.write); err != nil {
			return abort(err)
		}
	}

	files, err := processed.Commit()
	if err != nil {
		return abort(err)
	}
	more, err := exports.Commit()
	if err != nil {
		return Result{Files: files}, errors.Join(err, exports.Abort())
	}
	files = append(files, more...)

	log.Info("exports written",
		zap.Int("files", len(files)),
		zap.Int("calendar_events", events),
		zap.String("processed_dir", opts.ProcessedDir),
		zap.String("export_dir", opts.ExportDir),
	)
	return Result{Files: files, Events: events}, nil
}
