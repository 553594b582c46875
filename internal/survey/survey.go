// Package survey reads faculty GTA preference workbooks into
// PreferenceEntry values.
//
// Workbooks come from years of hand-edited spreadsheets, so columns are
// located by header synonyms and unreadable files or rows are skipped and
// counted rather than failing the run.
package survey

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gta-catalog/internal/concurrency"
	"gta-catalog/internal/domain"
	"gta-catalog/internal/identity"
)

// ErrNoUsableSheet marks a file in which no sheet has both a course column
// and an instructor column.
var ErrNoUsableSheet = errors.New("survey: no sheet with course and instructor columns")

// Extensions lists the file types LoadDir reads.
var Extensions = []string{".xlsx", ".xlsm", ".csv"}

// Options is the per-run configuration of a Loader.
type Options struct {
	// Terms maps term codes to labels, e.g. "202610" -> "Winter Quarter 2026".
	Terms      map[string]string
	MaxWorkers int
}

// Stats counts what a load read and skipped.
type Stats struct {
	Files        int
	SkippedFiles int
	Sheets       int
	Rows         int
	SkippedRows  int
	Entries      int
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.SkippedFiles += o.SkippedFiles
	s.Sheets += o.Sheets
	s.Rows += o.Rows
	s.SkippedRows += o.SkippedRows
	s.Entries += o.Entries
}

type Loader struct {
	opts  Options
	terms termIndex
	log   *zap.Logger
}

func NewLoader(opts Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{opts: opts, terms: newTermIndex(opts.Terms), log: log}
}

// LoadDir reads every survey file under dir. Entries come back in file path
// order, then sheet and row order. Files that cannot be read are logged and
// skipped. A missing directory yields no entries.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]domain.PreferenceEntry, Stats, error) {
	var st Stats
	paths, err := surveyFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("survey directory missing", zap.String("dir", dir))
			return []domain.PreferenceEntry{}, st, nil
		}
		return nil, st, fmt.Errorf("survey: list %s: %w", dir, err)
	}

	type fileResult struct {
		entries []domain.PreferenceEntry
		stats   Stats
	}
	results, errs := concurrency.ProcessParallel(ctx, paths, concurrency.ParallelOptions{MaxWorkers: l.opts.MaxWorkers},
		func(ctx context.Context, _ int, path string) (fileResult, error) {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			entries, fst, err := l.LoadFile(path, filepath.ToSlash(rel))
			if err != nil {
				return fileResult{}, fmt.Errorf("%s: %w", rel, err)
			}
			return fileResult{entries: entries, stats: fst}, nil
		})
	if err := ctx.Err(); err != nil {
		return nil, st, fmt.Errorf("survey: load %s: %w", dir, err)
	}
	for _, err := range errs {
		l.log.Warn("survey file skipped", zap.Error(err))
	}

	entries := []domain.PreferenceEntry{}
	for _, r := range results {
		entries = append(entries, r.entries...)
		st.add(r.stats)
	}
	st.Files = len(paths)
	st.SkippedFiles = len(errs)

	l.log.Info("surveys loaded",
		zap.String("dir", dir),
		zap.Int("files", st.Files),
		zap.Int("skipped_files", st.SkippedFiles),
		zap.Int("rows", st.Rows),
		zap.Int("skipped_rows", st.SkippedRows),
		zap.Int("entries", st.Entries),
	)
	return entries, st, nil
}

func surveyFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range Extensions {
			if ext == e {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// LoadFile reads one workbook or CSV file. source is recorded as the
// provenance file name.
func (l *Loader) LoadFile(path, source string) ([]domain.PreferenceEntry, Stats, error) {
	var sheets map[string][][]string
	var order []string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		var rows [][]string
		rows, err = readCSV(path)
		sheets, order = map[string][][]string{"": rows}, []string{""}
	} else {
		sheets, order, err = readWorkbook(path)
	}
	if err != nil {
		return nil, Stats{}, err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	st := Stats{Files: 1}
	var entries []domain.PreferenceEntry
	for _, sheet := range order {
		rows := sheets[sheet]
		if len(rows) == 0 {
			continue
		}
		h := matchHeaders(rows[0])
		if !h.usable() {
			continue
		}
		st.Sheets++
		for i, row := range rows[1:] {
			if blankRow(row) {
				continue
			}
			st.Rows++
			e, ok := l.entry(h, row, stem)
			if !ok {
				st.SkippedRows++
				continue
			}
			e.SourceFile = source
			e.SourceSheet = sheet
			e.SourceRow = i + 2
			entries = append(entries, e)
		}
	}
	if st.Sheets == 0 {
		return nil, st, ErrNoUsableSheet
	}
	st.Entries = len(entries)
	return entries, st, nil
}

func (l *Loader) entry(h headerMap, row []string, stem string) (domain.PreferenceEntry, bool) {
	e := domain.PreferenceEntry{
		Course:            h.get(row, colCourse),
		Section:           h.get(row, colSection),
		CRN:               h.get(row, colCRN),
		Title:             h.get(row, colTitle),
		OfficeHours:       parseBool(h.get(row, colOfficeHours)),
		InClass:           parseBool(h.get(row, colInClass)),
		Grading:           parseBool(h.get(row, colGrading)),
		TimeCommitment:    h.get(row, colTimeCommitment),
		Notes:             h.get(row, colNotes),
		Instructor:        h.get(row, colInstructor),
		ListedInstructor:  h.get(row, colListedInstructor),
		UpdatedInstructor: h.get(row, colUpdatedInstructor),
	}
	// Placeholder names such as "TBA" or "Staff" name nobody.
	if e.Course == "" || identity.Key(e.EffectiveInstructor()) == "" {
		return e, false
	}
	switch term := h.get(row, colTerm); {
	case term != "":
		e.Term = l.terms.resolve(term)
	case seasonYear(stem) != "":
		e.Term = l.terms.resolve(stem)
	default:
		e.Term = UnknownTerm
	}
	return e, true
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readWorkbook(path string) (map[string][][]string, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	order := f.GetSheetList()
	sheets := make(map[string][][]string, len(order))
	for _, name := range order {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets[name] = rows
	}
	return sheets, order, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
