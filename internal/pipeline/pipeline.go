// Package pipeline runs one batch: load the catalog and the preference
// surveys, enrich, resolve instructors, merge history, then write and
// optionally publish the outputs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gta-catalog/internal/catalog"
	"gta-catalog/internal/config"
	"gta-catalog/internal/domain"
	"gta-catalog/internal/enrich"
	"gta-catalog/internal/export"
	"gta-catalog/internal/history"
	"gta-catalog/internal/httpx"
	"gta-catalog/internal/identity"
	"gta-catalog/internal/logger"
	"gta-catalog/internal/sftpclient"
	"gta-catalog/internal/snapshot"
	"gta-catalog/internal/survey"
)

// LockFile is created in the processed directory while a run holds it.
const LockFile = ".gtacatalog.lock"

// ErrLocked is returned when another run holds the output lock.
var ErrLocked = errors.New("pipeline: another run holds the output lock")

// Pipeline is built once per process from an immutable configuration.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Inputs are the raw sections and survey entries of one run.
type Inputs struct {
	Sections []domain.CourseSection
	Entries  []domain.PreferenceEntry
	Catalog  catalog.Stats
	Survey   survey.Stats
}

// Build is everything derived from Inputs, before anything is written.
type Build struct {
	Inputs
	Sections  []domain.EnrichedCourseSection
	Enrich    enrich.Stats
	Directory *identity.Directory
	History   domain.CourseTitleInstructorHistory
	Titles    domain.CourseTitleInstructors
}

// LoadCatalog reads the configured catalog sources.
func (p *Pipeline) LoadCatalog(ctx context.Context) ([]domain.CourseSection, catalog.Stats, error) {
	client := httpx.NewClient(p.cfg.CatalogTimeout(), p.log)
	return catalog.NewLoader(catalog.Options{
		Sources:  p.cfg.Catalog.Sources,
		Subjects: p.cfg.Catalog.Subjects,
	}, client, p.log).Load(ctx)
}

// LoadSurveys reads every preference workbook under the survey directory.
func (p *Pipeline) LoadSurveys(ctx context.Context) ([]domain.PreferenceEntry, survey.Stats, error) {
	return survey.NewLoader(survey.Options{
		Terms:      p.cfg.Terms,
		MaxWorkers: p.cfg.Survey.Workers,
	}, p.log).LoadDir(ctx, p.cfg.Survey.Dir)
}

// Load reads the catalog and the surveys concurrently.
func (p *Pipeline) Load(ctx context.Context) (Inputs, error) {
	var in Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Sections, in.Catalog, err = p.LoadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Entries, in.Survey, err = p.LoadSurveys(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Enrich runs the enrichment engine and re-checks its output. Either a
// duplicate section or an inconsistent result fails the run.
func (p *Pipeline) Enrich(sections []domain.CourseSection) ([]domain.EnrichedCourseSection, enrich.Stats, error) {
	engine := enrich.NewEngine(enrich.Options{GTAKeywords: p.cfg.GTA.CourseTypes}, p.log)
	rows, st, err := engine.Enrich(sections)
	if err != nil {
		return nil, st, err
	}
	if err := enrich.Check(rows); err != nil {
		return nil, st, err
	}
	return rows, st, nil
}

// Resolve clusters the instructor names of sections and entries.
func (p *Pipeline) Resolve(sections []domain.CourseSection, entries []domain.PreferenceEntry) (*identity.Directory, error) {
	policy, err := identity.ParsePolicy(p.cfg.Identity.DisplayNamePolicy)
	if err != nil {
		return nil, err
	}
	overrides, err := identity.LoadOverrides(p.cfg.Identity.AliasOverrides)
	if err != nil {
		return nil, err
	}
	r := identity.NewResolver(identity.Options{Policy: policy, Overrides: overrides}, p.log)
	return r.Resolve(identity.Mentions(sections, entries))
}

// Build loads and derives everything without writing.
func (p *Pipeline) Build(ctx context.Context) (*Build, error) {
	in, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows, st, err := p.Enrich(in.Sections)
	if err != nil {
		return nil, err
	}
	dir, err := p.Resolve(in.Sections, in.Entries)
	if err != nil {
		return nil, err
	}
	merger := history.NewMerger(history.Options{DefaultSubject: p.cfg.Catalog.DefaultSubject}, p.log)

	return &Build{
		Inputs:    in,
		Sections:  rows,
		Enrich:    st,
		Directory: dir,
		History:   merger.Merge(rows, dir),
		Titles:    history.TitleMap(rows),
	}, nil
}

// RunOptions adjusts a single Run.
type RunOptions struct {
	// SkipUpload suppresses the SFTP step even when it is enabled.
	SkipUpload bool
}

// Summary reports one completed run.
type Summary struct {
	RunID string
	Build *Build
	// FirstRun is set when there was no previous processed snapshot.
	FirstRun bool
	Diff     snapshot.Diff
	Files    []string
	Events   int
	Uploaded int
}

// Run performs a complete batch under the output lock.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	log, runID := logger.WithRunID(p.log)
	run := &Pipeline{cfg: p.cfg, log: log}

	unlock, err := run.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	log.Info("run started",
		zap.Strings("sources", p.cfg.Catalog.Sources),
		zap.String("survey_dir", p.cfg.Survey.Dir),
	)

	b, err := run.Build(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{RunID: runID, Build: b}
	prevPath := filepath.Join(p.cfg.Paths.ProcessedDir, export.AllProcessedFile)
	prev, err := snapshot.Load(prevPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		sum.FirstRun = true
	case err != nil:
		// An unreadable previous snapshot only costs the diff.
		log.Warn("previous snapshot unreadable", zap.String("path", prevPath), zap.Error(err))
		sum.FirstRun = true
	}

	loc, err := p.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	res, err := export.Write(export.Bundle{
		Sections:    b.Sections,
		History:     b.History,
		Instructors: b.Directory.Records(),
		Titles:      b.Titles,
		TermLabels:  p.cfg.Terms,
	}, export.Options{
		ProcessedDir:   p.cfg.Paths.ProcessedDir,
		ExportDir:      p.cfg.Paths.ExportDir,
		Location:       loc,
		Archive:        p.cfg.Archive.Enabled,
		ArchiveQuality: p.cfg.Archive.Quality,
	}, log)
	if err != nil {
		return nil, err
	}
	sum.Files, sum.Events = res.Files, res.Events

	if !sum.FirstRun {
		sum.Diff = snapshot.Compare(prev, b.Sections)
		log.Info("snapshot diff",
			zap.Int("added", len(sum.Diff.Added)),
			zap.Int("removed", len(sum.Diff.Removed)),
			zap.Int("changed", len(sum.Diff.Changed)),
		)
	}

	if p.cfg.SFTP.Enabled && !opts.SkipUpload {
		n, err := run.publish(ctx, res.Files)
		if err != nil {
			return sum, err
		}
		sum.Uploaded = n
	}

	log.Info("run finished",
		zap.Int("sections", b.Enrich.Sections),
		zap.Int("instructors", len(b.Directory.Records())),
		zap.Int("files", len(sum.Files)),
	)
	return sum, nil
}

func (p *Pipeline) lock() (func(), error) {
	dir := p.cfg.Paths.ProcessedDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create %s: %w", dir, err)
	}
	l := flock.New(filepath.Join(dir, LockFile))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("pipeline: acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := l.Unlock(); err != nil {
			p.log.Warn("release lock", zap.Error(err))
		}
	}, nil
}

// publish uploads the files committed to the export directory.
func (p *Pipeline) publish(ctx context.Context, files []string) (int, error) {
	exportDir := filepath.Clean(p.cfg.Paths.ExportDir)
	var up []sftpclient.File
	for _, f := range files {
		if filepath.Dir(f) == exportDir {
			up = append(up, sftpclient.File{LocalPath: f, RemoteName: filepath.Base(f)})
		}
	}

	s := p.cfg.SFTP
	err := sftpclient.UploadFiles(ctx, sftpclient.Config{
		Host:                  s.Host,
		Port:                  s.Port,
		User:                  s.User,
		Pass:                  s.Pass,
		RemoteDir:             s.Dir,
		KnownHostsFile:        s.KnownHosts,
		InsecureIgnoreHostKey: s.InsecureIgnoreHostKey,
	}, up, p.log)
	if err != nil {
		return 0, err
	}
	return len(up), nil
}
