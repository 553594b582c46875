// Package catalog loads raw course section snapshots from local files or
// remote URLs.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/httpx"
)

// Options is the per-run configuration of a Loader.
type Options struct {
	// Sources are files, directories, glob patterns or http(s) URLs. Files
	// ending in .br are brotli-compressed.
	Sources []string
	// Subjects keeps only rows with these subject codes. Empty keeps all.
	Subjects []string
}

// Stats counts what a load read and dropped.
type Stats struct {
	Sources    int
	Rows       int
	Kept       int
	NoCRN      int
	OffSubject int
	Lenient    int
}

type Loader struct {
	opts Options
	http *httpx.Client
	log  *zap.Logger
}

func NewLoader(opts Options, client *httpx.Client, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{opts: opts, http: client, log: log}
}

// Load reads every source in order and returns the mapped sections. Any
// unreadable source fails the whole load.
func (l *Loader) Load(ctx context.Context) ([]domain.CourseSection, Stats, error) {
	var st Stats
	locations, err := expand(l.opts.Sources)
	if err != nil {
		return nil, st, err
	}
	if len(locations) == 0 {
		return nil, st, fmt.Errorf("catalog: no sources matched %v", l.opts.Sources)
	}

	subjects := map[string]bool{}
	for _, s := range l.opts.Subjects {
		subjects[strings.ToUpper(strings.TrimSpace(s))] = true
	}

	sections := []domain.CourseSection{}
	for _, loc := range locations {
		raw, err := l.read(ctx, loc)
		if err != nil {
			return nil, st, err
		}
		st.Sources++
		for _, r := range raw {
			st.Rows++
			s, lenient := ToSection(r)
			if s.CRN == "" {
				st.NoCRN++
				l.log.Warn("row without CRN dropped", zap.String("source", loc), zap.String("course", s.Course), zap.String("section", s.Section))
				continue
			}
			if len(subjects) > 0 && !subjects[strings.ToUpper(s.SubjectCode)] {
				st.OffSubject++
				continue
			}
			if lenient {
				st.Lenient++
				l.log.Debug("non-numeric seat counts read as 0", zap.String("term", s.Term), zap.String("crn", s.CRN))
			}
			sections = append(sections, s)
		}
	}
	st.Kept = len(sections)

	l.log.Info("catalog loaded",
		zap.Int("sources", st.Sources),
		zap.Int("rows", st.Rows),
		zap.Int("kept", st.Kept),
		zap.Int("no_crn", st.NoCRN),
		zap.Int("off_subject", st.OffSubject),
		zap.Int("lenient_counts", st.Lenient),
	)
	return sections, st, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// expand resolves directories and globs into sorted file lists, keeping the
// order of sources. A directory contributes its *.json and *.json.br files.
func expand(sources []string) ([]string, error) {
	var out []string
	for _, src := range sources {
		src = strings.TrimSpace(src)
		switch {
		case src == "":
		case isURL(src):
			out = append(out, src)
		default:
			if fi, err := os.Stat(src); err == nil && fi.IsDir() {
				var matches []string
				for _, pattern := range []string{"*.json", "*.json.br"} {
					m, err := filepath.Glob(filepath.Join(src, pattern))
					if err != nil {
						return nil, fmt.Errorf("catalog: list %s: %w", src, err)
					}
					matches = append(matches, m...)
				}
				sort.Strings(matches)
				out = append(out, matches...)
				continue
			}
			matches, err := filepath.Glob(src)
			if err != nil {
				return nil, fmt.Errorf("catalog: bad pattern %q: %w", src, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("catalog: source %s: %w", src, os.ErrNotExist)
			}
			sort.Strings(matches)
			out = append(out, matches...)
		}
	}
	return out, nil
}

func (l *Loader) read(ctx context.Context, loc string) ([]RawSection, error) {
	var data []byte
	var err error
	if isURL(loc) {
		if l.http == nil {
			return nil, fmt.Errorf("catalog: %s: no http client configured", loc)
		}
		data, err = l.http.Get(ctx, loc)
	} else {
		data, err = os.ReadFile(loc)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", loc, err)
	}
	if strings.HasSuffix(strings.ToLower(loc), ".br") {
		if data, err = io.ReadAll(brotli.NewReader(bytes.NewReader(data))); err != nil {
			return nil, fmt.Errorf("catalog: decompress %s: %w", loc, err)
		}
	}

	var rows []RawSection
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", loc, err)
	}
	return rows, nil
}
