// Package identity clusters raw instructor spellings into canonical
// instructor records.
//
// Clustering is deliberately simple: spellings that share a Key join one
// record. Different people who share a key are merged and spellings that
// diverge further are split; both stay visible through the alias lists and
// are corrected with Overrides.
package identity

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gta-catalog/internal/domain"
)

// uuidSpace namespaces the name-based UUID of each record.
var uuidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gta-catalog/instructor"))

// Mention is one observation of a raw instructor name.
type Mention struct {
	Raw string
	// Official marks names taken from the course catalog.
	Official bool
	// Entry is the survey row the name came from, if any.
	Entry *domain.PreferenceEntry
}

// Mentions lists the catalog names of sections followed by the effective
// instructor of every survey entry, in input order.
func Mentions(sections []domain.CourseSection, entries []domain.PreferenceEntry) []Mention {
	out := make([]Mention, 0, len(sections)+len(entries))
	for _, s := range sections {
		out = append(out, Mention{Raw: s.Instructor, Official: true})
	}
	for i := range entries {
		out = append(out, Mention{Raw: entries[i].EffectiveInstructor(), Entry: &entries[i]})
	}
	return out
}

// Options is the per-run configuration of a Resolver.
type Options struct {
	Policy    Policy
	Overrides Overrides
}

// Resolver builds instructor Directories.
type Resolver struct {
	opts Options
	log  *zap.Logger
}

func NewResolver(opts Options, log *zap.Logger) *Resolver {
	if opts.Policy == "" {
		opts.Policy = PolicyLongest
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{opts: opts, log: log}
}

// Directory is the resolved set of instructor records.
type Directory struct {
	records []domain.InstructorRecord
	byID    map[string]int
}

type cluster struct {
	spellings []spelling
	index     map[string]int
	history   []domain.PreferenceEntry
}

// Resolve clusters mentions into records. Names without identity are
// ignored. The result depends only on the sequence of mentions and the
// options.
func (r *Resolver) Resolve(mentions []Mention) (*Directory, error) {
	redirect, err := r.opts.Overrides.redirects()
	if err != nil {
		return nil, err
	}

	clusters := map[string]*cluster{}
	skipped := 0
	for _, m := range mentions {
		raw := strings.TrimSpace(m.Raw)
		id := Key(raw)
		if id == "" {
			skipped++
			continue
		}
		if target, ok := redirect[id]; ok {
			r.log.Debug("alias override applied", zap.String("raw", raw), zap.String("key", id), zap.String("id", target))
			id = target
		}
		c := clusters[id]
		if c == nil {
			c = &cluster{index: map[string]int{}}
			clusters[id] = c
		}
		if i, ok := c.index[raw]; ok {
			c.spellings[i].count++
			c.spellings[i].official = c.spellings[i].official || m.Official
		} else {
			c.index[raw] = len(c.spellings)
			c.spellings = append(c.spellings, spelling{raw: raw, count: 1, official: m.Official})
		}
		if m.Entry != nil {
			c.history = append(c.history, *m.Entry)
		}
	}

	ids := make([]string, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	d := &Directory{byID: make(map[string]int, len(ids))}
	for _, id := range ids {
		c := clusters[id]
		display := r.opts.Policy.choose(c.spellings)
		if pinned := strings.TrimSpace(r.opts.Overrides.Display[id]); pinned != "" {
			display = pinned
		}
		aliases := make([]string, 0, len(c.spellings)+1)
		for _, s := range c.spellings {
			aliases = append(aliases, s.raw)
		}
		if _, ok := c.index[display]; !ok {
			aliases = append(aliases, display)
		}
		sort.Strings(aliases)
		SortEntries(c.history)

		d.byID[id] = len(d.records)
		d.records = append(d.records, domain.InstructorRecord{
			ID:          id,
			UUID:        uuid.NewSHA1(uuidSpace, []byte(id)).String(),
			DisplayName: display,
			Aliases:     aliases,
			History:     nonNil(c.history),
		})
	}

	r.log.Info("instructors resolved",
		zap.Int("mentions", len(mentions)),
		zap.Int("records", len(d.records)),
		zap.Int("skipped", skipped),
		zap.String("policy", string(r.opts.Policy)),
	)
	return d, nil
}

// Records returns every record ordered by id.
func (d *Directory) Records() []domain.InstructorRecord {
	return d.records
}

// Record looks up a record by id.
func (d *Directory) Record(id string) (domain.InstructorRecord, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.InstructorRecord{}, false
	}
	return d.records[i], true
}

// Aliases maps every alias to the id of its record. Each alias belongs to
// exactly one record.
func (d *Directory) Aliases() map[string]string {
	out := map[string]string{}
	for _, rec := range d.records {
		for _, a := range rec.Aliases {
			out[a] = rec.ID
		}
	}
	return out
}

// SortEntries orders preference entries by term, course, section, CRN and
// provenance.
func SortEntries(entries []domain.PreferenceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Term != b.Term {
			return a.Term < b.Term
		}
		if a.Course != b.Course {
			return a.Course < b.Course
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

func nonNil(entries []domain.PreferenceEntry) []domain.PreferenceEntry {
	if entries == nil {
		return []domain.PreferenceEntry{}
	}
	return entries
}
