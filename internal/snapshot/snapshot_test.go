package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gta-catalog/internal/domain"
	"gta-catalog/internal/export"
)

func row(term, crn, title, instructor string, enrolled int) domain.EnrichedCourseSection {
	return domain.EnrichedCourseSection{
		CourseSection: domain.CourseSection{
			Term:       term,
			CRN:        crn,
			Course:     "COMP 1101",
			Title:      title,
			Instructor: instructor,
			Enrolled:   enrolled,
		},
		Crosslist: []string{},
		Conflicts: []string{},
	}
}

func TestCompare(t *testing.T) {
	prev := []domain.EnrichedCourseSection{
		row("202610", "1002", "Intro", "Lee, Ann", 10),
		row("202610", "1001", "Intro", "Lee, Ann", 10),
		row("202610", "1003", "Intro", "Lee, Ann", 10),
	}
	curr := []domain.EnrichedCourseSection{
		row("202610", "1001", "Intro", " lee, ann ", 10),
		row("202610", "1002", "Intro II", "Lee, Ann", 12),
		row("202630", "1001", "Intro", "Lee, Ann", 0),
	}
	curr[1].Conflicts = []string{"1001"}

	got := Compare(prev, curr)
	want := Diff{
		Added:   []Entry{{Term: "202630", CRN: "1001", Course: "COMP 1101", Title: "Intro"}},
		Removed: []Entry{{Term: "202610", CRN: "1003", Course: "COMP 1101", Title: "Intro"}},
		Changed: []Change{{
			Entry:  Entry{Term: "202610", CRN: "1002", Course: "COMP 1101", Title: "Intro II"},
			Fields: []string{"title", "enrolled", "conflicts"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compare mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.Empty())
}

func TestCompareIdentical(t *testing.T) {
	rows := []domain.EnrichedCourseSection{row("202610", "1001", "Intro", "Lee, Ann", 10)}
	d := Compare(rows, rows)
	if !d.Empty() {
		t.Errorf("Expected an empty diff, got %+v", d)
	}
	assert.NotNil(t, d.Added)
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := []domain.EnrichedCourseSection{row("202610", "1001", "Intro", "Lee, Ann", 10)}

	for _, name := range []string{"plain.json", "packed.json.br"} {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		if filepath.Ext(name) == ".br" {
			require.NoError(t, export.WriteArchive(f, rows, 4))
		} else {
			require.NoError(t, export.WriteJSON(f, rows))
		}
		require.NoError(t, f.Close())

		got, err := Load(path)
		require.NoError(t, err)
		if diff := cmp.Diff(rows, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
