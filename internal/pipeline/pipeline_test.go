package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gta-catalog/internal/config"
	"gta-catalog/internal/enrich"
	"gta-catalog/internal/export"
)

const catalogRows = `[
  {"term": "202610", "subject_code": "COMP", "crn": "1001", "course": "COMP 1101", "section": "1",
   "title": "Intro", "course_type": "Lecture", "meeting_dates": "06-JAN-2026 to 14-MAR-2026",
   "time": "9:00AM-9:50AM", "days": "MWF", "instructor": "Sky Gao", "seats": "30", "enrolled": "8"},
  {"term": "202610", "subject_code": "COMP", "crn": "1002", "course": "COMP 2000", "section": "1",
   "title": "Data", "course_type": "Lab", "meeting_dates": "06-JAN-2026 to 14-MAR-2026",
   "time": "9:30AM-10:20AM", "days": "MW", "instructor": "Ann Lee", "seats": "25", "enrolled": "20"},
  {"term": "202610", "subject_code": "MATH", "crn": "2001", "course": "MATH 1000", "section": "1",
   "title": "Calc", "course_type": "Lecture", "time": "TBA", "instructor": "Bo Wu", "seats": "40", "enrolled": "1"}
]`

const surveyRows = "Term,Course,Sec,Instructor,CRN,Title\n" +
	"202610,COMP 1101,1,\"Gao, Sky\",1001,Intro\n" +
	"202610,1101,2,Sky Gao,1001,\n"

type testEnv struct {
	cfg         *config.Config
	catalogPath string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	catalogPath := filepath.Join(root, "raw", "course_COMP_202610.json")
	surveyDir := filepath.Join(root, "history")
	require.NoError(t, os.MkdirAll(filepath.Dir(catalogPath), 0o755))
	require.NoError(t, os.MkdirAll(surveyDir, 0o755))
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogRows), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(surveyDir, "prefs.csv"), []byte(surveyRows), 0o644))

	cfg := config.Default()
	cfg.Catalog.Sources = []string{catalogPath}
	cfg.Terms = map[string]string{"202610": "Winter Quarter 2026"}
	cfg.Survey.Dir = surveyDir
	cfg.Paths.ProcessedDir = filepath.Join(root, "processed")
	cfg.Paths.ExportDir = filepath.Join(root, "exports")
	require.NoError(t, cfg.Validate())

	return &testEnv{cfg: &cfg, catalogPath: catalogPath}
}

func TestRun(t *testing.T) {
	env := setup(t)
	p := New(env.cfg, zap.NewNop())

	sum, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.True(t, sum.FirstRun)
	assert.Equal(t, 1, sum.Build.Catalog.OffSubject)
	assert.Equal(t, 2, sum.Build.Enrich.Sections)
	assert.Equal(t, 1, sum.Build.Enrich.ConflictPairs)
	assert.Equal(t, 2, sum.Build.Enrich.GTAEligible)
	assert.Equal(t, 2, sum.Events)

	records := sum.Build.Directory.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "gao sky", records[0].ID)
	assert.Len(t, records[0].History, 2)

	hist := sum.Build.History
	require.Contains(t, hist, "COMP 1101")
	assert.Len(t, hist["COMP 1101"]["Intro"]["gao sky"].History, 2)
	require.Contains(t, hist, "COMP 2000")
	assert.Empty(t, hist["COMP 2000"]["Data"])

	for _, path := range []string{
		filepath.Join(env.cfg.Paths.ProcessedDir, export.AllProcessedFile),
		filepath.Join(env.cfg.Paths.ProcessedDir, export.HistoryFile),
		filepath.Join(env.cfg.Paths.ExportDir, export.GTAFeedFile("202610", ".xlsx")),
		filepath.Join(env.cfg.Paths.ExportDir, export.CalendarFile("202610")),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	ics, err := os.ReadFile(filepath.Join(env.cfg.Paths.ExportDir, export.CalendarFile("202610")))
	require.NoError(t, err)
	assert.Contains(t, string(ics), "X-WR-CALNAME:Winter Quarter 2026")
	assert.NotContains(t, string(ics), sum.RunID)
}

func TestRunReportsChanges(t *testing.T) {
	env := setup(t)
	p := New(env.cfg, zap.NewNop())

	_, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	updated := strings.Replace(catalogRows, `"enrolled": "20"`, `"enrolled": "21"`, 1)
	require.NoError(t, os.WriteFile(env.catalogPath, []byte(updated), 0o644))

	sum, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.False(t, sum.FirstRun)
	assert.Empty(t, sum.Diff.Added)
	assert.Empty(t, sum.Diff.Removed)
	require.Len(t, sum.Diff.Changed, 1)
	assert.Equal(t, "1002", sum.Diff.Changed[0].CRN)
	assert.Equal(t, []string{"enrolled"}, sum.Diff.Changed[0].Fields)

	rows := sum.Rows()
	assert.Contains(t, rows, []string{"sections changed", "1"})
}

func TestRunRejectsDuplicateCRN(t *testing.T) {
	env := setup(t)
	dup := strings.Replace(catalogRows, `"crn": "1002"`, `"crn": "1001"`, 1)
	require.NoError(t, os.WriteFile(env.catalogPath, []byte(dup), 0o644))

	_, err := New(env.cfg, zap.NewNop()).Run(context.Background(), RunOptions{})
	if !errors.Is(err, enrich.ErrDuplicateCRN) {
		t.Fatalf("Expected ErrDuplicateCRN, got %v", err)
	}
	_, statErr := os.Stat(filepath.Join(env.cfg.Paths.ProcessedDir, export.AllProcessedFile))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing should be written")
}

func TestRunHonorsLock(t *testing.T) {
	env := setup(t)
	require.NoError(t, os.MkdirAll(env.cfg.Paths.ProcessedDir, 0o755))

	held := flock.New(filepath.Join(env.cfg.Paths.ProcessedDir, LockFile))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	_, err = New(env.cfg, zap.NewNop()).Run(context.Background(), RunOptions{})
	if !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked, got %v", err)
	}
}

func TestLoadFailsOnMissingCatalog(t *testing.T) {
	env := setup(t)
	env.cfg.Catalog.Sources = []string{filepath.Join(t.TempDir(), "gone.json")}

	_, err := New(env.cfg, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}
