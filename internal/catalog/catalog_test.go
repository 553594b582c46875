package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gta-catalog/internal/httpx"
)

const rawRows = `[
  {"term":"202610","subject_code":"COMP","crn":"1001","course":"COMP 1000","section":"1","seats":"30","enrolled":"12","instructor":" Sky Gao "},
  {"term":"202610","subject_code":"COMP","crn":"1002","course":"COMP 2000","section":"1","seats":25,"enrolled":"n/a"},
  {"term":"202610","subject_code":"MATH","crn":"1003","course":"MATH 1000","section":"1","seats":"10","enrolled":null},
  {"term":"202610","subject_code":"COMP","crn":"","course":"COMP 3000","section":"1"}
]`

func TestToSection(t *testing.T) {
	var rows []RawSection
	require.NoError(t, json.Unmarshal([]byte(rawRows), &rows))

	s, lenient := ToSection(rows[0])
	assert.False(t, lenient)
	assert.Equal(t, "Sky Gao", s.Instructor)
	assert.Equal(t, 30, s.Seats)
	assert.Equal(t, 12, s.Enrolled)

	s, lenient = ToSection(rows[1])
	assert.True(t, lenient)
	assert.Equal(t, 25, s.Seats)
	assert.Equal(t, 0, s.Enrolled)

	s, lenient = ToSection(rows[2])
	assert.False(t, lenient)
	assert.Equal(t, 0, s.Enrolled)
}

func TestCount(t *testing.T) {
	tests := []struct {
		in string
		n  int
		ok bool
	}{
		{"30", 30, true},
		{"1,024", 1024, true},
		{"30.0", 30, true},
		{"", 0, true},
		{"30.5", 0, false},
		{"full", 0, false},
	}
	for _, tt := range tests {
		n, ok := count(tt.in)
		if n != tt.n || ok != tt.ok {
			t.Errorf("count(%q): expected (%d, %v), got (%d, %v)", tt.in, tt.n, tt.ok, n, ok)
		}
	}
}

func TestLoadFilesAndFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course_COMP_202610.json"), []byte(rawRows), 0o644))

	var compressed bytes.Buffer
	w := brotli.NewWriter(&compressed)
	_, err := w.Write([]byte(`[{"term":"202630","subject_code":"COMP","crn":"3001","course":"COMP 1000"}]`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	brPath := filepath.Join(t.TempDir(), "older.json.br")
	require.NoError(t, os.WriteFile(brPath, compressed.Bytes(), 0o644))

	l := NewLoader(Options{Sources: []string{dir, brPath}, Subjects: []string{"comp"}}, nil, zap.NewNop())
	sections, st, err := l.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, sections, 3)
	assert.Equal(t, []string{"1001", "1002", "3001"}, []string{sections[0].CRN, sections[1].CRN, sections[2].CRN})
	assert.Equal(t, Stats{Sources: 2, Rows: 5, Kept: 3, NoCRN: 1, OffSubject: 1, Lenient: 1}, st)
}

func TestLoadDirectoryIncludesCompressed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course_COMP_202610.json"), []byte(rawRows), 0o644))

	var compressed bytes.Buffer
	w := brotli.NewWriter(&compressed)
	_, err := w.Write([]byte(`[{"term":"202630","subject_code":"COMP","crn":"3001","course":"COMP 1000"}]`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "course_COMP_202630.json.br"), compressed.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	sections, st, err := NewLoader(Options{Sources: []string{dir}, Subjects: []string{"COMP"}}, nil, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Sources)
	require.Len(t, sections, 3)
	assert.Equal(t, "3001", sections[2].CRN)
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rawRows))
	}))
	defer srv.Close()

	client := httpx.NewClient(5*time.Second, zap.NewNop())
	sections, _, err := NewLoader(Options{Sources: []string{srv.URL + "/catalog.json"}}, client, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}

func TestLoadMissingSourceFails(t *testing.T) {
	_, _, err := NewLoader(Options{Sources: []string{filepath.Join(t.TempDir(), "none_*.json")}}, nil, nil).Load(context.Background())
	assert.Error(t, err)

	_, _, err = NewLoader(Options{}, nil, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestLoadBadJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))
	_, _, err := NewLoader(Options{Sources: []string{path}}, nil, nil).Load(context.Background())
	assert.Error(t, err)
}
