package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Stage collects output files in a hidden directory next to their final
// location. Nothing is visible in the output directory until Commit.
type Stage struct {
	dir   string
	tmp   string
	names []string
}

// NewStage creates the output directory if needed and a fresh staging
// directory inside it.
func NewStage(dir string) (*Stage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	tmp, err := os.MkdirTemp(dir, ".stage-")
	if err != nil {
		return nil, fmt.Errorf("export: create staging dir: %w", err)
	}
	return &Stage{dir: dir, tmp: tmp}, nil
}

// Write stages one file. write receives the open file and must not close it.
func (s *Stage) Write(name string, write func(w io.Writer) error) error {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("export: invalid file name %q", name)
	}
	for _, n := range s.names {
		if n == name {
			return fmt.Errorf("export: %s staged twice", name)
		}
	}

	f, err := os.Create(filepath.Join(s.tmp, name))
	if err != nil {
		return fmt.Errorf("export: create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", name, err)
	}
	s.names = append(s.names, name)
	return nil
}

// Commit renames every staged file into the output directory and removes the
// staging directory. It returns the final paths in name order.
func (s *Stage) Commit() ([]string, error) {
	names := append([]string(nil), s.names...)
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(s.dir, name)
		if err := os.Rename(filepath.Join(s.tmp, name), dst); err != nil {
			return paths, fmt.Errorf("export: commit %s: %w", name, err)
		}
		paths = append(paths, dst)
	}
	s.names = nil
	return paths, os.RemoveAll(s.tmp)
}

// Abort drops everything staged so far. It is safe after Commit.
func (s *Stage) Abort() error {
	s.names = nil
	return os.RemoveAll(s.tmp)
}
