package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gta-catalog/internal/export"
)

// writeJSON writes v to path, or to stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	if path == "" {
		return export.WriteJSON(cmd.OutOrStdout(), v)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// statusOut is where human-readable status goes: stdout when the data went
// to a file, stderr when the data is on stdout.
func statusOut(cmd *cobra.Command, path string) io.Writer {
	if path == "" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func pairs(kv ...any) [][]string {
	rows := make([][]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		rows = append(rows, []string{fmt.Sprint(kv[i]), fmt.Sprint(kv[i+1])})
	}
	return rows
}
