package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gta-catalog/internal/export"
	"gta-catalog/internal/snapshot"
)

func newDiffCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <previous.json> [current.json]",
		Short: "Show sections added, removed or changed between two processed files",
		Long: "Compares two processed section files. Without a second file the current " +
			export.AllProcessedFile + " in the configured processed directory is used.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ""
			if len(args) == 2 {
				current = args[1]
			} else {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				current = filepath.Join(cfg.Paths.ProcessedDir, export.AllProcessedFile)
			}

			prev, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			curr, err := snapshot.Load(current)
			if err != nil {
				return err
			}

			d := snapshot.Compare(prev, curr)
			out := cmd.OutOrStdout()
			if d.Empty() {
				fmt.Fprintln(out, "No changes")
				return nil
			}

			var rows [][]string
			for _, e := range d.Added {
				rows = append(rows, []string{"added", e.Term, e.CRN, e.Course, e.Title, ""})
			}
			for _, e := range d.Removed {
				rows = append(rows, []string{"removed", e.Term, e.CRN, e.Course, e.Title, ""})
			}
			for _, c := range d.Changed {
				rows = append(rows, []string{"changed", c.Term, c.CRN, c.Course, c.Title, strings.Join(c.Fields, ", ")})
			}
			fmt.Fprintln(out, renderTable([]string{"Change", "Term", "CRN", "Course", "Title", "Fields"}, rows, nil))
			fmt.Fprintf(out, "%d added, %d removed, %d changed\n", len(d.Added), len(d.Removed), len(d.Changed))
			return nil
		},
	}
}
