package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		outPath     string
		instructors bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the course -> title -> instructor history as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			b, err := p.Build(cmd.Context())
			if err != nil {
				return err
			}

			var v any = b.History
			if instructors {
				v = b.Directory.Records()
			}
			if err := writeJSON(cmd, outPath, v); err != nil {
				return err
			}
			fmt.Fprintln(statusOut(cmd, outPath), renderTable(
				[]string{"Metric", "Value"},
				pairs(
					"survey files", b.Survey.Files,
					"preference entries", b.Survey.Entries,
					"instructors", len(b.Directory.Records()),
					"courses", len(b.History),
				),
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the JSON here instead of stdout")
	cmd.Flags().BoolVar(&instructors, "instructors", false, "Print the instructor records instead of the course history")
	return cmd
}
