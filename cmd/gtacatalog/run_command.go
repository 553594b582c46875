package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gta-catalog/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var noUpload bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full batch: load, enrich, resolve, merge, export",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			sum, err := p.Run(cmd.Context(), pipeline.RunOptions{SkipUpload: noUpload})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"},
				sum.Rows(),
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noUpload, "no-upload", false, "Skip the SFTP upload even when enabled")
	return cmd
}
