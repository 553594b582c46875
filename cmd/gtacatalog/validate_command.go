package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gta-catalog/internal/enrich"
	"gta-catalog/internal/snapshot"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <processed.json>",
		Short:       "Re-check a processed section file for internal consistency",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			issues := enrich.Validate(rows)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintf(out, "%s is valid: %d sections\n", args[0], len(rows))
				return nil
			}

			table := make([][]string, 0, len(issues))
			for _, is := range issues {
				table = append(table, []string{is.Term, is.CRN, is.Check, is.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Term", "CRN", "Check", "Detail"}, table, nil))
			return &enrich.ValidationError{Issues: issues}
		},
	}
}
