package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Load the catalog and print the enriched sections as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			sections, cst, err := p.LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			rows, st, err := p.Enrich(sections)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd, outPath, rows); err != nil {
				return err
			}
			fmt.Fprintln(statusOut(cmd, outPath), renderTable(
				[]string{"Metric", "Value"},
				pairs(
					"catalog rows", cst.Rows,
					"sections", st.Sections,
					"terms", st.Terms,
					"unscheduled", st.Unscheduled,
					"crosslist groups", st.CrosslistGroups,
					"conflict pairs", st.ConflictPairs,
					"GTA eligible", st.GTAEligible,
				),
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the JSON here instead of stdout")
	return cmd
}
