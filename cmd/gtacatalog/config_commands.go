package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gta-catalog/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultPath
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit [catalog] sources and [terms] before the first run.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				pairs(
					"catalog sources", strings.Join(cfg.Catalog.Sources, ", "),
					"subjects", strings.Join(cfg.Catalog.Subjects, ", "),
					"terms", len(cfg.Terms),
					"display name policy", cfg.Identity.DisplayNamePolicy,
					"survey dir", cfg.Survey.Dir,
					"processed dir", cfg.Paths.ProcessedDir,
					"export dir", cfg.Paths.ExportDir,
					"timezone", cfg.Schedule.Timezone,
					"sftp", yesNo(cfg.SFTP.Enabled),
					"archive", yesNo(cfg.Archive.Enabled),
				),
				nil,
			))
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
