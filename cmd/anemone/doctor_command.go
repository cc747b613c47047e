package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"anemone/internal/deps"
	"anemone/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cfg)
			deps.AnnotateVersions(cmd.Context(), statuses, "FFmpeg", "FFprobe")
			results := preflight.RunAll(cmd.Context(), cfg)

			rows := make([][]string, 0, len(statuses)+len(results))
			failed := 0
			for _, s := range statuses {
				kind := statusOK
				detail := s.Detail
				if !s.Available {
					if s.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						failed++
					}
				}
				if detail == "" {
					detail = s.Command
				}
				rows = append(rows, []string{s.Name, statusLabel(kind, colorize), detail, s.Description})
			}
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
					failed++
				}
				rows = append(rows, []string{r.Name, statusLabel(kind, colorize), r.Detail, ""})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if failed > 0 {
				return errors.New(pluralChecks(failed) + " failed")
			}
			return nil
		},
	}
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
