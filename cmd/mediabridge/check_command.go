package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mediabridge/internal/api"
	"mediabridge/internal/preflight"
	"mediabridge/internal/services"
)

type checkReport struct {
	Passed       bool                   `json:"passed"`
	Checks       []preflight.Result     `json:"checks"`
	Dependencies []api.DependencyStatus `json:"dependencies"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the encoder installation and runtime environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			report := checkReport{
				Passed:       preflight.Passed(results),
				Checks:       results,
				Dependencies: api.FromDependencyStatuses(preflight.CheckSystemDeps(cfg)),
			}
			if err := emit(cmd, asJSON, report, func(w io.Writer) error {
				return printCheckReport(w, report)
			}); err != nil {
				return err
			}
			if !report.Passed {
				return services.Wrap(services.ErrConfiguration, "check", "", "one or more checks failed", nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print check results as JSON")
	return cmd
}

func printCheckReport(w io.Writer, report checkReport) error {
	rows := make([][]string, 0, len(report.Checks))
	var hints []string
	for _, r := range report.Checks {
		rows = append(rows, []string{r.Name, checkLabel(r), r.Detail})
		if !r.Passed && r.Hint != "" {
			hints = append(hints, fmt.Sprintf("%s: %s", r.Name, r.Hint))
		}
	}
	fmt.Fprint(w, renderTable(tableView{
		Title:   "Preflight",
		Headers: []string{"Check", "Result", "Detail"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignCenter, alignLeft},
	}))

	depRows := make([][]string, 0, len(report.Dependencies))
	for _, dep := range report.Dependencies {
		detail := dep.Path
		if !dep.Available {
			detail = dep.Detail
		}
		depRows = append(depRows, []string{dep.Name, dep.Command, yesNo(dep.Available), yesNo(dep.Optional), detail})
	}
	fmt.Fprint(w, renderTable(tableView{
		Title:   "Dependencies",
		Headers: []string{"Name", "Command", "Available", "Optional", "Detail"},
		Rows:    depRows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignCenter, alignCenter, alignLeft},
	}))

	for _, hint := range hints {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
	if report.Passed {
		fmt.Fprintln(w, "All required checks passed")
	}
	return nil
}

func checkLabel(r preflight.Result) string {
	switch {
	case r.Passed:
		return "ok"
	case r.Advisory:
		return "warn"
	default:
		return "fail"
	}
}
