package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"boutreview/internal/timecode"
	"boutreview/internal/timeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the compiled output plan without exporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _, err := ctx.loadProject()
			if err != nil {
				return err
			}
			plan, warnings := timeline.Compile(project)
			out := cmd.OutOrStdout()
			for _, warning := range warnings {
				fmt.Fprintf(out, "warning: %s\n", warning.Message)
			}
			if len(plan.Units) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(plan.Units))
			for i, unit := range plan.Units {
				label := unit.Label
				if unit.Kind == timeline.UnitGap {
					label = "(gap)"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					string(unit.Kind),
					label,
					fmt.Sprintf("%.2f-%.2f", unit.Start, unit.End),
					fmt.Sprintf("%.2gx", unit.Speed),
					timecode.Format(unit.OutStart),
					fmt.Sprintf("%.2fs", unit.OutDuration),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Kind", "Label", "Source", "Speed", "Out Start", "Out Length"},
				rows, 1, 4, 5, 7))
			fmt.Fprintf(out, "total output duration: %s (%.2fs)\n", timecode.Format(plan.Duration), plan.Duration)
			return nil
		},
	}
}
