package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"boutreview/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past export runs, or the jobs of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(filepath.Join(cfg.Paths.LogDir, "export-journal.db"))
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				runID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id %q", args[0])
				}
				jobs, err := store.RunJobs(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintf(out, "no jobs recorded for run %d\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						strconv.Itoa(job.UnitIndex + 1),
						job.Kind,
						job.Label,
						fmt.Sprintf("%.2f-%.2f", job.SourceStart, job.SourceEnd),
						fmt.Sprintf("%.2gx", job.Speed),
						job.Status,
						(time.Duration(job.ElapsedMS) * time.Millisecond).String(),
						job.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"#", "Kind", "Label", "Source", "Speed", "Status", "Elapsed", "Detail"},
					rows, 1, 4, 5, 7))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no export runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "-"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Local().Format(time.RFC3339)
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.Project,
					run.Status,
					run.StartedAt.Local().Format(time.RFC3339),
					finished,
					strconv.Itoa(run.UnitCount),
					strconv.Itoa(run.FailedCount),
					fmt.Sprintf("%.1fs", run.OutputDuration),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Project", "Status", "Started", "Finished", "Units", "Failed", "Output"},
				rows, 1, 6, 7, 8))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
