package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"boutreview/internal/annotate"
	"boutreview/internal/deps"
	"boutreview/internal/encoder"
	"boutreview/internal/export"
	"boutreview/internal/journal"
	"boutreview/internal/logging"
	"boutreview/internal/projectstore"
	"boutreview/internal/timecode"
	"boutreview/internal/timeline"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var gapsFlag bool
	var gapSpeedFlag float64

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compile the timeline and render the highlights reel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			project, dir, err := ctx.loadProject()
			if err != nil {
				return err
			}

			// Precedence for gap policy: flag, then project document, then
			// the configured default.
			if cmd.Flags().Changed("gaps") {
				project.Gaps.Enabled = gapsFlag
			} else if !project.Gaps.Enabled && cfg.Export.IncludeGaps {
				project.Gaps.Enabled = true
			}
			if cmd.Flags().Changed("gap-speed") {
				project.Gaps.Speed = gapSpeedFlag
			}
			if project.Gaps.Enabled && project.Gaps.Speed == 0 {
				project.Gaps.Speed = cfg.Export.GapSpeed
			}

			err = deps.Verify([]deps.Requirement{
				{Name: "ffmpeg", Command: cfg.Paths.FFmpegBin},
				{Name: "ffprobe", Command: cfg.Paths.FFprobeBin},
			})
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				LogDir:  cfg.Paths.LogDir,
				LogFile: "boutreview.log",
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			plan, warnings := timeline.Compile(project)
			out := cmd.OutOrStdout()
			for _, warning := range warnings {
				fmt.Fprintf(out, "warning: %s\n", warning.Message)
			}

			report := annotate.MapNotes(project, plan, annotate.Options{
				LeadingChapterLabel: cfg.Export.LeadingChapterLabel,
				MinChapterSpacing:   cfg.Export.MinChapterSpacingSeconds,
			})
			printAnnotationReport(out, report)

			store, err := journal.Open(filepath.Join(cfg.Paths.LogDir, "export-journal.db"))
			if err != nil {
				logger.Warn("export journal unavailable", logging.Error(err))
				store = nil
			} else {
				defer store.Close()
			}

			layout := projectstore.NewLayout(dir)
			executor := export.New(encoder.NewFFmpeg(cfg.Paths.FFmpegBin, cfg.Export.Width, cfg.Export.Height), export.Options{
				OutputDir:        layout.ExportsDir(),
				SourceDir:        layout.VideosDir(),
				Workers:          cfg.WorkerCount(),
				JobTimeout:       cfg.JobTimeout(),
				OnDuplicateLabel: cfg.Export.OnDuplicateLabel,
				Journal:          store,
				Logger:           logger,
			})

			result, runErr := executor.Run(runCtx, project, plan, report)
			if result != nil {
				printExportResult(out, result)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&gapsFlag, "gaps", false, "Include sped-up filler for unmarked regions")
	cmd.Flags().Float64Var(&gapSpeedFlag, "gap-speed", 0, "Playback speed for gap filler")
	return cmd
}

func printAnnotationReport(out io.Writer, report annotate.Report) {
	for _, excluded := range report.Excluded {
		fmt.Fprintf(out, "note excluded: %q at %s (%s)\n",
			excluded.Note.Text, timecode.Format(excluded.Note.Timestamp), excluded.Reason)
	}
	for _, violation := range report.Violations {
		fmt.Fprintf(out, "chapter dropped: %q at %s is too close to %q at %s\n",
			violation.Later.Text, timecode.Format(violation.Later.OutputTime),
			violation.Earlier.Text, timecode.Format(violation.Earlier.OutputTime))
	}
	for _, advisory := range report.Advisories {
		fmt.Fprintf(out, "advisory: %s\n", advisory)
	}
}

func printExportResult(out io.Writer, result *export.Result) {
	for _, unit := range result.Units {
		if unit.Err != nil {
			fmt.Fprintf(out, "unit %d (%s): %v\n", unit.Index+1, unit.Unit.Label, unit.Err)
		}
	}
	fmt.Fprintf(out, "clips written: %d\n", len(result.Clips))
	fmt.Fprintf(out, "chapters: %s\n", result.ChaptersFile)
	fmt.Fprintf(out, "comments: %s\n", result.CommentsFile)
	fmt.Fprintf(out, "job log: %s\n", result.LogFile)
	switch {
	case result.Cancelled:
		fmt.Fprintln(out, "export cancelled; completed clips kept")
	case result.Failed > 0:
		fmt.Fprintf(out, "%d extraction jobs failed; highlights not assembled\n", result.Failed)
	case result.Highlights != "":
		fmt.Fprintf(out, "highlights: %s (%s)\n", result.Highlights, timecode.Format(result.Duration))
	}
}
