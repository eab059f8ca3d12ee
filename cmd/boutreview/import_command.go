package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"boutreview/internal/projectstore"
	"boutreview/internal/timeline"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Copy source videos into the project and probe their metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := ctx.projectDir()
			if err != nil {
				return err
			}

			project, err := projectstore.Load(dir)
			switch {
			case err == nil:
			case errors.Is(err, fs.ErrNotExist):
				// First import creates the project.
				project = timeline.NewProject(filepath.Base(dir))
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create project directory: %w", err)
				}
			default:
				return err
			}

			probe := projectstore.FFprobeProber(cfg.Paths.FFprobeBin)
			out := cmd.OutOrStdout()
			for _, source := range args {
				video, err := projectstore.ImportMedia(cmd.Context(), dir, project, source, probe)
				if err != nil {
					return fmt.Errorf("import %s: %w", source, err)
				}
				fmt.Fprintf(out, "imported %s (%.1fs, %.3g fps, rotation %d)\n",
					video.Filename, video.Duration, video.FrameRate, video.Rotation)
			}
			return projectstore.Save(dir, project)
		},
	}
}
