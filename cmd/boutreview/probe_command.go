package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boutreview/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := ffprobe.Inspect(cmd.Context(), cfg.Paths.FFprobeBin, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "duration: %.3fs\n", result.DurationSeconds())
			fmt.Fprintf(out, "frame rate: %.3f\n", result.FrameRate())
			fmt.Fprintf(out, "rotation: %d\n", result.Rotation())
			if stream, ok := result.VideoStream(); ok {
				fmt.Fprintf(out, "video: %s %dx%d\n", stream.CodecName, stream.Width, stream.Height)
			}
			return nil
		},
	}
}
