package encoder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg drives the ffmpeg binary for clip extraction and concatenation.
type FFmpeg struct {
	Binary string
	Width  int
	Height int
}

// NewFFmpeg constructs a client for the given binary and export resolution.
func NewFFmpeg(binary string, width, height int) *FFmpeg {
	return &FFmpeg{Binary: binary, Width: width, Height: height}
}

// Extract renders one trimmed, speed-adjusted clip.
func (f *FFmpeg) Extract(ctx context.Context, job Job) (string, error) {
	if job.End <= job.Start {
		return "", fmt.Errorf("ffmpeg extract: non-positive source range [%g, %g)", job.Start, job.End)
	}
	if job.Speed <= 0 {
		return "", fmt.Errorf("ffmpeg extract: non-positive speed %g", job.Speed)
	}
	return f.run(ctx, f.extractArgs(job))
}

// Concat assembles the given clip files, in order, into a single output via a
// filter_complex concatenation with per-input timestamp reset.
func (f *FFmpeg) Concat(ctx context.Context, inputs []string, output string) (string, error) {
	if len(inputs) == 0 {
		return "", errors.New("ffmpeg concat: no inputs")
	}
	return f.run(ctx, concatArgs(inputs, output))
}

func (f *FFmpeg) run(ctx context.Context, args []string) (string, error) {
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(output))
	if err != nil {
		return text, fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return text, nil
}

func (f *FFmpeg) extractArgs(job Job) []string {
	duration := (job.End - job.Start) / job.Speed
	args := []string{
		"-y",
		"-ss", formatSeconds(job.Start),
		"-i", job.Source,
		"-t", formatSeconds(duration),
		"-vf", f.videoFilter(job.Rotation, job.Speed),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-c:a", "aac",
		"-fflags", "+genpts",
	}
	if chain := atempoChain(job.Speed); chain != "" {
		args = append(args, "-af", chain)
	}
	args = append(args,
		"-reset_timestamps", "1",
		"-avoid_negative_ts", "1",
		"-movflags", "+faststart",
		job.Output,
	)
	return args
}

func concatArgs(inputs []string, output string) []string {
	args := []string{"-y", "-fflags", "+genpts"}
	filters := make([]string, 0, 2*len(inputs)+1)
	pads := make([]string, 0, len(inputs))
	for idx, input := range inputs {
		args = append(args, "-i", input)
		filters = append(filters,
			fmt.Sprintf("[%d:v]setpts=PTS-STARTPTS[v%d]", idx, idx),
			fmt.Sprintf("[%d:a]asetpts=PTS-STARTPTS[a%d]", idx, idx),
		)
		pads = append(pads, fmt.Sprintf("[v%d][a%d]", idx, idx))
	}
	filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=1:a=1[v][a]", strings.Join(pads, ""), len(inputs)))
	args = append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-c:a", "aac",
		"-r", "60",
		"-fps_mode", "cfr",
		"-movflags", "+faststart",
		output,
	)
	return args
}

func (f *FFmpeg) videoFilter(rotation int, speed float64) string {
	filters := make([]string, 0, 3)
	if math.Abs(speed-1.0) > 1e-3 {
		filters = append(filters, fmt.Sprintf("setpts=PTS/%s", formatFactor(speed)))
	}
	if rot := rotationFilter(rotation); rot != "" {
		filters = append(filters, rot)
	}
	filters = append(filters, f.scaleFilter())
	return strings.Join(filters, ",")
}

func (f *FFmpeg) scaleFilter() string {
	w, h := f.Width, f.Height
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black", w, h, w, h)
}

func rotationFilter(rotation int) string {
	rotation %= 360
	if rotation < 0 {
		rotation += 360
	}
	switch rotation {
	case 90:
		return "transpose=1"
	case 180:
		return "transpose=1,transpose=1"
	case 270:
		return "transpose=2"
	default:
		return ""
	}
}

// atempoChain decomposes a playback speed into a chain of atempo filters.
// ffmpeg's atempo only supports factors between 0.5 and 2.0, so larger and
// smaller values become a product of supported chunks (4.0 -> 2.0,2.0).
func atempoChain(speed float64) string {
	if speed <= 0 {
		return ""
	}
	factors := make([]float64, 0, 4)
	remaining := speed
	for remaining > 2.0 {
		factors = append(factors, 2.0)
		remaining /= 2.0
	}
	for remaining < 0.5 {
		factors = append(factors, 0.5)
		remaining /= 0.5
	}
	if math.Abs(remaining-1.0) > 1e-4 {
		factors = append(factors, remaining)
	}
	if len(factors) == 0 {
		return ""
	}
	parts := make([]string, len(factors))
	for i, factor := range factors {
		parts[i] = "atempo=" + formatFactor(factor)
	}
	return strings.Join(parts, ",")
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func formatFactor(value float64) string {
	return strconv.FormatFloat(value, 'f', 6, 64)
}
