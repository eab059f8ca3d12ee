package projectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"boutreview/internal/fileutil"
	"boutreview/internal/media/ffprobe"
	"boutreview/internal/timeline"
)

// MediaInfo carries the probed properties of an imported recording.
type MediaInfo struct {
	Duration  float64
	FrameRate float64
	Rotation  int
}

// Prober inspects a media file. The production implementation shells out to
// ffprobe; tests substitute a stub.
type Prober func(ctx context.Context, path string) (MediaInfo, error)

// FFprobeProber builds a Prober around the given ffprobe binary.
func FFprobeProber(binary string) Prober {
	return func(ctx context.Context, path string) (MediaInfo, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return MediaInfo{}, err
		}
		return MediaInfo{
			Duration:  result.DurationSeconds(),
			FrameRate: result.FrameRate(),
			Rotation:  result.Rotation(),
		}, nil
	}
}

// ImportMedia copies a source recording into the project's videos directory,
// probes it, and registers it on the project. The caller is responsible for
// saving the project afterwards.
func ImportMedia(ctx context.Context, base string, project *timeline.Project, sourcePath string, probe Prober) (timeline.Video, error) {
	layout := NewLayout(base)
	if err := os.MkdirAll(layout.VideosDir(), 0o755); err != nil {
		return timeline.Video{}, fmt.Errorf("ensure videos directory: %w", err)
	}

	filename, err := availableFilename(layout, filepath.Base(sourcePath))
	if err != nil {
		return timeline.Video{}, err
	}
	dest := layout.VideoPath(filename)
	if err := fileutil.CopyFile(sourcePath, dest); err != nil {
		return timeline.Video{}, fmt.Errorf("copy media into project: %w", err)
	}

	info, err := probe(ctx, dest)
	if err != nil {
		_ = os.Remove(dest)
		return timeline.Video{}, fmt.Errorf("probe imported media: %w", err)
	}

	video := timeline.Video{
		ID:         timeline.NewID(),
		Filename:   filename,
		Duration:   info.Duration,
		FrameRate:  info.FrameRate,
		Rotation:   info.Rotation,
		ImportedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := project.AddVideo(video); err != nil {
		_ = os.Remove(dest)
		return timeline.Video{}, err
	}
	return video, nil
}

func availableFilename(layout Layout, name string) (string, error) {
	candidate := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		_, err := os.Stat(layout.VideoPath(candidate))
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check media filename: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}
