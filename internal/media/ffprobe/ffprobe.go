package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int        `json:"index"`
	CodecName    string     `json:"codec_name"`
	CodecType    string     `json:"codec_type"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	AvgFrameRate string     `json:"avg_frame_rate"`
	RFrameRate   string     `json:"r_frame_rate"`
	Tags         StreamTags `json:"tags"`
	SideData     []SideData `json:"side_data_list"`
}

// StreamTags carries container tags relevant to playback orientation.
type StreamTags struct {
	Rotate string `json:"rotate"`
}

// SideData carries per-stream side data such as the display matrix rotation.
type SideData struct {
	Rotation *float64 `json:"rotation"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return Decode(output)
}

// Decode parses raw ffprobe JSON output.
func Decode(raw []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	value := parseFloat(r.Format.Duration)
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

// VideoStream returns the first video stream, if any.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// FrameRate returns the video frame rate in frames per second, or 0 when
// unavailable. The average rate is preferred over the raw rate.
func (r Result) FrameRate() float64 {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	if fps := parseRational(stream.AvgFrameRate); fps > 0 {
		return fps
	}
	return parseRational(stream.RFrameRate)
}

// Rotation returns the playback rotation in degrees, normalized to a multiple
// of 90 in [0, 360). Stream tags win over display-matrix side data.
func (r Result) Rotation() int {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	if tag := strings.TrimSpace(stream.Tags.Rotate); tag != "" {
		if value, err := strconv.ParseFloat(tag, 64); err == nil {
			return normalizeRotation(value)
		}
	}
	for _, entry := range stream.SideData {
		if entry.Rotation != nil {
			return normalizeRotation(*entry.Rotation)
		}
	}
	return 0
}

func normalizeRotation(value float64) int {
	rounded := int(math.Round(value/90.0)) * 90
	rounded %= 360
	if rounded < 0 {
		rounded += 360
	}
	return rounded
}

func parseRational(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if num, den, found := strings.Cut(value, "/"); found {
		numF := parseFloat(num)
		denF := parseFloat(den)
		if math.IsNaN(numF) || math.IsNaN(denF) || denF == 0 {
			return 0
		}
		return numF / denF
	}
	parsed := parseFloat(value)
	if math.IsNaN(parsed) {
		return 0
	}
	return parsed
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
