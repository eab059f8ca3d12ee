package encoder

import (
	"context"
	"strings"
	"testing"
)

func TestAtempoChain(t *testing.T) {
	cases := []struct {
		speed float64
		want  string
	}{
		{1.0, ""},
		{1.5, "atempo=1.500000"},
		{2.0, "atempo=2.000000"},
		{4.0, "atempo=2.000000,atempo=2.000000"},
		{3.0, "atempo=2.000000,atempo=1.500000"},
		{0.25, "atempo=0.500000,atempo=0.500000"},
		{0, ""},
	}
	for _, tc := range cases {
		if got := atempoChain(tc.speed); got != tc.want {
			t.Fatalf("atempoChain(%v) = %q, want %q", tc.speed, got, tc.want)
		}
	}
}

func TestRotationFilter(t *testing.T) {
	cases := []struct {
		rotation int
		want     string
	}{
		{0, ""},
		{90, "transpose=1"},
		{180, "transpose=1,transpose=1"},
		{270, "transpose=2"},
		{-90, "transpose=2"},
		{450, "transpose=1"},
	}
	for _, tc := range cases {
		if got := rotationFilter(tc.rotation); got != tc.want {
			t.Fatalf("rotationFilter(%d) = %q, want %q", tc.rotation, got, tc.want)
		}
	}
}

func TestExtractArgs(t *testing.T) {
	f := NewFFmpeg("ffmpeg", 1920, 1080)
	job := Job{Source: "in.mp4", Start: 10, End: 20, Speed: 2, Output: "out.mp4"}
	args := strings.Join(f.extractArgs(job), " ")

	for _, fragment := range []string{
		"-ss 10.000",
		"-t 5.000", // source duration halved by speed
		"setpts=PTS/2.000000",
		"scale=1920:1080",
		"-af atempo=2.000000",
		"-movflags +faststart",
		"out.mp4",
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("args missing %q:\n%s", fragment, args)
		}
	}
}

func TestExtractArgsUnitSpeedOmitsTempoFilters(t *testing.T) {
	f := NewFFmpeg("ffmpeg", 1920, 1080)
	args := strings.Join(f.extractArgs(Job{Source: "in.mp4", Start: 0, End: 5, Speed: 1, Output: "out.mp4"}), " ")
	if strings.Contains(args, "atempo") || strings.Contains(args, "setpts=PTS/") {
		t.Fatalf("unexpected speed filters at 1.0x:\n%s", args)
	}
}

func TestConcatArgs(t *testing.T) {
	args := strings.Join(concatArgs([]string{"a.mp4", "b.mp4"}, "final.mp4"), " ")
	for _, fragment := range []string{
		"-i a.mp4",
		"-i b.mp4",
		"[0:v]setpts=PTS-STARTPTS[v0]",
		"[1:a]asetpts=PTS-STARTPTS[a1]",
		"[v0][a0][v1][a1]concat=n=2:v=1:a=1[v][a]",
		"-map [v]",
		"-fps_mode cfr",
		"final.mp4",
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("args missing %q:\n%s", fragment, args)
		}
	}
}

func TestExtractRejectsInvalidJobs(t *testing.T) {
	f := NewFFmpeg("ffmpeg", 1920, 1080)
	if _, err := f.Extract(context.Background(), Job{Start: 5, End: 5}); err == nil {
		t.Fatal("expected error for empty range")
	}
	if _, err := f.Extract(context.Background(), Job{Start: 0, End: 5, Speed: 0}); err == nil {
		t.Fatal("expected error for zero speed")
	}
}
