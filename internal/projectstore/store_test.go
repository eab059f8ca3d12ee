package projectstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"boutreview/internal/timeline"
)

func sampleProject(t *testing.T) *timeline.Project {
	t.Helper()
	p := timeline.NewProject("bout")
	p.Gaps = timeline.GapPolicy{Enabled: true, Speed: 3}
	if err := p.AddVideo(timeline.Video{ID: "v1", Filename: "bout.mp4", Duration: 120, FrameRate: 59.94, Rotation: 90}); err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	if err := p.AddSegment(timeline.Segment{ID: "s1", VideoID: "v1", Start: 10, End: 20, Speed: 2, Label: "opening"}); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if err := p.AddNote(timeline.Note{ID: "n1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 12, Text: "round 1"}); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	base := t.TempDir()
	original := sampleProject(t)

	if err := Save(base, original); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name != "bout" || !loaded.Gaps.Enabled || loaded.Gaps.Speed != 3 {
		t.Fatalf("project metadata lost: %+v", loaded)
	}
	videos := loaded.Videos()
	if len(videos) != 1 || videos[0].Duration != 120 || videos[0].Rotation != 90 {
		t.Fatalf("videos lost: %+v", videos)
	}
	segments := loaded.Segments()
	if len(segments) != 1 || segments[0].Speed != 2 || segments[0].Label != "opening" {
		t.Fatalf("segments lost: %+v", segments)
	}
	notes := loaded.Notes()
	if len(notes) != 1 || notes[0].Kind != timeline.NoteChapter {
		t.Fatalf("notes lost: %+v", notes)
	}
}

func TestLoadDefaultsSegmentSpeed(t *testing.T) {
	base := t.TempDir()
	doc := `{
  "version": 1,
  "name": "legacy",
  "medias": [{"id": "v1", "filename": "a.mp4", "duration": 60, "rotation_probe": 0}],
  "segments": [{"id": "s1", "media_id": "v1", "start": 5, "end": 10, "label": "clip"}],
  "notes": []
}`
	if err := os.WriteFile(filepath.Join(base, "project.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	loaded, err := Load(base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Segments()[0].Speed; got != 1.0 {
		t.Fatalf("legacy segment speed = %v, want 1.0", got)
	}
}

func TestLoadRejectsOverlappingDocument(t *testing.T) {
	base := t.TempDir()
	doc := `{
  "version": 1,
  "name": "broken",
  "medias": [{"id": "v1", "filename": "a.mp4", "duration": 60, "rotation_probe": 0}],
  "segments": [
    {"id": "s1", "media_id": "v1", "start": 5, "end": 15, "label": "one"},
    {"id": "s2", "media_id": "v1", "start": 10, "end": 20, "label": "two"}
  ],
  "notes": []
}`
	if err := os.WriteFile(filepath.Join(base, "project.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	if _, err := Load(base); err == nil {
		t.Fatal("expected overlap rejection on load")
	}
}

func TestImportMedia(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(t.TempDir(), "recording.mp4")
	if err := os.WriteFile(source, []byte("fake video"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	project := timeline.NewProject("bout")
	probe := func(ctx context.Context, path string) (MediaInfo, error) {
		return MediaInfo{Duration: 90, FrameRate: 30, Rotation: 180}, nil
	}

	video, err := ImportMedia(context.Background(), base, project, source, probe)
	if err != nil {
		t.Fatalf("ImportMedia: %v", err)
	}
	if video.Duration != 90 || video.Rotation != 180 {
		t.Fatalf("probe results not recorded: %+v", video)
	}
	if _, err := os.Stat(NewLayout(base).VideoPath("recording.mp4")); err != nil {
		t.Fatalf("copied media missing: %v", err)
	}

	// A second import of the same filename gets a numbered name.
	second, err := ImportMedia(context.Background(), base, project, source, probe)
	if err != nil {
		t.Fatalf("second ImportMedia: %v", err)
	}
	if second.Filename != "recording-2.mp4" {
		t.Fatalf("expected deduplicated filename, got %q", second.Filename)
	}
}
