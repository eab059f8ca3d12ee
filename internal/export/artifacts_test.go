package export

import (
	"os"
	"path/filepath"
	"testing"

	"boutreview/internal/annotate"
	"boutreview/internal/timeline"
)

func TestWriteCommentsMarksExcluded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments_timestamps.txt")
	comments := []annotate.MappedNote{
		{OutputTime: 3, Text: "sweep attempt"},
		{OutputTime: 61, Text: "pass to mount"},
	}
	excluded := []annotate.ExcludedNote{
		{Note: timeline.Note{Kind: timeline.NoteComment, Text: "between rounds"}, Reason: annotate.ReasonNotIncluded},
		{Note: timeline.Note{Kind: timeline.NoteChapter, Text: "dropped chapter"}, Reason: annotate.ReasonNotIncluded},
	}
	if err := WriteComments(path, comments, excluded); err != nil {
		t.Fatalf("WriteComments: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "00:00:03 sweep attempt\n" +
		"00:01:01 pass to mount\n" +
		"--:--:-- between rounds (" + annotate.ReasonNotIncluded + ")\n"
	if string(got) != want {
		t.Fatalf("comments file = %q, want %q", got, want)
	}
}

func TestWriteChaptersEmptySetProducesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "youtube_chapters.txt")
	if err := WriteChapters(path, nil); err != nil {
		t.Fatalf("WriteChapters: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty file, got %q", got)
	}
}
