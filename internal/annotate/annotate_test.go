package annotate

import (
	"math"
	"strings"
	"testing"

	"boutreview/internal/timeline"
)

func buildProject(t *testing.T, notes ...timeline.Note) (*timeline.Project, *timeline.Plan) {
	t.Helper()
	p := timeline.NewProject("bout")
	if err := p.AddVideo(timeline.Video{ID: "v1", Filename: "bout.mp4", Duration: 120}); err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	segments := []timeline.Segment{
		{ID: "s1", VideoID: "v1", Start: 10, End: 20, Speed: 1, Label: "opening exchange"},
		{ID: "s2", VideoID: "v1", Start: 40, End: 50, Speed: 1, Label: "finish"},
	}
	for _, seg := range segments {
		if err := p.AddSegment(seg); err != nil {
			t.Fatalf("AddSegment: %v", err)
		}
	}
	for _, note := range notes {
		if err := p.AddNote(note); err != nil {
			t.Fatalf("AddNote: %v", err)
		}
	}
	plan, _ := timeline.Compile(p)
	return p, plan
}

func TestMapNotesCommentsAndExclusions(t *testing.T) {
	p, plan := buildProject(t,
		timeline.Note{ID: "n1", VideoID: "v1", Kind: timeline.NoteComment, Timestamp: 15, Text: "nice takedown"},
		timeline.Note{ID: "n2", VideoID: "v1", Kind: timeline.NoteComment, Timestamp: 30, Text: "between segments"},
	)

	report := MapNotes(p, plan, Options{})
	if len(report.Comments) != 1 {
		t.Fatalf("expected 1 mapped comment, got %+v", report.Comments)
	}
	if got := report.Comments[0].OutputTime; math.Abs(got-5) > 1e-9 {
		t.Fatalf("comment output time = %v, want 5", got)
	}
	if len(report.Excluded) != 1 || report.Excluded[0].Note.ID != "n2" {
		t.Fatalf("expected n2 excluded, got %+v", report.Excluded)
	}
	if report.Excluded[0].Reason != ReasonNotIncluded {
		t.Fatalf("unexpected exclusion reason %q", report.Excluded[0].Reason)
	}
}

func TestChapterSpacingDropsLater(t *testing.T) {
	// Chapters land at output times 3s and 8s: too close, later one loses.
	p, plan := buildProject(t,
		timeline.Note{ID: "c1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 13, Text: "round one"},
		timeline.Note{ID: "c2", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 18, Text: "round two"},
	)

	report := MapNotes(p, plan, Options{})
	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 spacing violation, got %+v", report.Violations)
	}
	if report.Violations[0].Earlier.NoteID != "c1" || report.Violations[0].Later.NoteID != "c2" {
		t.Fatalf("unexpected violation pair %+v", report.Violations[0])
	}
	for _, chapter := range report.Chapters {
		if chapter.NoteID == "c2" {
			t.Fatal("later chapter of a conflicting pair must be omitted")
		}
	}
	// The earlier chapter becomes the leading chapter instead of gaining
	// a synthesized neighbor 3s away.
	if len(report.Chapters) != 1 || report.SynthesizedLeading {
		t.Fatalf("unexpected chapters %+v", report.Chapters)
	}
	if report.Chapters[0].NoteID != "c1" || report.Chapters[0].OutputTime != 0 {
		t.Fatalf("first chapter must be c1 at 0, got %+v", report.Chapters[0])
	}
}

func TestFirstChapterNearStartBecomesLeading(t *testing.T) {
	// A lone chapter at output time 5 is closer to the start than the
	// minimum spacing; it moves to 00:00:00 rather than sitting 5s after
	// a synthesized chapter.
	p, plan := buildProject(t,
		timeline.Note{ID: "c1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 15, Text: "early"},
	)

	report := MapNotes(p, plan, Options{})
	if len(report.Chapters) != 1 || report.SynthesizedLeading {
		t.Fatalf("unexpected chapters %+v", report.Chapters)
	}
	got := report.Chapters[0]
	if got.NoteID != "c1" || got.OutputTime != 0 || got.Text != "early" {
		t.Fatalf("unexpected leading chapter %+v", got)
	}
	if len(report.Violations) != 0 {
		t.Fatalf("unexpected violations %+v", report.Violations)
	}
	if !strings.Contains(strings.Join(report.Advisories, "; "), "moved to 00:00:00") {
		t.Fatalf("expected relocation advisory, got %q", report.Advisories)
	}
}

func TestDuplicateChapterTimesKeepEarliest(t *testing.T) {
	p, plan := buildProject(t,
		timeline.Note{ID: "c1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 15, Text: "first"},
		timeline.Note{ID: "c2", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 15, Text: "second"},
	)

	report := MapNotes(p, plan, Options{})
	if len(report.Violations) != 1 {
		t.Fatalf("expected duplicate collision to be reported, got %+v", report.Violations)
	}
	if report.Violations[0].Later.NoteID != "c2" {
		t.Fatalf("expected c2 dropped, got %+v", report.Violations[0])
	}
}

func TestLeadingChapterLabelDerivedFromFirstKeep(t *testing.T) {
	p, plan := buildProject(t)

	report := MapNotes(p, plan, Options{})
	if !report.SynthesizedLeading || len(report.Chapters) != 1 {
		t.Fatalf("expected only the synthesized chapter, got %+v", report.Chapters)
	}
	if got := report.Chapters[0].Text; got != "Opening Exchange" {
		t.Fatalf("leading label = %q, want title-cased first segment label", got)
	}
}

func TestLeadingChapterLabelConfigurable(t *testing.T) {
	p, plan := buildProject(t)

	report := MapNotes(p, plan, Options{LeadingChapterLabel: "Intro"})
	if report.Chapters[0].Text != "Intro" {
		t.Fatalf("leading label = %q, want Intro", report.Chapters[0].Text)
	}
}

func TestChapterAtZeroSkipsSynthesis(t *testing.T) {
	p := timeline.NewProject("bout")
	if err := p.AddVideo(timeline.Video{ID: "v1", Filename: "bout.mp4", Duration: 120}); err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	if err := p.AddSegment(timeline.Segment{ID: "s1", VideoID: "v1", Start: 10, End: 40, Speed: 1, Label: "whole"}); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if err := p.AddNote(timeline.Note{ID: "c1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 10, Text: "from the top"}); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	plan, _ := timeline.Compile(p)

	report := MapNotes(p, plan, Options{})
	if report.SynthesizedLeading {
		t.Fatal("no synthesis expected when the first chapter maps to 0")
	}
	if len(report.Chapters) != 1 || report.Chapters[0].NoteID != "c1" {
		t.Fatalf("unexpected chapters %+v", report.Chapters)
	}
}

func TestAdvisories(t *testing.T) {
	p, plan := buildProject(t,
		timeline.Note{ID: "c1", VideoID: "v1", Kind: timeline.NoteChapter, Timestamp: 45, Text: "late chapter"},
	)

	report := MapNotes(p, plan, Options{})
	joined := strings.Join(report.Advisories, "; ")
	if !strings.Contains(joined, "at least 3 chapter") {
		t.Fatalf("expected chapter-count advisory, got %q", joined)
	}
	// Chapter at output time 15 in a 20s reel sits within 10s of the end.
	if !strings.Contains(joined, "of the end") {
		t.Fatalf("expected end-proximity advisory, got %q", joined)
	}
}
