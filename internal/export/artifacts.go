package export

import (
	"strings"

	"boutreview/internal/annotate"
	"boutreview/internal/fileutil"
	"boutreview/internal/timecode"
	"boutreview/internal/timeline"
)

// excludedMarker replaces the timestamp column for comments whose source
// region is not part of the output.
const excludedMarker = "--:--:--"

// WriteChapters writes the chapter text artifact: one "HH:MM:SS <label>"
// line per surviving chapter, strictly ascending, first line at 00:00:00.
func WriteChapters(path string, chapters []annotate.MappedNote) error {
	lines := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		lines = append(lines, timecode.Format(chapter.OutputTime)+" "+chapter.Text)
	}
	return writeLines(path, lines)
}

// WriteComments writes the comment text artifact: mapped comments in
// output-time order, followed by excluded comments explicitly marked so they
// are never silently dropped.
func WriteComments(path string, comments []annotate.MappedNote, excluded []annotate.ExcludedNote) error {
	lines := make([]string, 0, len(comments)+len(excluded))
	for _, comment := range comments {
		lines = append(lines, timecode.Format(comment.OutputTime)+" "+comment.Text)
	}
	for _, note := range excluded {
		if note.Note.Kind != timeline.NoteComment {
			continue
		}
		lines = append(lines, excludedMarker+" "+strings.TrimSpace(note.Note.Text)+" ("+note.Reason+")")
	}
	return writeLines(path, lines)
}

func writeLines(path string, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	return fileutil.WriteFileAtomic(path, []byte(content), 0o644)
}
