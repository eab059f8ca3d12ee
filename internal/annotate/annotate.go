package annotate

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"boutreview/internal/timeline"
)

// ReasonNotIncluded explains why a note was left out of the mapped set.
const ReasonNotIncluded = "source region not included in output"

// DefaultMinChapterSpacing is the minimum output-time distance between
// consecutive chapters.
const DefaultMinChapterSpacing = 10.0

// MappedNote is a note translated into output-time coordinates.
type MappedNote struct {
	NoteID     string
	Kind       timeline.NoteKind
	OutputTime float64
	Text       string
}

// ExcludedNote is a note whose timestamp falls outside every included range.
type ExcludedNote struct {
	Note   timeline.Note
	Reason string
}

// SpacingViolation identifies two chapters closer than the minimum spacing.
// The later chapter is omitted from the written file; the earlier wins.
type SpacingViolation struct {
	Earlier MappedNote
	Later   MappedNote
}

// Options tunes chapter validation.
type Options struct {
	// LeadingChapterLabel names the chapter synthesized at 00:00:00 when the
	// first real chapter starts later. Empty derives a label from the first
	// keep unit, falling back to "Start".
	LeadingChapterLabel string
	// MinChapterSpacing overrides DefaultMinChapterSpacing when positive.
	MinChapterSpacing float64
}

// Report carries every mapped note plus everything the validation pass found.
// Nothing is silently dropped: excluded notes and spacing conflicts are
// always listed.
type Report struct {
	Comments           []MappedNote
	Chapters           []MappedNote
	Excluded           []ExcludedNote
	Violations         []SpacingViolation
	Advisories         []string
	SynthesizedLeading bool
}

var titleCaser = cases.Title(language.English)

// MapNotes translates every project note into output time and validates the
// chapter set. Comments are only subject to the membership test; chapters
// additionally get ordering, leading-chapter, and spacing validation.
func MapNotes(project *timeline.Project, plan *timeline.Plan, opts Options) Report {
	minSpacing := opts.MinChapterSpacing
	if minSpacing <= 0 {
		minSpacing = DefaultMinChapterSpacing
	}

	var report Report
	var chapters []MappedNote
	for _, note := range project.Notes() {
		out, ok := plan.OutputTime(note.VideoID, note.Timestamp)
		if !ok {
			report.Excluded = append(report.Excluded, ExcludedNote{Note: note, Reason: ReasonNotIncluded})
			continue
		}
		mapped := MappedNote{NoteID: note.ID, Kind: note.Kind, OutputTime: out, Text: strings.TrimSpace(note.Text)}
		switch note.Kind {
		case timeline.NoteChapter:
			if mapped.Text == "" {
				mapped.Text = "Chapter"
			}
			chapters = append(chapters, mapped)
		default:
			report.Comments = append(report.Comments, mapped)
		}
	}

	sort.SliceStable(report.Comments, func(i, j int) bool {
		return report.Comments[i].OutputTime < report.Comments[j].OutputTime
	})
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].OutputTime < chapters[j].OutputTime
	})

	// The chapter file must open at 00:00:00. A first chapter within the
	// minimum spacing of the start becomes the leading chapter itself:
	// synthesizing a second chapter next to it would immediately violate
	// the spacing rule it has to satisfy. Further out, a leading chapter
	// is synthesized.
	switch {
	case len(chapters) == 0 || chapters[0].OutputTime >= minSpacing:
		leading := MappedNote{Kind: timeline.NoteChapter, OutputTime: 0, Text: leadingLabel(plan, opts)}
		chapters = append([]MappedNote{leading}, chapters...)
		report.SynthesizedLeading = true
		report.Advisories = append(report.Advisories, fmt.Sprintf("synthesized leading chapter %q at 00:00:00", leading.Text))
	case chapters[0].OutputTime > 0:
		report.Advisories = append(report.Advisories, fmt.Sprintf("first chapter %q at %gs moved to 00:00:00", chapters[0].Text, chapters[0].OutputTime))
		chapters[0].OutputTime = 0
	}

	// Spacing runs over the full list, leading chapter included; the
	// earliest of a conflicting pair survives, including exact output-time
	// collisions.
	kept := chapters[:0:0]
	for _, chapter := range chapters {
		if len(kept) > 0 && chapter.OutputTime-kept[len(kept)-1].OutputTime < minSpacing {
			report.Violations = append(report.Violations, SpacingViolation{
				Earlier: kept[len(kept)-1],
				Later:   chapter,
			})
			continue
		}
		kept = append(kept, chapter)
	}
	report.Chapters = kept

	if len(report.Chapters) < 3 {
		report.Advisories = append(report.Advisories, "YouTube requires at least 3 chapter timestamps")
	}
	if plan.Duration > 0 {
		last := report.Chapters[len(report.Chapters)-1]
		if plan.Duration-last.OutputTime < minSpacing {
			report.Advisories = append(report.Advisories, fmt.Sprintf("last chapter is within %gs of the end", minSpacing))
		}
	}

	return report
}

func leadingLabel(plan *timeline.Plan, opts Options) string {
	if label := strings.TrimSpace(opts.LeadingChapterLabel); label != "" {
		return label
	}
	if unit, ok := plan.FirstKeep(); ok {
		if label := strings.TrimSpace(unit.Label); label != "" {
			return titleCaser.String(label)
		}
	}
	return "Start"
}
