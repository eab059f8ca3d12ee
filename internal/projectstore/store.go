package projectstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"boutreview/internal/fileutil"
	"boutreview/internal/timeline"
)

const documentVersion = 1

type document struct {
	Version   int           `json:"version"`
	CreatedAt string        `json:"created_at"`
	Name      string        `json:"name"`
	Gaps      gapPolicyDoc  `json:"gaps"`
	Medias    []mediaDoc    `json:"medias"`
	Segments  []segmentDoc  `json:"segments"`
	Notes     []noteDoc     `json:"notes"`
}

type gapPolicyDoc struct {
	Enabled bool    `json:"enabled"`
	Speed   float64 `json:"speed"`
}

type mediaDoc struct {
	ID               string  `json:"id"`
	Filename         string  `json:"filename"`
	Duration         float64 `json:"duration"`
	FPS              float64 `json:"fps,omitempty"`
	RotationProbe    int     `json:"rotation_probe"`
	RotationOverride *int    `json:"rotation_override,omitempty"`
	ImportedAt       string  `json:"imported_at,omitempty"`
}

type segmentDoc struct {
	ID      string  `json:"id"`
	MediaID string  `json:"media_id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speed   float64 `json:"speed,omitempty"`
	Label   string  `json:"label"`
}

type noteDoc struct {
	ID        string  `json:"id"`
	MediaID   string  `json:"media_id"`
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type"`
	Text      string  `json:"text,omitempty"`
}

// Load reads and validates the project document under base. Model invariants
// are re-enforced on load, so a hand-edited document with overlapping
// segments is rejected here rather than at export time.
func Load(base string) (*timeline.Project, error) {
	layout := NewLayout(base)
	data, err := os.ReadFile(layout.ProjectFile())
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", layout.ProjectFile(), err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("project version %d is newer than supported version %d", doc.Version, documentVersion)
	}

	name := doc.Name
	if name == "" {
		name = filepath.Base(base)
	}
	project := timeline.NewProject(name)
	if created, parseErr := time.Parse(time.RFC3339, doc.CreatedAt); parseErr == nil {
		project.CreatedAt = created
	}
	project.Gaps = timeline.GapPolicy{Enabled: doc.Gaps.Enabled, Speed: doc.Gaps.Speed}

	for _, media := range doc.Medias {
		video := timeline.Video{
			ID:               media.ID,
			Filename:         media.Filename,
			Duration:         media.Duration,
			FrameRate:        media.FPS,
			Rotation:         media.RotationProbe,
			RotationOverride: media.RotationOverride,
		}
		if imported, parseErr := time.Parse(time.RFC3339, media.ImportedAt); parseErr == nil {
			video.ImportedAt = imported
		}
		if err := project.AddVideo(video); err != nil {
			return nil, fmt.Errorf("load video %s: %w", media.ID, err)
		}
	}
	for _, seg := range doc.Segments {
		speed := seg.Speed
		if speed == 0 {
			speed = 1.0
		}
		err := project.AddSegment(timeline.Segment{
			ID:      seg.ID,
			VideoID: seg.MediaID,
			Start:   seg.Start,
			End:     seg.End,
			Speed:   speed,
			Label:   seg.Label,
		})
		if err != nil {
			return nil, fmt.Errorf("load segment %s: %w", seg.ID, err)
		}
	}
	for _, note := range doc.Notes {
		err := project.AddNote(timeline.Note{
			ID:        note.ID,
			VideoID:   note.MediaID,
			Kind:      timeline.NoteKind(note.Type),
			Timestamp: note.Timestamp,
			Text:      note.Text,
		})
		if err != nil {
			return nil, fmt.Errorf("load note %s: %w", note.ID, err)
		}
	}
	return project, nil
}

// Save writes the project document atomically.
func Save(base string, project *timeline.Project) error {
	layout := NewLayout(base)
	if err := os.MkdirAll(layout.Base, 0o755); err != nil {
		return fmt.Errorf("ensure project directory: %w", err)
	}

	doc := document{
		Version:   documentVersion,
		CreatedAt: project.CreatedAt.UTC().Format(time.RFC3339),
		Name:      project.Name,
		Gaps:      gapPolicyDoc{Enabled: project.Gaps.Enabled, Speed: project.Gaps.Speed},
		Medias:    make([]mediaDoc, 0, len(project.Videos())),
		Segments:  make([]segmentDoc, 0),
		Notes:     make([]noteDoc, 0),
	}
	for _, video := range project.Videos() {
		media := mediaDoc{
			ID:               video.ID,
			Filename:         video.Filename,
			Duration:         video.Duration,
			FPS:              video.FrameRate,
			RotationProbe:    video.Rotation,
			RotationOverride: video.RotationOverride,
		}
		if !video.ImportedAt.IsZero() {
			media.ImportedAt = video.ImportedAt.UTC().Format(time.RFC3339)
		}
		doc.Medias = append(doc.Medias, media)
	}
	for _, seg := range project.Segments() {
		doc.Segments = append(doc.Segments, segmentDoc{
			ID:      seg.ID,
			MediaID: seg.VideoID,
			Start:   seg.Start,
			End:     seg.End,
			Speed:   seg.Speed,
			Label:   seg.Label,
		})
	}
	for _, note := range project.Notes() {
		doc.Notes = append(doc.Notes, noteDoc{
			ID:        note.ID,
			MediaID:   note.VideoID,
			Timestamp: note.Timestamp,
			Type:      string(note.Kind),
			Text:      note.Text,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := fileutil.WriteFileAtomic(layout.ProjectFile(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}
