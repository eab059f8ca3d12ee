package timeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Project is the mutable in-memory model of one review session: an ordered
// list of videos, the segments marked on them, and their notes. All mutation
// goes through methods so structural invariants hold before compilation ever
// sees the data.
type Project struct {
	Name      string
	CreatedAt time.Time
	Gaps      GapPolicy

	videos   []Video
	segments []Segment
	notes    []Note
}

// NewProject creates an empty project.
func NewProject(name string) *Project {
	return &Project{
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// AddVideo appends a video to the project order.
func (p *Project) AddVideo(v Video) error {
	if strings.TrimSpace(v.ID) == "" {
		return errors.New("video id must not be empty")
	}
	if v.Duration <= 0 {
		return &OutOfRangeError{Subject: fmt.Sprintf("video %s duration", v.ID), Value: v.Duration, Min: 0, Max: v.Duration}
	}
	if _, ok := p.videoByID(v.ID); ok {
		return fmt.Errorf("video %s already present", v.ID)
	}
	p.videos = append(p.videos, v)
	return nil
}

// Videos returns the videos in display order.
func (p *Project) Videos() []Video {
	out := make([]Video, len(p.videos))
	copy(out, p.videos)
	return out
}

// VideoByID looks up a video by identifier.
func (p *Project) VideoByID(id string) (Video, bool) {
	return p.videoByID(id)
}

// ReorderVideo moves the video with the given id to the target position.
func (p *Project) ReorderVideo(id string, position int) error {
	index := -1
	for i, v := range p.videos {
		if v.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("video %s not found", id)
	}
	if position < 0 || position >= len(p.videos) {
		return fmt.Errorf("position %d out of range", position)
	}
	video := p.videos[index]
	p.videos = append(p.videos[:index], p.videos[index+1:]...)
	rest := append([]Video{}, p.videos[position:]...)
	p.videos = append(append(p.videos[:position:position], video), rest...)
	return nil
}

// AddSegment validates and inserts a segment. Segments within one video must
// not overlap; touching endpoints are allowed.
func (p *Project) AddSegment(s Segment) error {
	if err := p.validateSegment(s, ""); err != nil {
		return err
	}
	p.segments = append(p.segments, s)
	return nil
}

// UpdateSegment replaces the stored segment with the same ID after
// re-validating bounds and overlap against its siblings.
func (p *Project) UpdateSegment(s Segment) error {
	index := -1
	for i, existing := range p.segments {
		if existing.ID == s.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("segment %s not found", s.ID)
	}
	if err := p.validateSegment(s, s.ID); err != nil {
		return err
	}
	p.segments[index] = s
	return nil
}

// RemoveSegment deletes a segment, reporting whether it existed.
func (p *Project) RemoveSegment(id string) bool {
	for i, s := range p.segments {
		if s.ID == id {
			p.segments = append(p.segments[:i], p.segments[i+1:]...)
			return true
		}
	}
	return false
}

// SegmentsFor returns the segments of one video in source-time order.
func (p *Project) SegmentsFor(videoID string) []Segment {
	out := make([]Segment, 0, 4)
	for _, s := range p.segments {
		if s.VideoID == videoID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// Segments returns every segment ordered by video display order, then source
// start time.
func (p *Project) Segments() []Segment {
	out := make([]Segment, 0, len(p.segments))
	for _, v := range p.videos {
		out = append(out, p.SegmentsFor(v.ID)...)
	}
	return out
}

// AddNote validates and inserts a note.
func (p *Project) AddNote(n Note) error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("note id must not be empty")
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("note %s: unknown kind %q", n.ID, n.Kind)
	}
	video, ok := p.videoByID(n.VideoID)
	if !ok {
		return fmt.Errorf("note %s references unknown video %s", n.ID, n.VideoID)
	}
	if n.Timestamp < 0 || n.Timestamp > video.Duration {
		return &OutOfRangeError{Subject: fmt.Sprintf("note %s timestamp", n.ID), Value: n.Timestamp, Min: 0, Max: video.Duration}
	}
	p.notes = append(p.notes, n)
	return nil
}

// RemoveNote deletes a note, reporting whether it existed.
func (p *Project) RemoveNote(id string) bool {
	for i, n := range p.notes {
		if n.ID == id {
			p.notes = append(p.notes[:i], p.notes[i+1:]...)
			return true
		}
	}
	return false
}

// Notes returns every note ordered by video display order, then timestamp.
func (p *Project) Notes() []Note {
	out := make([]Note, 0, len(p.notes))
	for _, v := range p.videos {
		out = append(out, p.NotesFor(v.ID)...)
	}
	return out
}

// NotesFor returns the notes of one video in timestamp order.
func (p *Project) NotesFor(videoID string) []Note {
	out := make([]Note, 0, 4)
	for _, n := range p.notes {
		if n.VideoID == videoID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

func (p *Project) validateSegment(s Segment, ignoreID string) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("segment id must not be empty")
	}
	if strings.TrimSpace(s.Label) == "" {
		return fmt.Errorf("segment %s: label must not be empty", s.ID)
	}
	if s.Speed <= 0 {
		return fmt.Errorf("segment %s: speed must be positive, got %g", s.ID, s.Speed)
	}
	video, ok := p.videoByID(s.VideoID)
	if !ok {
		return fmt.Errorf("segment %s references unknown video %s", s.ID, s.VideoID)
	}
	if s.Start < 0 || s.Start >= video.Duration {
		return &OutOfRangeError{Subject: fmt.Sprintf("segment %s start", s.ID), Value: s.Start, Min: 0, Max: video.Duration}
	}
	if s.End <= s.Start || s.End > video.Duration {
		return &OutOfRangeError{Subject: fmt.Sprintf("segment %s end", s.ID), Value: s.End, Min: s.Start, Max: video.Duration}
	}
	for _, existing := range p.segments {
		if existing.VideoID != s.VideoID || existing.ID == ignoreID {
			continue
		}
		if s.Start < existing.End && existing.Start < s.End {
			return &OverlapError{SegmentID: s.ID, CollidesWith: existing.ID, CollidesLabel: existing.Label}
		}
	}
	return nil
}

func (p *Project) videoByID(id string) (Video, bool) {
	for _, v := range p.videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}
