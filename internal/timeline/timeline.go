package timeline

import (
	"time"

	"github.com/google/uuid"
)

// NoteKind distinguishes timestamped annotations.
type NoteKind string

const (
	NoteComment NoteKind = "comment"
	NoteChapter NoteKind = "chapter"
)

// Valid reports whether the kind is one of the supported annotation kinds.
func (k NoteKind) Valid() bool {
	return k == NoteComment || k == NoteChapter
}

// Video is an imported source recording. Immutable once imported except for
// its position in the project order.
type Video struct {
	ID               string
	Filename         string
	Duration         float64
	FrameRate        float64
	Rotation         int
	RotationOverride *int
	ImportedAt       time.Time
}

// EffectiveRotation returns the user override when set, otherwise the probed
// rotation.
func (v Video) EffectiveRotation() int {
	if v.RotationOverride != nil {
		return *v.RotationOverride
	}
	return v.Rotation
}

// Segment is a user-marked keep-range within one video, played at its own
// speed.
type Segment struct {
	ID      string
	VideoID string
	Start   float64
	End     float64
	Speed   float64
	Label   string
}

// SourceDuration returns the length of the marked range in source seconds.
func (s Segment) SourceDuration() float64 {
	return s.End - s.Start
}

// Note is a timestamped annotation attached to a video, independent of any
// segment.
type Note struct {
	ID        string
	VideoID   string
	Kind      NoteKind
	Timestamp float64
	Text      string
}

// GapPolicy controls whether material between segments is retained as
// sped-up filler.
type GapPolicy struct {
	Enabled bool
	Speed   float64
}

// NewID generates a fresh identifier for videos, segments, and notes.
func NewID() string {
	return uuid.NewString()
}
