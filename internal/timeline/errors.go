package timeline

import "fmt"

// OverlapError reports a segment that would overlap an existing segment in
// the same video.
type OverlapError struct {
	SegmentID     string
	CollidesWith  string
	CollidesLabel string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("segment %s overlaps segment %s (%q)", e.SegmentID, e.CollidesWith, e.CollidesLabel)
}

// OutOfRangeError reports a timestamp or range that falls outside the owning
// video's duration.
type OutOfRangeError struct {
	Subject string
	Value   float64
	Min     float64
	Max     float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: value %g outside [%g, %g]", e.Subject, e.Value, e.Min, e.Max)
}
