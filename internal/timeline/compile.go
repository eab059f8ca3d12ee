package timeline

import "fmt"

// UnitKind distinguishes plan units sourced from segments from synthesized
// gap filler.
type UnitKind string

const (
	UnitKeep UnitKind = "keep"
	UnitGap  UnitKind = "gap"
)

// Unit is one contiguous piece of the output plan: a half-open source range
// [Start, End) of one video played at Speed, landing at OutStart in the
// produced video.
type Unit struct {
	Kind        UnitKind
	VideoID     string
	SegmentID   string
	Label       string
	Start       float64
	End         float64
	Speed       float64
	OutStart    float64
	OutDuration float64
}

// SourceDuration returns the length of the unit's source range.
func (u Unit) SourceDuration() float64 {
	return u.End - u.Start
}

// OutEnd returns the unit's end offset in output time.
func (u Unit) OutEnd() float64 {
	return u.OutStart + u.OutDuration
}

// Warning is a non-fatal condition raised during compilation.
type Warning struct {
	Code    string
	Message string
}

// WarnEmptyPlan marks a compilation that produced no units.
const WarnEmptyPlan = "empty_plan"

// WarnGapSpeedClamped marks a gap speed below 1.0 raised to 1.0.
const WarnGapSpeedClamped = "gap_speed_clamped"

// Plan is the ordered sequence of units defining the produced video. It is a
// derived artifact, rebuilt from the project on every export.
type Plan struct {
	Units    []Unit
	Duration float64

	videoUnits map[string][]int
}

// Compile converts a project snapshot into an output plan. Units are ordered
// by video display order, then by source start time; keep and gap units from
// the same video interleave by position. The returned warnings are
// non-fatal.
func Compile(p *Project) (*Plan, []Warning) {
	plan := &Plan{videoUnits: make(map[string][]int)}

	var warnings []Warning
	gapSpeed := p.Gaps.Speed
	if gapSpeed < 1 {
		gapSpeed = 1
		if p.Gaps.Enabled {
			warnings = append(warnings, Warning{
				Code:    WarnGapSpeedClamped,
				Message: fmt.Sprintf("gap speed %g is below 1.0; compiling gaps at 1x", p.Gaps.Speed),
			})
		}
	}

	cursorOut := 0.0
	for _, video := range p.Videos() {
		segments := p.SegmentsFor(video.ID)
		if len(segments) == 0 && !p.Gaps.Enabled {
			continue
		}
		cursorSrc := 0.0
		for _, seg := range segments {
			if p.Gaps.Enabled && seg.Start > cursorSrc {
				cursorOut = plan.append(gapUnit(video.ID, cursorSrc, seg.Start, gapSpeed), cursorOut)
			}
			cursorOut = plan.append(Unit{
				Kind:      UnitKeep,
				VideoID:   video.ID,
				SegmentID: seg.ID,
				Label:     seg.Label,
				Start:     seg.Start,
				End:       seg.End,
				Speed:     seg.Speed,
			}, cursorOut)
			cursorSrc = seg.End
		}
		if p.Gaps.Enabled && video.Duration > cursorSrc {
			cursorOut = plan.append(gapUnit(video.ID, cursorSrc, video.Duration, gapSpeed), cursorOut)
		}
	}
	plan.Duration = cursorOut

	if len(plan.Units) == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnEmptyPlan,
			Message: "no segments marked and gap filler disabled; export will be empty",
		})
	}
	return plan, warnings
}

// OutputTime maps a source timestamp of one video into output time. It
// returns false when the timestamp falls outside every included range. Unit
// ranges are half-open, so a timestamp exactly at a unit's end belongs to the
// next abutting unit if one exists.
func (pl *Plan) OutputTime(videoID string, sourceTime float64) (float64, bool) {
	for _, idx := range pl.videoUnits[videoID] {
		u := pl.Units[idx]
		if sourceTime >= u.Start && sourceTime < u.End {
			return u.OutStart + (sourceTime-u.Start)/u.Speed, true
		}
	}
	return 0, false
}

// FirstKeep returns the first segment-derived unit in plan order.
func (pl *Plan) FirstKeep() (Unit, bool) {
	for _, u := range pl.Units {
		if u.Kind == UnitKeep {
			return u, true
		}
	}
	return Unit{}, false
}

func (pl *Plan) append(u Unit, cursorOut float64) float64 {
	u.OutStart = cursorOut
	u.OutDuration = u.SourceDuration() / u.Speed
	pl.videoUnits[u.VideoID] = append(pl.videoUnits[u.VideoID], len(pl.Units))
	pl.Units = append(pl.Units, u)
	return u.OutEnd()
}

func gapUnit(videoID string, start, end, speed float64) Unit {
	return Unit{
		Kind:    UnitGap,
		VideoID: videoID,
		Label:   "Gap",
		Start:   start,
		End:     end,
		Speed:   speed,
	}
}
