package render

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Segment is one drawn line.
type Segment struct {
	P0 v2.Vec `json:"p0"`
	P1 v2.Vec `json:"p1"`
}

// Drawing is an in-memory Surface. Save is a no-op.
type Drawing struct {
	Segments []Segment `json:"segments"`
}

var _ Surface = (*Drawing)(nil)

// Line records a segment.
func (d *Drawing) Line(p0, p1 v2.Vec) {
	d.Segments = append(d.Segments, Segment{P0: p0, P1: p1})
}

// Save does nothing.
func (d *Drawing) Save() error {
	return nil
}

// SegmentCount returns the number of recorded segments.
func (d *Drawing) SegmentCount() int {
	return len(d.Segments)
}

// IsEmpty returns true if nothing was drawn.
func (d *Drawing) IsEmpty() bool {
	return len(d.Segments) == 0
}

// Bounds returns the axis-aligned bounding box of all segments. An empty
// drawing has zero bounds.
func (d *Drawing) Bounds() (min, max v2.Vec) {
	if d.IsEmpty() {
		return v2.Vec{}, v2.Vec{}
	}
	min = v2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max = v2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, s := range d.Segments {
		for _, p := range []v2.Vec{s.P0, s.P1} {
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
		}
	}
	return min, max
}

// Replay draws the recorded segments onto another surface.
func (d *Drawing) Replay(s Surface) {
	for _, seg := range d.Segments {
		s.Line(seg.P0, seg.P1)
	}
}
