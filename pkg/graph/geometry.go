package graph

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ConnectedTolerance is the distance below which two endpoints are treated
// as the same point.
const ConnectedTolerance = 1e-8

// relativeCCW returns the side of the directed segment a->b on which p lies:
// 1 counter-clockwise, -1 clockwise, 0 on the segment. Points collinear with
// but beyond the segment report the side of the nearer endpoint's extension,
// so touching endpoints and collinear overlaps count as intersections.
func relativeCCW(a, b, p v2.Vec) int {
	d := b.Sub(a)
	q := p.Sub(a)
	ccw := q.X*d.Y - q.Y*d.X
	if ccw == 0 {
		ccw = q.Dot(d)
		if ccw > 0 {
			q = q.Sub(d)
			ccw = q.Dot(d)
			if ccw < 0 {
				ccw = 0
			}
		}
	}
	switch {
	case ccw < 0:
		return -1
	case ccw > 0:
		return 1
	default:
		return 0
	}
}

// segmentsIntersect reports whether the closed segments p1-p2 and p3-p4 share
// at least one point.
func segmentsIntersect(p1, p2, p3, p4 v2.Vec) bool {
	return relativeCCW(p1, p2, p3)*relativeCCW(p1, p2, p4) <= 0 &&
		relativeCCW(p3, p4, p1)*relativeCCW(p3, p4, p2) <= 0
}

func samePoint(a, b v2.Vec) bool {
	return a.Sub(b).Length() < ConnectedTolerance
}

// connectedAtOnlyOneEnd reports whether exactly one endpoint pairing of the
// two springs coincides geometrically.
func connectedAtOnlyOneEnd(a, b *Spring) bool {
	a1, a2 := a.Segment()
	b1, b2 := b.Segment()

	a1b1 := samePoint(a1, b1)
	a1b2 := samePoint(a1, b2)
	a2b1 := samePoint(a2, b1)
	a2b2 := samePoint(a2, b2)

	return (a1b1 && !a2b2) ||
		(a1b2 && !a2b1) ||
		(a2b1 && !a1b2) ||
		(a2b2 && !a1b1)
}

// Crosses reports whether the two springs geometrically intersect without
// being joined at exactly one shared endpoint. Springs sharing both endpoints
// (including a spring compared with itself) cross.
func (s *Spring) Crosses(other *Spring) bool {
	a1, a2 := s.Segment()
	b1, b2 := other.Segment()

	if !segmentsIntersect(a1, a2, b1, b2) {
		return false
	}
	return !connectedAtOnlyOneEnd(s, other)
}
