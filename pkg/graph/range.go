package graph

import "fmt"

// Range is a closed interval [Min, Max]. Min <= Max is not enforced; callers
// that narrow ranges must tolerate reversed bounds.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange returns the range [min, max].
func NewRange(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// Contains reports whether v lies within the inclusive bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Width returns Max - Min, which is negative for a reversed range.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Tighter returns the intersection-style narrowing of two ranges: the larger
// of both minimums and the smaller of both maximums.
func Tighter(a, b Range) Range {
	min := a.Min
	if b.Min > min {
		min = b.Min
	}
	max := a.Max
	if b.Max < max {
		max = b.Max
	}
	return Range{Min: min, Max: max}
}
