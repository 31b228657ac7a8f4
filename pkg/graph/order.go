package graph

import (
	"cmp"
	"slices"
)

// EndpointIndices returns the smaller and the larger index of the spring's
// endpoints, independent of which one is the source.
func (g *NetworkGraph) EndpointIndices(s *Spring) (lo, hi int) {
	src := g.Index(s.Source)
	dst := g.Index(s.Destination)
	if src < dst {
		return src, dst
	}
	return dst, src
}

// HigherMass returns the endpoint with the larger index.
func (g *NetworkGraph) HigherMass(s *Spring) *Mass {
	if g.Index(s.Source) > g.Index(s.Destination) {
		return s.Source
	}
	return s.Destination
}

// LowerMass returns the endpoint with the smaller index.
func (g *NetworkGraph) LowerMass(s *Spring) *Mass {
	if g.Index(s.Source) < g.Index(s.Destination) {
		return s.Source
	}
	return s.Destination
}

// CompareSprings orders springs for export: by the larger endpoint index,
// then by the smaller endpoint index, both ascending.
func (g *NetworkGraph) CompareSprings(a, b *Spring) int {
	aLo, aHi := g.EndpointIndices(a)
	bLo, bHi := g.EndpointIndices(b)
	if c := cmp.Compare(aHi, bHi); c != 0 {
		return c
	}
	return cmp.Compare(aLo, bLo)
}

// SortedSprings returns the springs in canonical export order. Springs with
// equal keys keep their insertion order.
func (g *NetworkGraph) SortedSprings() []*Spring {
	out := g.Springs()
	slices.SortStableFunc(out, g.CompareSprings)
	return out
}
