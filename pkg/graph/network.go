package graph

import "fmt"

// NetworkGraph owns an ordered sequence of masses and springs.
//
// The index of a mass is its first position in the mass sequence. Indices are
// kept in a lookup table that is rebuilt whenever masses are removed, so index
// queries during sorting do not scan the sequence.
//
// A NetworkGraph is not safe for concurrent use.
type NetworkGraph struct {
	masses  []*Mass
	springs []*Spring
	index   map[*Mass]int
}

// New returns an empty graph.
func New() *NetworkGraph {
	return &NetworkGraph{index: make(map[*Mass]int)}
}

// AddMasses appends masses in order. Adding a nil mass is a programming error.
func (g *NetworkGraph) AddMasses(masses ...*Mass) {
	for _, m := range masses {
		if m == nil {
			panic("graph: cannot add a nil mass")
		}
	}
	for _, m := range masses {
		if _, exists := g.index[m]; !exists {
			g.index[m] = len(g.masses)
		}
		g.masses = append(g.masses, m)
	}
}

// Masses returns the masses in insertion order. The slice is a copy; the
// masses are shared.
func (g *NetworkGraph) Masses() []*Mass {
	out := make([]*Mass, len(g.masses))
	copy(out, g.masses)
	return out
}

// Springs returns the springs in insertion order. The slice is a copy.
func (g *NetworkGraph) Springs() []*Spring {
	out := make([]*Spring, len(g.springs))
	copy(out, g.springs)
	return out
}

// MassCount returns the number of masses.
func (g *NetworkGraph) MassCount() int {
	return len(g.masses)
}

// SpringCount returns the number of springs.
func (g *NetworkGraph) SpringCount() int {
	return len(g.springs)
}

// Contains reports whether m is part of the graph.
func (g *NetworkGraph) Contains(m *Mass) bool {
	_, ok := g.index[m]
	return ok
}

// Index returns the first position of m in the mass sequence. Asking for a
// mass that is not in the graph is a programming error and panics.
func (g *NetworkGraph) Index(m *Mass) int {
	i, ok := g.index[m]
	if !ok {
		panic(fmt.Sprintf("graph: mass %s is not in this graph", m))
	}
	return i
}

func (g *NetworkGraph) massesOfType(t MassType) []*Mass {
	var out []*Mass
	for _, m := range g.masses {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (g *NetworkGraph) firstOfType(t MassType) *Mass {
	for _, m := range g.masses {
		if m.Type == t {
			return m
		}
	}
	return nil
}

// NetworkMasses returns all masses of type MassNetwork in order.
func (g *NetworkGraph) NetworkMasses() []*Mass {
	return g.massesOfType(MassNetwork)
}

// Inputs returns all input masses in order.
func (g *NetworkGraph) Inputs() []*Mass {
	return g.massesOfType(MassInput)
}

// Shoulder returns the first shoulder mass or nil.
func (g *NetworkGraph) Shoulder() *Mass {
	return g.firstOfType(MassShoulder)
}

// Elbow returns the first elbow mass or nil.
func (g *NetworkGraph) Elbow() *Mass {
	return g.firstOfType(MassElbow)
}

// Hand returns the first hand mass or nil.
func (g *NetworkGraph) Hand() *Mass {
	return g.firstOfType(MassHand)
}

// AddSpring connects source and destination and returns the new spring. The
// connection type is derived from the ordered endpoint types.
func (g *NetworkGraph) AddSpring(source, destination *Mass) *Spring {
	s := NewSpring(source, destination)
	g.springs = append(g.springs, s)
	return s
}

// SpringsOf returns every spring attached to m, in insertion order.
func (g *NetworkGraph) SpringsOf(m *Mass) []*Spring {
	var out []*Spring
	for _, s := range g.springs {
		if s.Connects(m) {
			out = append(out, s)
		}
	}
	return out
}

// HasSpringBetween reports whether a spring joins a and b in either direction.
func (g *NetworkGraph) HasSpringBetween(a, b *Mass) bool {
	for _, s := range g.springs {
		if s.Connects(a) && s.Connects(b) {
			return true
		}
	}
	return false
}

// RemoveSpring deletes s from the graph. It reports whether s was present.
func (g *NetworkGraph) RemoveSpring(s *Spring) bool {
	for i, candidate := range g.springs {
		if candidate == s {
			g.springs = append(g.springs[:i], g.springs[i+1:]...)
			return true
		}
	}
	return false
}

// ReachableMassesAndInputs returns the network and input masses, other than
// from, whose distance to from lies within r. With excludeCrossings set,
// candidates whose connecting spring would cross an existing spring are left
// out.
func (g *NetworkGraph) ReachableMassesAndInputs(from *Mass, r Range, excludeCrossings bool) []*Mass {
	var out []*Mass
	for _, candidate := range g.masses {
		if candidate == from {
			continue
		}
		if candidate.Type != MassNetwork && candidate.Type != MassInput {
			continue
		}
		if excludeCrossings && g.wouldCrossExisting(from, candidate) {
			continue
		}
		if r.Contains(from.Distance(candidate)) {
			out = append(out, candidate)
		}
	}
	return out
}

func (g *NetworkGraph) wouldCrossExisting(source, destination *Mass) bool {
	hypothetical := NewSpring(source, destination)
	for _, existing := range g.springs {
		if hypothetical.Crosses(existing) {
			return true
		}
	}
	return false
}

// RemoveNotConnectedNetworkMasses deletes every network mass without springs.
func (g *NetworkGraph) RemoveNotConnectedNetworkMasses() {
	kept := g.masses[:0]
	for _, m := range g.masses {
		if m.Type == MassNetwork && len(g.SpringsOf(m)) == 0 {
			continue
		}
		kept = append(kept, m)
	}
	g.setMasses(kept)
}

// RemoveMassSpringNetwork deletes all network masses and every spring
// touching one. Skeleton masses and the springs between them survive.
func (g *NetworkGraph) RemoveMassSpringNetwork() {
	kept := g.masses[:0]
	for _, m := range g.masses {
		if m.Type != MassNetwork {
			kept = append(kept, m)
		}
	}
	g.setMasses(kept)

	springs := g.springs[:0]
	for _, s := range g.springs {
		if s.Source.Type == MassNetwork || s.Destination.Type == MassNetwork {
			continue
		}
		springs = append(springs, s)
	}
	for i := len(springs); i < len(g.springs); i++ {
		g.springs[i] = nil
	}
	g.springs = springs
}

// Reset removes all masses and springs.
func (g *NetworkGraph) Reset() {
	g.masses = nil
	g.springs = nil
	g.index = make(map[*Mass]int)
}

// setMasses replaces the mass sequence and rebuilds the index table.
func (g *NetworkGraph) setMasses(masses []*Mass) {
	for i := len(masses); i < len(g.masses); i++ {
		g.masses[i] = nil
	}
	g.masses = masses
	g.index = make(map[*Mass]int, len(masses))
	for i, m := range masses {
		if _, exists := g.index[m]; !exists {
			g.index[m] = i
		}
	}
}
