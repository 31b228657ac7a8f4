package grammar

import (
	"log"
	"slices"

	"github.com/chazu/rct/pkg/graph"
)

// Option toggles a growth behavior. Options are spelled exactly as in the DSL.
type Option string

const (
	ShowNotConnectedMasses Option = "showNotConnectedMasses"
	ExcludeSpringCrossings Option = "excludeSpringCrossings"
	AllowNegativeYValues   Option = "allowNegativeYValues"
)

// KnownOptions lists every option the parser accepts.
var KnownOptions = []Option{ShowNotConnectedMasses, ExcludeSpringCrossings, AllowNegativeYValues}

// ParseOption resolves a DSL token, case-sensitively.
func ParseOption(token string) (Option, bool) {
	for _, o := range KnownOptions {
		if string(o) == token {
			return o, true
		}
	}
	return "", false
}

// OptionSet is the ordered set of options enabled by the DSL.
type OptionSet []Option

// Has reports whether o is enabled.
func (s OptionSet) Has(o Option) bool {
	return slices.Contains(s, o)
}

// add enables o, keeping the first occurrence's position.
func (s *OptionSet) add(o Option) {
	if !s.Has(o) {
		*s = append(*s, o)
	}
}

// DefaultExpansionRangeX applies when the DSL has no expansionRangeX line.
var DefaultExpansionRangeX = graph.NewRange(-1000, 1000)

// Model is everything the DSL declares. Skeleton masses are shared with
// Graph: Shoulder, Elbow, Hand and Inputs point at masses in the graph.
type Model struct {
	Shoulder *graph.Mass
	Elbow    *graph.Mass
	Hand     *graph.Mass
	Inputs   []*graph.Mass

	// Arm segments built after the scan, nil when the input count did not fit.
	UpperArmSegment *graph.Mass
	LowerArmSegment *graph.Mass

	ProductionRules []Rule
	MassCreations   map[string]graph.Range
	SpringCreations map[string]graph.Range
	RandomMasses    int
	RandomSprings   int
	Options         OptionSet
	ExpansionRangeX graph.Range

	Graph *graph.NetworkGraph
}

// NewModel returns an empty model with default settings and a fresh graph.
func NewModel() *Model {
	return &Model{
		Inputs:          []*graph.Mass{},
		ProductionRules: []Rule{},
		MassCreations:   make(map[string]graph.Range),
		SpringCreations: make(map[string]graph.Range),
		Options:         OptionSet{},
		ExpansionRangeX: DefaultExpansionRangeX,
		Graph:           graph.New(),
	}
}

// ProductionRule returns the first rule whose search string equals search.
func (m *Model) ProductionRule(search string) (Rule, bool) {
	return findRule(m.ProductionRules, search)
}

// IsMassCreation reports whether letter has a createMass template.
func (m *Model) IsMassCreation(letter string) bool {
	_, ok := m.MassCreations[letter]
	return ok
}

// IsSpringCreation reports whether letter has a createSpring template.
func (m *Model) IsSpringCreation(letter string) bool {
	_, ok := m.SpringCreations[letter]
	return ok
}

// HasOption reports whether o was enabled by an options line.
func (m *Model) HasOption(o Option) bool {
	return m.Options.Has(o)
}

// connectSegments builds the rigid arm segments. A segment exists only when
// exactly two inputs lie within the Y span of its joints, inclusive.
func (m *Model) connectSegments() {
	m.UpperArmSegment = nil
	if m.Shoulder != nil && m.Elbow != nil {
		inputs := m.inputsBetween(m.Shoulder.Y, m.Elbow.Y)
		if len(inputs) == 2 {
			seg := graph.NewTypedMass(m.Shoulder.X, m.Shoulder.Y, graph.MassArmSegment)
			m.Graph.AddMasses(seg)
			m.Graph.AddSpring(m.Shoulder, seg)
			m.Graph.AddSpring(m.Elbow, seg)
			m.Graph.AddSpring(inputs[0], seg)
			m.Graph.AddSpring(inputs[1], seg)
			m.UpperArmSegment = seg
		} else {
			log.Printf("grammar: upper arm needs 2 inputs between y=%g and y=%g, found %d", m.Shoulder.Y, m.Elbow.Y, len(inputs))
		}
	}

	m.LowerArmSegment = nil
	if m.Elbow != nil && m.Hand != nil {
		inputs := m.inputsBetween(m.Elbow.Y, m.Hand.Y)
		if len(inputs) == 2 {
			seg := graph.NewTypedMass(m.Elbow.X, m.Elbow.Y, graph.MassArmSegment)
			m.Graph.AddMasses(seg)
			m.Graph.AddSpring(m.Elbow, seg)
			m.Graph.AddSpring(m.Hand, seg)
			m.Graph.AddSpring(inputs[0], seg)
			m.Graph.AddSpring(inputs[1], seg)
			m.LowerArmSegment = seg
		} else {
			log.Printf("grammar: lower arm needs 2 inputs between y=%g and y=%g, found %d", m.Elbow.Y, m.Hand.Y, len(inputs))
		}
	}

	if m.UpperArmSegment != nil && m.LowerArmSegment != nil {
		m.Graph.AddSpring(m.UpperArmSegment, m.LowerArmSegment)
	}
}

func (m *Model) inputsBetween(start, end float64) []*graph.Mass {
	var out []*graph.Mass
	for _, in := range m.Inputs {
		if in.Y >= start && in.Y <= end {
			out = append(out, in)
		}
	}
	return out
}
