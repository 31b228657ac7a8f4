// Package growth grows a mass-spring network on the skeleton of a parsed
// model by walking an expanded construction string.
package growth

import (
	"log"
	"math"
	"math/rand"

	"github.com/chazu/rct/pkg/grammar"
	"github.com/chazu/rct/pkg/graph"
)

const (
	// MaxRandomSpringAttempts bounds the rejection sampling of random springs.
	MaxRandomSpringAttempts = 1000

	// InputPreference is the chance that a random spring leaving a network
	// mass is redirected to an input.
	InputPreference = 0.2
)

// Developer turns a construction string into network masses and springs.
// A Developer is not safe for concurrent use; its generator is shared by
// every Develop call.
type Developer struct {
	rng    *rand.Rand
	errors []grammar.ParserError

	model  *grammar.Model
	cursor *graph.Mass
}

// NewDeveloper returns a developer. Without WithRand or WithSeed it draws
// from a time-seeded generator.
func NewDeveloper(opts ...Option) *Developer {
	d := &Developer{}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = defaultRand()
	}
	return d
}

// Errors returns the unknown letters of the last Develop run.
func (d *Developer) Errors() []grammar.ParserError {
	return d.errors
}

// HasErrors reports whether the last run met unknown letters.
func (d *Developer) HasErrors() bool {
	return len(d.errors) > 0
}

// Develop rebuilds the network part of model.Graph from construction.
//
// Existing network masses and their springs are removed first. Each letter
// with a createMass template adds a mass near the cursor; each letter with a
// createSpring template connects the cursor to a reachable mass and moves the
// cursor there. Other characters are reported with their position. Random
// masses and springs are added afterwards, then dead ends are pruned.
//
// Without input masses there is nothing to grow from and the graph is left
// untouched.
func (d *Developer) Develop(model *grammar.Model, construction string) []grammar.ParserError {
	d.errors = []grammar.ParserError{}
	g := model.Graph

	inputs := g.Inputs()
	if len(inputs) == 0 {
		log.Printf("growth: there are no input masses, add some to develop a network")
		return d.errors
	}

	d.model = model
	defer func() { d.model = nil }()

	g.RemoveMassSpringNetwork()
	d.cursor = inputs[0]

	for i, r := range construction {
		letter := string(r)
		switch {
		case model.IsMassCreation(letter):
			g.AddMasses(d.createMass(model.MassCreations[letter], model.MassCreations[letter]))
		case model.IsSpringCreation(letter):
			d.createSpring(model.SpringCreations[letter])
		default:
			d.errors = append(d.errors, grammar.ParserError{Line: i, Message: letter})
		}
	}

	d.addRandomMasses()
	d.addRandomSprings()
	d.removeDeadEnds()

	if !model.HasOption(grammar.ShowNotConnectedMasses) {
		g.RemoveNotConnectedNetworkMasses()
	}
	return d.errors
}

// createMass places a network mass around the cursor. The distance ranges
// are applied on a randomly chosen side of each axis; the X window is
// narrowed to the model's expansion range.
func (d *Developer) createMass(distanceX, distanceY graph.Range) *graph.Mass {
	xWindow := d.window(d.cursor.X, distanceX)
	yWindow := d.window(d.cursor.Y, distanceY)
	xWindow = graph.Tighter(xWindow, d.model.ExpansionRangeX)

	x := d.sample(xWindow)
	y := d.sample(yWindow)
	if !d.model.HasOption(grammar.AllowNegativeYValues) {
		y = math.Abs(y)
	}
	return graph.NewMass(x, y)
}

// window returns origin shifted by distance in a random direction.
func (d *Developer) window(origin float64, distance graph.Range) graph.Range {
	if d.rng.Intn(2) == 0 {
		return graph.NewRange(origin+distance.Min, origin+distance.Max)
	}
	return graph.NewRange(origin-distance.Max, origin-distance.Min)
}

func (d *Developer) sample(r graph.Range) float64 {
	return d.rng.Float64()*(r.Max-r.Min) + r.Min
}

// createSpring connects the cursor to a random admissible mass within r and
// moves the cursor there. Nothing happens when no mass qualifies.
func (d *Developer) createSpring(r graph.Range) {
	g := d.model.Graph
	exclude := d.model.HasOption(grammar.ExcludeSpringCrossings)

	var candidates []*graph.Mass
	for _, m := range g.ReachableMassesAndInputs(d.cursor, r, exclude) {
		if !g.HasSpringBetween(d.cursor, m) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return
	}

	target := candidates[d.rng.Intn(len(candidates))]
	g.AddSpring(d.cursor, target)
	d.cursor = target
}

// addRandomMasses places the requested number of extra masses around the
// cursor. Both distance windows come from the model: the expansion range on
// X, the shoulder-to-hand span on Y.
func (d *Developer) addRandomMasses() {
	m := d.model
	if m.RandomMasses <= 0 {
		return
	}
	if m.Shoulder == nil || m.Hand == nil {
		log.Printf("growth: random masses need a shoulder and a hand, skipping %d", m.RandomMasses)
		return
	}

	yRange := graph.NewRange(m.Shoulder.Y, m.Hand.Y)
	for i := 0; i < m.RandomMasses; i++ {
		mass := d.createMass(m.ExpansionRangeX, yRange)
		if mass.Y > m.Hand.Y {
			mass.Y = m.Hand.Y
		}
		m.Graph.AddMasses(mass)
	}
}

// addRandomSprings draws endpoint pairs from the network and input masses
// until the requested number of springs exists or the attempts run out.
func (d *Developer) addRandomSprings() {
	m := d.model
	g := m.Graph

	network := g.NetworkMasses()
	inputs := g.Inputs()
	if len(network) == 0 || m.RandomSprings <= 0 {
		return
	}

	pool := make([]*graph.Mass, 0, len(network)+len(inputs))
	pool = append(pool, network...)
	pool = append(pool, inputs...)

	created := 0
	for attempt := 0; attempt < MaxRandomSpringAttempts && created < m.RandomSprings; attempt++ {
		source := pool[d.rng.Intn(len(pool))]
		destination := pool[d.rng.Intn(len(pool))]

		if source.Type == graph.MassNetwork && d.rng.Float64() < InputPreference {
			if destination.Type != graph.MassInput {
				destination = inputs[d.rng.Intn(len(inputs))]
			}
		}

		switch {
		case source == destination:
			continue
		case source.Type == graph.MassInput && destination.Type == graph.MassInput:
			continue
		case g.HasSpringBetween(source, destination):
			continue
		}

		g.AddSpring(source, destination)
		created++
	}

	if created < m.RandomSprings {
		log.Printf("growth: placed %d of %d random springs", created, m.RandomSprings)
	}
}

// removeDeadEnds drops the only spring of every network mass that has
// exactly one. Counts are taken as the scan goes, so removing one spring can
// turn a later mass into a dead end.
func (d *Developer) removeDeadEnds() {
	g := d.model.Graph
	for _, mass := range g.NetworkMasses() {
		if springs := g.SpringsOf(mass); len(springs) == 1 {
			g.RemoveSpring(springs[0])
		}
	}
}

// Develop is a shorthand for NewDeveloper(opts...).Develop(model, construction).
func Develop(model *grammar.Model, construction string, opts ...Option) []grammar.ParserError {
	return NewDeveloper(opts...).Develop(model, construction)
}
