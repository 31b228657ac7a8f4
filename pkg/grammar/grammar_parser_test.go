package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/rct/pkg/graph"
)

const armDSL = `shoulder 0 1
input 0 2
input 0 10
elbow 0 11
input 0 12
input 0 20
hand 0 21`

func assertMass(t *testing.T, m *graph.Mass, x, y float64, typ graph.MassType) {
	t.Helper()
	assert.InDelta(t, x, m.X, 1e-9, "x of %s", typ)
	assert.InDelta(t, y, m.Y, 1e-9, "y of %s", typ)
	assert.Equal(t, typ, m.Type)
}

func TestParseEmptyText(t *testing.T) {
	p := NewGrammarParser()
	model, errs := p.Parse("")

	assert.Empty(t, errs)
	assert.False(t, p.HasErrors())
	require.NotNil(t, model)
	assert.Zero(t, model.Graph.MassCount())
	assert.Equal(t, DefaultExpansionRangeX, model.ExpansionRangeX)
	assert.NotNil(t, model.MassCreations)
	assert.NotNil(t, model.SpringCreations)
}

func TestParseSkeletonWithoutInputs(t *testing.T) {
	model, errs := Parse("shoulder 0 1\nelbow 0 11\nhand 0 21")
	require.Empty(t, errs)

	masses := model.Graph.Masses()
	require.Len(t, masses, 3)
	assertMass(t, masses[0], 0, 1, graph.MassShoulder)
	assertMass(t, masses[1], 0, 11, graph.MassElbow)
	assertMass(t, masses[2], 0, 21, graph.MassHand)
	assert.Zero(t, model.Graph.SpringCount())
	assert.Nil(t, model.UpperArmSegment)
	assert.Nil(t, model.LowerArmSegment)
}

func TestParseArmSegments(t *testing.T) {
	model, errs := Parse(armDSL)
	require.Empty(t, errs)

	m := model.Graph.Masses()
	require.Len(t, m, 9)
	assertMass(t, m[0], 0, 1, graph.MassShoulder)
	assertMass(t, m[1], 0, 2, graph.MassInput)
	assertMass(t, m[2], 0, 10, graph.MassInput)
	assertMass(t, m[3], 0, 11, graph.MassElbow)
	assertMass(t, m[4], 0, 12, graph.MassInput)
	assertMass(t, m[5], 0, 20, graph.MassInput)
	assertMass(t, m[6], 0, 21, graph.MassHand)
	assertMass(t, m[7], 0, 1, graph.MassArmSegment)
	assertMass(t, m[8], 0, 11, graph.MassArmSegment)

	want := []struct {
		src, dst int
		typ      graph.ConnectionType
	}{
		{0, 7, graph.ConnectionRobotArmBase},
		{3, 7, graph.ConnectionFixed},
		{1, 7, graph.ConnectionFixed},
		{2, 7, graph.ConnectionFixed},
		{3, 8, graph.ConnectionFixed},
		{6, 8, graph.ConnectionFixed},
		{4, 8, graph.ConnectionFixed},
		{5, 8, graph.ConnectionFixed},
		{7, 8, graph.ConnectionRobotArmJoint},
	}
	springs := model.Graph.Springs()
	require.Len(t, springs, len(want))
	for i, w := range want {
		assert.Same(t, m[w.src], springs[i].Source, "spring %d source", i)
		assert.Same(t, m[w.dst], springs[i].Destination, "spring %d destination", i)
		assert.Equal(t, w.typ, springs[i].ConnectionType(), "spring %d type", i)
	}

	assert.Same(t, m[7], model.UpperArmSegment)
	assert.Same(t, m[8], model.LowerArmSegment)
}

func TestParseSharesMassesWithGraph(t *testing.T) {
	model, _ := Parse(armDSL)

	assert.Same(t, model.Shoulder, model.Graph.Shoulder())
	assert.Same(t, model.Elbow, model.Graph.Elbow())
	assert.Same(t, model.Hand, model.Graph.Hand())
	assert.Equal(t, model.Inputs, model.Graph.Inputs())
	require.Len(t, model.Inputs, 4)
	assert.InDelta(t, 2.0, model.Inputs[0].Y, 1e-9)
	assert.InDelta(t, 20.0, model.Inputs[3].Y, 1e-9)
}

func TestParseOnlyOneArmSegment(t *testing.T) {
	model, errs := Parse("shoulder 0 1\ninput 0 2\ninput 0 10\nelbow 0 11\ninput 0 12\nhand 0 21")
	require.Empty(t, errs)

	assert.NotNil(t, model.UpperArmSegment)
	assert.Nil(t, model.LowerArmSegment)
	assert.Equal(t, 4, model.Graph.SpringCount())
}

func TestParseSkeletonOverwrite(t *testing.T) {
	model, errs := Parse("hand 1 1\nhand 2 2")
	require.Empty(t, errs)

	assert.Equal(t, 2, model.Graph.MassCount(), "every occurrence is added to the graph")
	assert.InDelta(t, 2.0, model.Hand.X, 1e-9, "the model keeps the last one")
	assert.Same(t, model.Graph.Masses()[0], model.Graph.Hand())
}

func TestParseFirstCoordinatePairWins(t *testing.T) {
	model, errs := Parse("hand 5 6 -7.1 -90\nshoulder 5.2 -6.4")
	require.Empty(t, errs)

	assertMass(t, model.Hand, 5, 6, graph.MassHand)
	assertMass(t, model.Shoulder, 5.2, -6.4, graph.MassShoulder)
	assert.Equal(t, 2, model.Graph.MassCount())
}

func TestParseKeywordLines(t *testing.T) {
	model, errs := Parse(`
# templates
expansionRangeX [-10.1, 4.3]
createMass A [4.2, 4.4]
createSpring	b	[ -1 , 7. ]
randomMasses 12
randomSprings -3
options showNotConnectedMasses two allowNegativeYValues showNotConnectedMasses
productionRules x -> y a->b C->DD_e
productionRules A->B
`)
	require.Empty(t, errs)

	assert.InDelta(t, -10.1, model.ExpansionRangeX.Min, 1e-9)
	assert.InDelta(t, 4.3, model.ExpansionRangeX.Max, 1e-9)

	require.True(t, model.IsMassCreation("A"))
	assert.Equal(t, graph.NewRange(4.2, 4.4), model.MassCreations["A"])
	assert.False(t, model.IsMassCreation("b"))

	require.True(t, model.IsSpringCreation("b"))
	assert.Equal(t, graph.NewRange(-1, 7), model.SpringCreations["b"])

	assert.Equal(t, 12, model.RandomMasses)
	assert.Equal(t, -3, model.RandomSprings)

	assert.Equal(t, OptionSet{ShowNotConnectedMasses, AllowNegativeYValues}, model.Options)
	assert.True(t, model.HasOption(AllowNegativeYValues))
	assert.False(t, model.HasOption(ExcludeSpringCrossings))

	assert.Equal(t, []Rule{
		{Search: "x", Replace: "y"},
		{Search: "a", Replace: "b"},
		{Search: "C", Replace: "DD_e"},
		{Search: "A", Replace: "B"},
	}, model.ProductionRules)

	r, ok := model.ProductionRule("a")
	assert.True(t, ok)
	assert.Equal(t, "b", r.Replace)
	_, ok = model.ProductionRule("missing")
	assert.False(t, ok)
}

func TestParseRulesWithIdentifierSearch(t *testing.T) {
	model, errs := Parse("productionRules grow_1->AB _x->-")
	require.Empty(t, errs)

	assert.Equal(t, []Rule{{"grow_1", "AB"}, {"_x", "-"}}, model.ProductionRules)
}

func TestParseErrors(t *testing.T) {
	p := NewGrammarParser()
	_, errs := p.Parse("var e = f \n x - > 234\n  y-->hello")

	assert.True(t, p.HasErrors())
	require.Len(t, errs, 3)
	for i, e := range errs {
		assert.Equal(t, i, e.Line)
		assert.Equal(t, MessageUnknownLine, e.Message)
	}
}

func TestParseErrorsKeepLineIndices(t *testing.T) {
	_, errs := Parse("shoulder 0 0\n\n# note\nhand 23\ncreateMass AB [1, 2]\nrandomMasses 1.5\nexpansionRangeX [1 2]\nelbow 0 5")

	lines := make([]int, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Line)
	}
	assert.Equal(t, []int{3, 4, 5, 6}, lines)
}

func TestParseContinuesAfterErrors(t *testing.T) {
	model, errs := Parse("nonsense\nshoulder 1 2")

	assert.Len(t, errs, 1)
	require.NotNil(t, model.Shoulder)
	assert.InDelta(t, 2.0, model.Shoulder.Y, 1e-9)
}

func TestParseCarriageReturns(t *testing.T) {
	model, errs := Parse("shoulder 0 1\r\nhand 0 21\r\n")

	assert.Empty(t, errs)
	assert.NotNil(t, model.Shoulder)
	assert.NotNil(t, model.Hand)
}

func TestParseKeywordsAreCaseSensitive(t *testing.T) {
	_, errs := Parse("Shoulder 0 1\nOPTIONS showNotConnectedMasses")
	assert.Len(t, errs, 2)
}

func TestParserStartsOverOnEveryRun(t *testing.T) {
	p := NewGrammarParser()
	first, _ := p.Parse(armDSL + "\nbroken line")
	second, errs := p.Parse("shoulder 0 0")

	assert.Empty(t, errs)
	assert.Empty(t, p.Errors())
	assert.NotSame(t, first.Graph, second.Graph)
	assert.Equal(t, 1, second.Graph.MassCount())
	assert.Same(t, second, p.Model())
}

func TestParserInterface(t *testing.T) {
	var parsers []Parser = []Parser{NewGrammarParser(), NewExpander(nil)}
	for _, p := range parsers {
		assert.False(t, p.HasErrors())
	}
}

func TestParseOption(t *testing.T) {
	for _, o := range KnownOptions {
		got, ok := ParseOption(string(o))
		assert.True(t, ok)
		assert.Equal(t, o, got)
	}
	_, ok := ParseOption("shownotconnectedmasses")
	assert.False(t, ok)
}
