package grammar

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/rct/pkg/graph"
)

// Keyword starts every non-comment DSL line.
type Keyword string

const (
	KeywordShoulder        Keyword = "shoulder"
	KeywordElbow           Keyword = "elbow"
	KeywordHand            Keyword = "hand"
	KeywordInput           Keyword = "input"
	KeywordExpansionRangeX Keyword = "expansionRangeX"
	KeywordCreateMass      Keyword = "createMass"
	KeywordCreateSpring    Keyword = "createSpring"
	KeywordOptions         Keyword = "options"
	KeywordProductionRules Keyword = "productionRules"
	KeywordRandomMasses    Keyword = "randomMasses"
	KeywordRandomSprings   Keyword = "randomSprings"
)

// Keywords lists every keyword in matching order.
var Keywords = []Keyword{
	KeywordShoulder, KeywordElbow, KeywordHand, KeywordInput,
	KeywordExpansionRangeX, KeywordCreateMass, KeywordCreateSpring,
	KeywordOptions, KeywordProductionRules, KeywordRandomMasses, KeywordRandomSprings,
}

// MessageUnknownLine is reported for every line no keyword grammar accepts.
const MessageUnknownLine = "Cannot understand this line."

const (
	ws     = `[ \t]`
	number = `-?[0-9]+(?:\.[0-9]*)?`
	bounds = `\[` + ws + `*(` + number + `)` + ws + `*,` + ws + `*(` + number + `)` + ws + `*\]`
)

var (
	pointLine    = regexp.MustCompile(`^` + ws + `*(shoulder|elbow|hand|input)((?:` + ws + `+` + number + ws + `+` + number + `)+)` + ws + `*$`)
	rangeLine    = regexp.MustCompile(`^` + ws + `*expansionRangeX` + ws + `+` + bounds + ws + `*$`)
	creationLine = regexp.MustCompile(`^` + ws + `*(createMass|createSpring)` + ws + `+([a-zA-Z])` + ws + `+` + bounds + ws + `*$`)
	countLine    = regexp.MustCompile(`^` + ws + `*(randomMasses|randomSprings)` + ws + `+(-?[0-9]+)` + ws + `*$`)
	optionsLine  = regexp.MustCompile(`^` + ws + `*options((?:` + ws + `+[a-zA-Z]+)+)` + ws + `*$`)
	rulesLine    = regexp.MustCompile(`^` + ws + `*productionRules((?:` + ws + `+` + ruleBody + `)+)` + ws + `*$`)
	rulePair     = regexp.MustCompile(ruleBody)
)

const ruleBody = `([_a-zA-Z][_0-9a-zA-Z]*)` + ws + `*->` + ws + `*([-_a-zA-Z0-9]+)`

// GrammarParser turns DSL text into a Model. The zero value is ready to use;
// a parser may be reused, every Parse starts from scratch.
type GrammarParser struct {
	errorList
	model *Model
}

// NewGrammarParser returns a parser.
func NewGrammarParser() *GrammarParser {
	return &GrammarParser{}
}

// Model returns the result of the last Parse, or nil before the first run.
func (p *GrammarParser) Model() *Model {
	return p.model
}

// Parse reads text line by line. Lines are split on "\n"; a trailing "\r" is
// dropped. Unknown lines are reported and skipped, so the returned model is
// always usable.
func (p *GrammarParser) Parse(text string) (*Model, []ParserError) {
	p.reset()
	p.model = NewModel()

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if isEmpty(line) || isComment(line) {
			continue
		}
		if !p.parseLine(line) {
			p.add(i, MessageUnknownLine)
		}
	}

	p.model.connectSegments()
	return p.model, p.errors
}

// parseLine applies one keyword line to the model. It reports false when no
// keyword grammar matches.
func (p *GrammarParser) parseLine(line string) bool {
	m := p.model

	if g := pointLine.FindStringSubmatch(line); g != nil {
		fields := strings.Fields(g[2])
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return false
		}
		switch Keyword(g[1]) {
		case KeywordShoulder:
			m.Shoulder = graph.NewTypedMass(x, y, graph.MassShoulder)
			m.Graph.AddMasses(m.Shoulder)
		case KeywordElbow:
			m.Elbow = graph.NewTypedMass(x, y, graph.MassElbow)
			m.Graph.AddMasses(m.Elbow)
		case KeywordHand:
			m.Hand = graph.NewTypedMass(x, y, graph.MassHand)
			m.Graph.AddMasses(m.Hand)
		case KeywordInput:
			in := graph.NewTypedMass(x, y, graph.MassInput)
			m.Inputs = append(m.Inputs, in)
			m.Graph.AddMasses(in)
		}
		return true
	}

	if g := rangeLine.FindStringSubmatch(line); g != nil {
		r, ok := parseRange(g[1], g[2])
		if !ok {
			return false
		}
		m.ExpansionRangeX = r
		return true
	}

	if g := creationLine.FindStringSubmatch(line); g != nil {
		r, ok := parseRange(g[3], g[4])
		if !ok {
			return false
		}
		if Keyword(g[1]) == KeywordCreateMass {
			m.MassCreations[g[2]] = r
		} else {
			m.SpringCreations[g[2]] = r
		}
		return true
	}

	if g := countLine.FindStringSubmatch(line); g != nil {
		n, err := strconv.Atoi(g[2])
		if err != nil {
			return false
		}
		if Keyword(g[1]) == KeywordRandomMasses {
			m.RandomMasses = n
		} else {
			m.RandomSprings = n
		}
		return true
	}

	if g := optionsLine.FindStringSubmatch(line); g != nil {
		for _, token := range strings.Fields(g[1]) {
			o, ok := ParseOption(token)
			if !ok {
				log.Printf("grammar: did not understand option %q", token)
				continue
			}
			m.Options.add(o)
		}
		return true
	}

	if g := rulesLine.FindStringSubmatch(line); g != nil {
		for _, pair := range rulePair.FindAllStringSubmatch(g[1], -1) {
			m.ProductionRules = append(m.ProductionRules, Rule{Search: pair[1], Replace: pair[2]})
		}
		return true
	}

	return false
}

func parseRange(lo, hi string) (graph.Range, bool) {
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return graph.Range{}, false
	}
	max, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return graph.Range{}, false
	}
	return graph.NewRange(min, max), true
}

// Parse is a shorthand for NewGrammarParser().Parse(text).
func Parse(text string) (*Model, []ParserError) {
	return NewGrammarParser().Parse(text)
}
