package growth

import (
	"fmt"

	"github.com/chazu/rct/pkg/grammar"
)

// Stage names the pipeline step that reported a Diagnostic.
type Stage string

const (
	StageGrammar Stage = "grammar"
	StageExpand  Stage = "expand"
	StageDevelop Stage = "develop"
)

// Diagnostic is a ParserError tagged with the stage that produced it.
type Diagnostic struct {
	Stage   Stage  `json:"stage"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %d: %s", d.Stage, d.Line, d.Message)
}

// Result is the outcome of Grow. Diagnostics is never nil.
type Result struct {
	Model        *grammar.Model
	Construction string
	Diagnostics  []Diagnostic
}

// Request describes one pipeline run.
type Request struct {
	DSL  string
	Seed string

	// Construction, when set, is developed as is and Seed is not expanded.
	Construction string

	// RandomMasses and RandomSprings override the counts the DSL declares.
	RandomMasses  *int
	RandomSprings *int
}

// Run parses the DSL, expands the seed with the parsed rules and develops
// the expansion. Each stage runs even when an earlier one reported problems.
func (req Request) Run(opts ...Option) *Result {
	res := &Result{Diagnostics: []Diagnostic{}}

	model, errs := grammar.Parse(req.DSL)
	res.Model = model
	res.add(StageGrammar, errs)

	if req.RandomMasses != nil {
		model.RandomMasses = *req.RandomMasses
	}
	if req.RandomSprings != nil {
		model.RandomSprings = *req.RandomSprings
	}

	construction := req.Construction
	if construction == "" {
		construction, errs = grammar.Expand(req.Seed, model.ProductionRules)
		res.add(StageExpand, errs)
	}
	res.Construction = construction

	res.add(StageDevelop, Develop(model, construction, opts...))
	return res
}

// Grow is a shorthand for Request{DSL: dsl, Seed: seed}.Run(opts...).
func Grow(dsl, seed string, opts ...Option) *Result {
	return Request{DSL: dsl, Seed: seed}.Run(opts...)
}

func (r *Result) add(stage Stage, errs []grammar.ParserError) {
	for _, e := range errs {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Stage: stage, Line: e.Line, Message: e.Message})
	}
}
