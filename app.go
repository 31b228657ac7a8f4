package main

import (
	"log"

	"github.com/chazu/rct/pkg/engine"
	"github.com/chazu/rct/pkg/export"
	"github.com/chazu/rct/pkg/graph"
	"github.com/chazu/rct/pkg/growth"
	"github.com/chazu/rct/pkg/render"
)

// App runs the pipeline and shapes its output for JSON consumers.
type App struct {
	engine *engine.Engine
	seed   *int64
}

// DiagnosticData is a JSON-serializable pipeline or script error.
type DiagnosticData struct {
	Stage   string `json:"stage"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// BoundsData is the bounding box of the drawn network.
type BoundsData struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// GrowResult is the full result of one run.
type GrowResult struct {
	Construction string           `json:"construction"`
	Network      export.Snapshot  `json:"network"`
	Segments     []render.Segment `json:"segments"`
	Bounds       BoundsData       `json:"bounds"`
	Errors       []DiagnosticData `json:"errors"`
	Warnings     []DiagnosticData `json:"warnings"`
	Validation   []DiagnosticData `json:"validation"`

	graph *graph.NetworkGraph
}

// Graph returns the grown network, empty when the run failed.
func (r GrowResult) Graph() *graph.NetworkGraph {
	if r.graph == nil {
		return graph.New()
	}
	return r.graph
}

// NewApp creates an App. A non-nil seed makes every run reproducible.
func NewApp(cfg Config) *App {
	opts := []engine.Option{engine.WithTimeout(cfg.EvalTimeout)}
	if cfg.Seed != nil {
		opts = append(opts, engine.WithSeed(*cfg.Seed))
	}
	return &App{
		engine: engine.NewEngine(opts...),
		seed:   cfg.Seed,
	}
}

func newResult() GrowResult {
	return GrowResult{
		Network:    export.TakeSnapshot(graph.New()),
		Segments:   []render.Segment{},
		Errors:     []DiagnosticData{},
		Warnings:   []DiagnosticData{},
		Validation: []DiagnosticData{},
	}
}

// Grow parses dsl, expands seed and develops the network. Problems in the
// user's text are reported as warnings; the network is always returned.
func (a *App) Grow(dsl, seed string) GrowResult {
	return a.GrowRequest(growth.Request{DSL: dsl, Seed: seed})
}

// GrowRequest is Grow with every pipeline knob exposed.
func (a *App) GrowRequest(req growth.Request) GrowResult {
	var opts []growth.Option
	if a.seed != nil {
		opts = append(opts, growth.WithSeed(*a.seed))
	}
	res := req.Run(opts...)

	result := newResult()
	result.Construction = res.Construction
	for _, d := range res.Diagnostics {
		result.Warnings = append(result.Warnings, DiagnosticData{
			Stage:   string(d.Stage),
			Line:    d.Line,
			Message: d.Message,
		})
	}
	result.setNetwork(res.Model.Graph)
	return result
}

// Evaluate runs a pipeline script and returns the network it grew.
func (a *App) Evaluate(source string) GrowResult {
	result := newResult()

	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, DiagnosticData{Stage: "script", Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, DiagnosticData{
			Stage:   w.Stage,
			Line:    w.Line,
			Message: w.Message,
		})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, DiagnosticData{
				Stage:   "script",
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Construction = res.Construction
	result.setNetwork(res.Graph)
	return result
}

func (r *GrowResult) setNetwork(g *graph.NetworkGraph) {
	r.graph = g
	r.Network = export.TakeSnapshot(g)

	var d render.Drawing
	render.Draw(g, &d)
	if !d.IsEmpty() {
		r.Segments = d.Segments
	}
	lo, hi := d.Bounds()
	r.Bounds = BoundsData{MinX: lo.X, MinY: lo.Y, MaxX: hi.X, MaxY: hi.Y}

	// Blocking findings are errors; the rest are listed under Validation.
	check := graph.Validate(g)
	for _, e := range check.Errors {
		r.Errors = append(r.Errors, DiagnosticData{Stage: "validate", Message: e.Error()})
	}
	for _, w := range check.Warnings {
		r.Validation = append(r.Validation, DiagnosticData{Stage: "validate", Message: w.Error()})
	}
}
