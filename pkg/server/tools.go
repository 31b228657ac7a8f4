package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chazu/rct/pkg/export"
	"github.com/chazu/rct/pkg/grammar"
	"github.com/chazu/rct/pkg/growth"
	"github.com/chazu/rct/pkg/store"
)

// Arguments structs

type ParseGrammarArgs struct {
	Grammar string `json:"grammar" jsonschema:"The DSL text declaring the arm skeleton, creation templates and production rules"`
}

type ExpandSeedArgs struct {
	Grammar string `json:"grammar" jsonschema:"The DSL text whose production rules rewrite the seed"`
	Seed    string `json:"seed" jsonschema:"The seed string, loops written as (n){body}"`
}

type DevelopNetworkArgs struct {
	Grammar       string `json:"grammar" jsonschema:"The DSL text"`
	Seed          string `json:"seed,omitempty" jsonschema:"Seed expanded with the production rules"`
	Construction  string `json:"construction,omitempty" jsonschema:"Construction program to develop directly instead of expanding the seed"`
	RandomSeed    *int64 `json:"random_seed,omitempty" jsonschema:"Seed for the random generator, for reproducible networks"`
	RandomMasses  *int   `json:"random_masses,omitempty" jsonschema:"Overrides the randomMasses count of the grammar"`
	RandomSprings *int   `json:"random_springs,omitempty" jsonschema:"Overrides the randomSprings count of the grammar"`
}

type ExportCSVArgs struct {
	NetworkID  int64  `json:"network_id,omitempty" jsonschema:"Id of a saved network; when set the grammar fields are ignored"`
	Grammar    string `json:"grammar,omitempty" jsonschema:"The DSL text"`
	Seed       string `json:"seed,omitempty" jsonschema:"Seed expanded with the production rules"`
	RandomSeed *int64 `json:"random_seed,omitempty" jsonschema:"Seed for the random generator"`
}

type SaveNetworkArgs struct {
	Name       string `json:"name" jsonschema:"Name to store the network under"`
	Grammar    string `json:"grammar" jsonschema:"The DSL text"`
	Seed       string `json:"seed" jsonschema:"Seed expanded with the production rules"`
	RandomSeed *int64 `json:"random_seed,omitempty" jsonschema:"Seed for the random generator"`
}

type ListNetworksArgs struct{}

// Result payloads

type grammarSummary struct {
	Masses          int                   `json:"masses"`
	Inputs          int                   `json:"inputs"`
	ArmSegments     int                   `json:"arm_segments"`
	Rules           []string              `json:"rules"`
	MassCreations   map[string]string     `json:"mass_creations"`
	SpringCreations map[string]string     `json:"spring_creations"`
	RandomMasses    int                   `json:"random_masses"`
	RandomSprings   int                   `json:"random_springs"`
	Options         grammar.OptionSet     `json:"options"`
	ExpansionRangeX string                `json:"expansion_range_x"`
	Errors          []grammar.ParserError `json:"errors"`
}

type expansionSummary struct {
	Construction string                `json:"construction"`
	Length       int                   `json:"length"`
	Errors       []grammar.ParserError `json:"errors"`
}

type networkSummary struct {
	Construction string              `json:"construction"`
	Masses       int                 `json:"masses"`
	Springs      int                 `json:"springs"`
	Network      export.Snapshot     `json:"network"`
	Diagnostics  []growth.Diagnostic `json:"diagnostics"`
}

type csvSummary struct {
	Masses        string `json:"masses_csv"`
	ConnectionMap string `json:"connection_map_csv"`
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Encoding result failed: %v", err))
	}
	return textResult(string(b))
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "parse_grammar",
		Description: "Parses a growth DSL and summarizes the model it declares",
	}, s.parseGrammar)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "expand_seed",
		Description: "Expands a seed into a construction program with the grammar's production rules",
	}, s.expandSeed)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "develop_network",
		Description: "Runs the full pipeline and returns the grown mass-spring network",
	}, s.developNetwork)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_csv",
		Description: "Returns the masses and connection map CSV files of a grown or saved network",
	}, s.exportCSV)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_network",
		Description: "Grows a network and stores it with its grammar and seed",
	}, s.saveNetwork)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_networks",
		Description: "Lists saved networks, newest first",
	}, s.listNetworks)
}

func (s *Server) parseGrammar(ctx context.Context, req *mcp.CallToolRequest, args ParseGrammarArgs) (*mcp.CallToolResult, any, error) {
	model, errs := grammar.Parse(args.Grammar)

	summary := grammarSummary{
		Masses:          model.Graph.MassCount(),
		Inputs:          len(model.Inputs),
		Rules:           make([]string, 0, len(model.ProductionRules)),
		MassCreations:   make(map[string]string, len(model.MassCreations)),
		SpringCreations: make(map[string]string, len(model.SpringCreations)),
		RandomMasses:    model.RandomMasses,
		RandomSprings:   model.RandomSprings,
		Options:         model.Options,
		ExpansionRangeX: model.ExpansionRangeX.String(),
		Errors:          errs,
	}
	if model.UpperArmSegment != nil {
		summary.ArmSegments++
	}
	if model.LowerArmSegment != nil {
		summary.ArmSegments++
	}
	for _, r := range model.ProductionRules {
		summary.Rules = append(summary.Rules, r.String())
	}
	for letter, r := range model.MassCreations {
		summary.MassCreations[letter] = r.String()
	}
	for letter, r := range model.SpringCreations {
		summary.SpringCreations[letter] = r.String()
	}
	return jsonResult(summary), nil, nil
}

func (s *Server) expandSeed(ctx context.Context, req *mcp.CallToolRequest, args ExpandSeedArgs) (*mcp.CallToolResult, any, error) {
	model, errs := grammar.Parse(args.Grammar)
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: grammar has %d errors, expanding with the rules that parsed\n", len(errs))
	}
	out, errs := grammar.Expand(args.Seed, model.ProductionRules)
	return jsonResult(expansionSummary{Construction: out, Length: len(out), Errors: errs}), nil, nil
}

func (s *Server) developNetwork(ctx context.Context, req *mcp.CallToolRequest, args DevelopNetworkArgs) (*mcp.CallToolResult, any, error) {
	res := growth.Request{
		DSL:           args.Grammar,
		Seed:          args.Seed,
		Construction:  args.Construction,
		RandomMasses:  args.RandomMasses,
		RandomSprings: args.RandomSprings,
	}.Run(s.growOptions(args.RandomSeed)...)

	g := res.Model.Graph
	return jsonResult(networkSummary{
		Construction: res.Construction,
		Masses:       g.MassCount(),
		Springs:      g.SpringCount(),
		Network:      export.TakeSnapshot(g),
		Diagnostics:  res.Diagnostics,
	}), nil, nil
}

func (s *Server) exportCSV(ctx context.Context, req *mcp.CallToolRequest, args ExportCSVArgs) (*mcp.CallToolResult, any, error) {
	if args.NetworkID != 0 {
		if s.store == nil {
			return errorResult("No network store configured"), nil, nil
		}
		n, err := s.store.Load(ctx, args.NetworkID)
		if err != nil {
			return errorResult(fmt.Sprintf("Load failed: %v", err)), nil, nil
		}
		return jsonResult(csvSummary{
			Masses:        export.MassesCSV(n.Graph),
			ConnectionMap: export.ConnectionMapCSV(n.Graph),
		}), nil, nil
	}

	res := growth.Grow(args.Grammar, args.Seed, s.growOptions(args.RandomSeed)...)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", d)
	}
	return jsonResult(csvSummary{
		Masses:        export.MassesCSV(res.Model.Graph),
		ConnectionMap: export.ConnectionMapCSV(res.Model.Graph),
	}), nil, nil
}

func (s *Server) saveNetwork(ctx context.Context, req *mcp.CallToolRequest, args SaveNetworkArgs) (*mcp.CallToolResult, any, error) {
	if s.store == nil {
		return errorResult("No network store configured"), nil, nil
	}
	if args.Name == "" {
		return errorResult("A name is required"), nil, nil
	}

	res := growth.Grow(args.Grammar, args.Seed, s.growOptions(args.RandomSeed)...)
	id, err := s.store.Save(ctx, args.Name, args.Grammar, args.Seed, res.Model.Graph)
	if err != nil {
		return errorResult(fmt.Sprintf("Save failed: %v", err)), nil, nil
	}

	return jsonResult(map[string]any{
		"id":          id,
		"masses":      res.Model.Graph.MassCount(),
		"springs":     res.Model.Graph.SpringCount(),
		"diagnostics": res.Diagnostics,
	}), nil, nil
}

func (s *Server) listNetworks(ctx context.Context, req *mcp.CallToolRequest, args ListNetworksArgs) (*mcp.CallToolResult, any, error) {
	if s.store == nil {
		return errorResult("No network store configured"), nil, nil
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Query failed: %v", err)), nil, nil
	}
	if list == nil {
		list = []store.Summary{}
	}
	return jsonResult(list), nil, nil
}
