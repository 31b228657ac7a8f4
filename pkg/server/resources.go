package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	dslReferenceURI = "rct://dsl-reference"
	schemaURIPrefix = "rct://schemas/"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dslReferenceURI,
		Name:        "DSL Reference",
		Description: "Syntax of the growth DSL, seeds and construction programs",
		MIMEType:    "text/markdown",
	}, readDSLReference)

	schemaMap := buildSchemaMap()

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: schemaURIPrefix + "{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return readSchema(schemaMap, req.Params.URI)
	})
}

func readDSLReference(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      dslReferenceURI,
				MIMEType: "text/markdown",
				Text:     DSLReference,
			},
		},
	}, nil
}

func readSchema(schemaMap map[string]string, uri string) (*mcp.ReadResourceResult, error) {
	toolName := strings.TrimPrefix(uri, schemaURIPrefix)
	schemaJSON, ok := schemaMap[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool schema: %q", toolName)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/schema+json",
				Text:     schemaJSON,
			},
		},
	}, nil
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[ParseGrammarArgs](m, "parse_grammar")
	addSchema[ExpandSeedArgs](m, "expand_seed")
	addSchema[DevelopNetworkArgs](m, "develop_network")
	addSchema[ExportCSVArgs](m, "export_csv")
	addSchema[SaveNetworkArgs](m, "save_network")
	addSchema[ListNetworksArgs](m, "list_networks")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
