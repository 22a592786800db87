// Package rockset implements a data source for the Rockset REST API. SQL
// queries and query lambdas run through POST entities whose residual filters
// become named query parameters.
package rockset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "rockset"
	// DefaultRegion is the API server region used when options.region is unset
	DefaultRegion = "usw2a1"
)

// Parameters turns residual filters into typed query parameters, sorted by name
func Parameters(p *webapi.Params, skip ...string) []QueryParameter {
	fields := webapi.BodyFields(p, skip...)
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	params := make([]QueryParameter, 0, len(names))
	for _, name := range names {
		typ := "string"
		switch fields[name].(type) {
		case int64:
			typ = "int"
		case bool:
			typ = "bool"
		}
		params = append(params, QueryParameter{Name: name, Type: typ, Value: p.Value(name)})
	}
	return params
}

func queryBody(p *webapi.Params) (any, error) {
	sql := strings.TrimSpace(p.Value("sql"))
	if sql == "" {
		return nil, fmt.Errorf("sql is empty")
	}
	return map[string]any{
		"sql": map[string]any{
			"query":      sql,
			"parameters": Parameters(p, "sql"),
		},
	}, nil
}

func lambdaBody(p *webapi.Params) (any, error) {
	return map[string]any{"parameters": Parameters(p)}, nil
}

func list(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Root: "data", Model: model}
}

// Catalog lists the Rockset entities
var Catalog = webapi.NewCatalog(
	list("workspaces", "ws", func() any { return &Workspace{} }),
	list("collections", "collections", func() any { return &Collection{} }),
	list("workspace_collections", "ws/{workspace}/collections", func() any { return &Collection{} }),
	list("query_lambdas", "lambdas", func() any { return &QueryLambda{} }),
	&webapi.Entity{
		Name:        "query",
		Description: "Run a SQL query; other filters bind :name parameters",
		Path:        "queries",
		Root:        "results",
		Required:    []string{"sql"},
		Body:        queryBody,
	},
	&webapi.Entity{
		Name:        "lambda_execute",
		Description: "Run the latest version of a query lambda",
		Path:        "ws/{workspace}/lambdas/{lambda}/tags/latest",
		Root:        "results",
		Body:        lambdaBody,
	},
	&webapi.Entity{
		Name:        "lambda_execute_tag",
		Description: "Run a tagged version of a query lambda",
		Path:        "ws/{workspace}/lambdas/{lambda}/tags/{tag}",
		Root:        "results",
		Body:        lambdaBody,
	},
)

// New creates a Rockset data source. Credentials: api_key. options.region
// selects the API server (e.g. usw2a1, use1a1, euc1a1).
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("api_key"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "rockset credentials")
	}
	def := fmt.Sprintf("https://api.%s.rockset.com/v1/orgs/self", cfg.Option("region", DefaultRegion))
	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: def,
		Catalog:        Catalog,
		Pager:          webapi.SlicePager{},
		Policy:         webapi.Raise,
		Auth:           clients.HeaderAuth{"Authorization": "ApiKey " + cfg.Credential("api_key")},
	}, nil)
}
