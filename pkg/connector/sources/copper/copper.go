// Package copper implements a data source for the Copper CRM developer API.
//
// List entities use Copper's POST <resource>/search endpoints with the page
// number and size in the JSON body. Failures are swallowed silently and
// surface as empty results.
package copper

import (

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "copper"
	// DefaultBaseURL is Copper's public API endpoint
	DefaultBaseURL = "https://api.copper.com/developer_api/v1"
	// MaxPageSize is the largest page Copper's search endpoints accept
	MaxPageSize = 200
)

// searchBody sends residual filters as search criteria alongside paging
func searchBody(p *webapi.Params) (any, error) {
	body := webapi.BodyFields(p, "page_number", "page_size", "sort_by", "sort_direction")
	body["page_number"] = webapi.IntParam(p, "page_number", 1)
	size := webapi.IntParam(p, "page_size", MaxPageSize)
	if size > MaxPageSize {
		size = MaxPageSize
	}
	body["page_size"] = size
	if v := p.Value("sort_by"); v != "" {
		body["sort_by"] = v
		body["sort_direction"] = "asc"
		if d := p.Value("sort_direction"); d != "" {
			body["sort_direction"] = d
		}
	}
	return body, nil
}

func search(name, resource string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: resource + "/search", Body: searchBody, Model: model}
}

func record(name, resource string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: resource + "/{id}", Model: model, Pager: webapi.SlicePager{}}
}

func list(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Copper entities
var Catalog = webapi.NewCatalog(
	search("leads", "leads", func() any { return &Lead{} }),
	search("people", "people", func() any { return &Person{} }),
	search("companies", "companies", func() any { return &Company{} }),
	search("opportunities", "opportunities", func() any { return &Opportunity{} }),
	search("projects", "projects", func() any { return &Project{} }),
	search("tasks", "tasks", func() any { return &Task{} }),
	search("activities", "activities", func() any { return &Activity{} }),
	search("users", "users", func() any { return &User{} }),
	record("lead", "leads", func() any { return &Lead{} }),
	record("person", "people", func() any { return &Person{} }),
	record("company", "companies", func() any { return &Company{} }),
	record("opportunity", "opportunities", func() any { return &Opportunity{} }),
	record("project", "projects", func() any { return &Project{} }),
	record("task", "tasks", func() any { return &Task{} }),
	list("pipelines", "pipelines", func() any { return &Pipeline{} }),
	list("account", "account", func() any { return &Account{} }),
	list("custom_field_definitions", "custom_field_definitions", func() any { return &CustomFieldDefinition{} }),
)

// New creates a Copper data source. Credentials: api_key, user_email.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("api_key", "user_email"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "copper credentials")
	}
	if cfg.Paging.MaxPageSize == 0 || cfg.Paging.MaxPageSize > MaxPageSize {
		cfg.Paging.MaxPageSize = MaxPageSize
	}

	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        Catalog,
		Pager:          webapi.PageNumberPager{PageParam: "page_number", SizeParam: "page_size"},
		Policy:         webapi.SilentEmpty,
		Auth: clients.HeaderAuth{
			"X-PW-AccessToken": cfg.Credential("api_key"),
			"X-PW-UserEmail":   cfg.Credential("user_email"),
		},
		Headers: map[string]string{
			"X-PW-Application": "developer_api",
			"Content-Type":     "application/json",
		},
	}, nil)
}
