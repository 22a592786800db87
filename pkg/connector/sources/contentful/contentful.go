// Package contentful implements a data source for the Contentful Content
// Delivery API, or the Preview API when options.api is "preview".
package contentful

import (
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "contentful"
	// DeliveryBaseURL serves published content
	DeliveryBaseURL = "https://cdn.contentful.com"
	// PreviewBaseURL serves drafts
	PreviewBaseURL = "https://preview.contentful.com"
	// DefaultEnvironment is used when environment_id is not configured
	DefaultEnvironment = "master"
	// MaxPageSize is the largest limit the delivery API accepts
	MaxPageSize = 1000
)

const env = "spaces/{space_id}/environments/{environment_id}/"

func list(name, resource string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: env + resource, Root: "items", TotalPath: "total", Model: model}
}

func one(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Contentful entities. space_id and environment_id are
// filled from the config unless a filter overrides them.
var Catalog = webapi.NewCatalog(
	list("entries", "entries", func() any { return &Entry{} }),
	one("entry", env+"entries/{entry_id}", func() any { return &Entry{} }),
	list("assets", "assets", func() any { return &Asset{} }),
	one("asset", env+"assets/{asset_id}", func() any { return &Asset{} }),
	list("content_types", "content_types", func() any { return &ContentType{} }),
	one("content_type", env+"content_types/{content_type_id}", func() any { return &ContentType{} }),
	list("locales", "locales", func() any { return &Locale{} }),
	one("space", "spaces/{space_id}", func() any { return &Space{} }),
)

// New creates a Contentful data source. Credentials: access_token and
// space_id (the space may also be set as options.space_id).
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("access_token"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "contentful credentials")
	}
	space := cfg.Credential("space_id")
	if space == "" {
		space = cfg.Option("space_id", "")
	}
	if space == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "contentful requires space_id")
	}

	def := DeliveryBaseURL
	if strings.EqualFold(cfg.Option("api", "delivery"), "preview") {
		def = PreviewBaseURL
	}
	if cfg.Paging.MaxPageSize <= 0 || cfg.Paging.MaxPageSize > MaxPageSize {
		cfg.Paging.MaxPageSize = MaxPageSize
	}

	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: def,
		Catalog:        Catalog,
		Pager:          webapi.OffsetPager{OffsetParam: "skip", LimitParam: "limit"},
		Policy:         webapi.LogAndEmpty,
		Auth:           clients.BearerAuth(cfg.Credential("access_token")),
		Defaults: map[string]string{
			"space_id":       space,
			"environment_id": cfg.Option("environment_id", DefaultEnvironment),
		},
	}, nil)
}
