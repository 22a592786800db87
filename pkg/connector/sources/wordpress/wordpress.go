// Package wordpress implements a data source for the WordPress REST API v2.
//
// Collections are fetched once with the largest page WordPress allows and
// sliced client-side. Authentication is optional; private content needs an
// application password.
package wordpress

import (
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "wordpress"
	// APIPath is appended to the site URL
	APIPath = "/wp-json/wp/v2"
	// FetchSize is the largest per_page WordPress accepts
	FetchSize = "100"
)

var fetchQuery = map[string]string{"per_page": FetchSize}

func endpoint(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Query: fetchQuery}
}

// Catalog lists the WordPress entities
var Catalog = webapi.NewCatalog(
	endpoint("posts", "posts", func() any { return &Post{} }),
	endpoint("post", "posts/{id}", func() any { return &Post{} }),
	endpoint("pages", "pages", func() any { return &Page{} }),
	endpoint("page", "pages/{id}", func() any { return &Page{} }),
	endpoint("categories", "categories", func() any { return &Term{} }),
	endpoint("tags", "tags", func() any { return &Term{} }),
	endpoint("users", "users", func() any { return &User{} }),
	endpoint("comments", "comments", func() any { return &Comment{} }),
	endpoint("media", "media", func() any { return &Media{} }),
	&webapi.Entity{
		Name:        "post_comments",
		Description: "Comments on one post",
		Path:        "comments",
		Required:    []string{"post"},
		Model:       func() any { return &Comment{} },
		Query:       fetchQuery,
	},
)

// New creates a WordPress data source. connection.base_url is the site URL.
// Credentials username and application_password are optional.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	site := cfg.BaseURL("")
	if site == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "wordpress requires connection.base_url (site URL)")
	}
	apiURL := site
	if !strings.Contains(site, "/wp-json/") {
		apiURL = site + APIPath
	}

	var auth clients.Authenticator
	if user := cfg.Credential("username"); user != "" {
		if cfg.Credential("application_password") == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "wordpress username requires application_password")
		}
		auth = clients.BasicAuth{Username: user, Password: cfg.Credential("application_password")}
	}

	return webapi.NewSource(cfg, webapi.Options{
		BaseURL: apiURL,
		Catalog: Catalog,
		Pager:   webapi.SlicePager{},
		Policy:  webapi.LogAndEmpty,
		Auth:    auth,
	}, nil)
}
