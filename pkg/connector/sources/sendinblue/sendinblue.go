// Package sendinblue implements a data source for the Brevo (formerly
// Sendinblue) API v3.
package sendinblue

import (
	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "sendinblue"
	// DefaultBaseURL is the Brevo v3 endpoint
	DefaultBaseURL = "https://api.brevo.com/v3"
)

func counted(name, path, root string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Root: root, TotalPath: "count", Model: model}
}

func single(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Brevo entities
var Catalog = webapi.NewCatalog(
	single("account", "account", func() any { return &Account{} }),
	counted("contacts", "contacts", "contacts", func() any { return &Contact{} }),
	single("contact", "contacts/{identifier}", func() any { return &Contact{} }),
	counted("lists", "contacts/lists", "lists", func() any { return &List{} }),
	single("list", "contacts/lists/{list_id}", func() any { return &List{} }),
	counted("list_contacts", "contacts/lists/{list_id}/contacts", "contacts", func() any { return &Contact{} }),
	counted("folders", "contacts/folders", "folders", func() any { return &Folder{} }),
	counted("email_campaigns", "emailCampaigns", "campaigns", func() any { return &Campaign{} }),
	counted("sms_campaigns", "smsCampaigns", "campaigns", func() any { return &Campaign{} }),
	&webapi.Entity{
		Name:  "senders",
		Path:  "senders",
		Root:  "senders",
		Model: func() any { return &Sender{} },
		Pager: webapi.SlicePager{},
	},
	counted("templates", "smtp/templates", "templates", func() any { return &Template{} }),
)

// New creates a Brevo data source. Credentials: api_key.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("api_key"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "sendinblue credentials")
	}
	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        Catalog,
		Pager:          webapi.OffsetPager{OffsetParam: "offset", LimitParam: "limit"},
		Policy:         webapi.LogAndEmpty,
		Auth:           clients.HeaderAuth{"api-key": cfg.Credential("api_key")},
		Headers:        map[string]string{"Accept": "application/json"},
	}, nil)
}
