// Package dynamics365 implements a data source for the Dynamics 365 / Dataverse
// Web API (OData v4). Tokens come from the Azure AD client credentials grant.
package dynamics365

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "dynamics365"
	// DefaultAPIVersion is used when connection.api_version is empty
	DefaultAPIVersion = "9.2"
)

func set(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{
		Name:      name,
		Path:      path,
		Root:      "value",
		TotalPath: "@odata.count",
		Model:     model,
		Query:     map[string]string{"$count": "true"},
	}
}

func row(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Dynamics 365 entities
var Catalog = webapi.NewCatalog(
	set("accounts", "accounts", func() any { return &Account{} }),
	set("contacts", "contacts", func() any { return &Contact{} }),
	set("leads", "leads", func() any { return &Lead{} }),
	set("opportunities", "opportunities", func() any { return &Opportunity{} }),
	set("incidents", "incidents", func() any { return &Incident{} }),
	set("systemusers", "systemusers", func() any { return &SystemUser{} }),
	set("account_contacts", "accounts({accountid})/contact_customer_accounts", func() any { return &Contact{} }),
	row("account", "accounts({accountid})", func() any { return &Account{} }),
	row("contact", "contacts({contactid})", func() any { return &Contact{} }),
	row("lead", "leads({leadid})", func() any { return &Lead{} }),
	row("opportunity", "opportunities({opportunityid})", func() any { return &Opportunity{} }),
	row("incident", "incidents({incidentid})", func() any { return &Incident{} }),
)

// New creates a Dynamics 365 data source.
//
// connection.base_url is the organization URL (https://<org>.crm.dynamics.com).
// Credentials: tenant_id, client_id, client_secret. The option "authority"
// overrides the Azure AD host.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("tenant_id", "client_id", "client_secret"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "dynamics365 credentials")
	}
	org := cfg.BaseURL("")
	if org == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "dynamics365 requires connection.base_url (organization URL)")
	}
	version := cfg.Connection.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	apiURL := org
	if !strings.Contains(org, "/api/data/") {
		apiURL = fmt.Sprintf("%s/api/data/v%s", org, strings.TrimPrefix(version, "v"))
	}

	tokenURL := clients.AzureADTokenURL(cfg.Option("authority", ""), cfg.Credential("tenant_id"))
	scope := cfg.Option("scope", strings.TrimRight(orgRoot(org), "/")+"/.default")
	tokens := clients.ClientCredentials(context.Background(), tokenURL,
		cfg.Credential("client_id"), cfg.Credential("client_secret"), scope)

	return webapi.NewSource(cfg, webapi.Options{
		BaseURL: apiURL,
		Catalog: Catalog,
		Pager:   webapi.OffsetPager{OffsetParam: "$skip", LimitParam: "$top"},
		Policy:  webapi.LogAndEmpty,
		Auth:    &clients.TokenAuth{Source: tokens},
		Headers: map[string]string{
			"OData-MaxVersion": "4.0",
			"OData-Version":    "4.0",
			"Prefer":           `odata.include-annotations="*"`,
		},
	}, nil)
}

// orgRoot strips any API path from an organization URL
func orgRoot(u string) string {
	if i := strings.Index(u, "/api/data/"); i >= 0 {
		return u[:i]
	}
	return u
}
