// Package msteams implements a data source for Microsoft Teams through the
// Microsoft Graph v1.0 API, authorized with the client credentials grant.
package msteams

import (
	"context"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "msteams"
	// DefaultBaseURL is the Graph v1.0 endpoint
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"
	// DefaultScope requests the application permissions granted to the app
	DefaultScope = "https://graph.microsoft.com/.default"
)

func collection(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Root: "value", Model: model}
}

func item(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Teams entities. Application permissions cannot list the
// caller's chats, so chats are read per user.
var Catalog = webapi.NewCatalog(
	collection("teams", "teams", func() any { return &Team{} }),
	item("team", "teams/{team_id}", func() any { return &Team{} }),
	collection("channels", "teams/{team_id}/channels", func() any { return &Channel{} }),
	item("channel", "teams/{team_id}/channels/{channel_id}", func() any { return &Channel{} }),
	collection("channel_messages", "teams/{team_id}/channels/{channel_id}/messages", func() any { return &ChatMessage{} }),
	collection("message_replies", "teams/{team_id}/channels/{channel_id}/messages/{message_id}/replies", func() any { return &ChatMessage{} }),
	collection("members", "teams/{team_id}/members", func() any { return &Member{} }),
	collection("chats", "users/{user_id}/chats", func() any { return &Chat{} }),
	collection("chat_messages", "chats/{chat_id}/messages", func() any { return &ChatMessage{} }),
	collection("users", "users", func() any { return &User{} }),
)

// New creates a Teams data source. Credentials: tenant_id, client_id,
// client_secret. Options "authority" and "scope" override the Azure AD host
// and token scope.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("tenant_id", "client_id", "client_secret"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "msteams credentials")
	}

	tokenURL := clients.AzureADTokenURL(cfg.Option("authority", ""), cfg.Credential("tenant_id"))
	tokens := clients.ClientCredentials(context.Background(), tokenURL,
		cfg.Credential("client_id"), cfg.Credential("client_secret"), cfg.Option("scope", DefaultScope))

	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        Catalog,
		Pager:          webapi.CursorPager{SizeParam: "$top", NextPath: "@odata.nextLink"},
		Policy:         webapi.LogAndEmpty,
		Auth:           &clients.TokenAuth{Source: tokens},
	}, nil)
}
