// Package googlechat implements a data source for the Google Chat REST API v1.
//
// Requests are authorized with a service account key (credential
// service_account_json or option service_account_file), a raw access_token,
// or application default credentials when neither is configured.
package googlechat

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	// Name is the registry name
	Name = "googlechat"
	// DefaultBaseURL is the Chat API endpoint
	DefaultBaseURL = "https://chat.googleapis.com/v1"
	// DefaultScope lets a Chat app read the spaces it belongs to
	DefaultScope = "https://www.googleapis.com/auth/chat.bot"
)

func single(name, path string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Model: model, Pager: webapi.SlicePager{}}
}

// Catalog lists the Google Chat entities
var Catalog = webapi.NewCatalog(
	&webapi.Entity{
		Name:        "spaces",
		Description: "Spaces the caller is a member of",
		Path:        "spaces",
		Root:        "spaces",
		Model:       func() any { return &Space{} },
	},
	single("space", "spaces/{space_id}", func() any { return &Space{} }),
	&webapi.Entity{
		Name:        "messages",
		Description: "Messages in a space",
		Path:        "spaces/{space_id}/messages",
		Root:        "messages",
		Model:       func() any { return &Message{} },
	},
	single("message", "spaces/{space_id}/messages/{message_id}", func() any { return &Message{} }),
	&webapi.Entity{
		Name:        "members",
		Description: "Memberships of a space",
		Path:        "spaces/{space_id}/members",
		Root:        "memberships",
		Model:       func() any { return &Membership{} },
	},
	single("member", "spaces/{space_id}/members/{member_id}", func() any { return &Membership{} }),
	&webapi.Entity{
		Name:        "reactions",
		Description: "Reactions to a message",
		Path:        "spaces/{space_id}/messages/{message_id}/reactions",
		Root:        "reactions",
		Model:       func() any { return &Reaction{} },
	},
)

type tokenHolder struct {
	cfg *config.BaseConfig

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

func (h *tokenHolder) source() oauth2.TokenSource {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tokens
}

func (h *tokenHolder) authenticate(ctx context.Context, req *http.Request) error {
	ts := h.source()
	if ts == nil {
		return errors.New(errors.ErrorTypeAuthentication, "google chat credentials are not loaded")
	}
	return (&clients.TokenAuth{Source: ts, Header: "Authorization", Scheme: "Bearer"}).Authenticate(ctx, req)
}

// open loads credentials on first use
func (h *tokenHolder) open(ctx context.Context, s *webapi.Source) error {
	if h.source() != nil {
		return nil
	}
	ts, err := TokenSource(clients.WithHTTPClient(context.WithoutCancel(ctx), s.Client().StdClient()), h.cfg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.tokens = oauth2.ReuseTokenSource(nil, ts)
	h.mu.Unlock()
	return nil
}

// TokenSource picks the credential configured for cfg
func TokenSource(ctx context.Context, cfg *config.BaseConfig) (oauth2.TokenSource, error) {
	if tok := cfg.Credential("access_token"); tok != "" {
		return clients.StaticToken(tok), nil
	}

	scopes := strings.Split(cfg.Option("scopes", DefaultScope), ",")
	for i := range scopes {
		scopes[i] = strings.TrimSpace(scopes[i])
	}

	key := []byte(cfg.Credential("service_account_json"))
	if len(key) == 0 {
		if path := cfg.Option("service_account_file", ""); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfig, "read service account file")
			}
			key = data
		}
	}

	ts, err := clients.GoogleServiceAccount(ctx, key, scopes...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAuthentication, "load google credentials")
	}
	return ts, nil
}

// New creates a Google Chat data source
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	h := &tokenHolder{cfg: cfg}
	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        Catalog,
		Pager:          webapi.CursorPager{TokenParam: "pageToken", SizeParam: "pageSize", NextPath: "nextPageToken"},
		Policy:         webapi.LogAndEmpty,
		Auth:           clients.AuthenticatorFunc(h.authenticate),
		Open:           h.open,
	}, nil)
}
