// Package tableau implements a data source for the Tableau Server / Cloud REST API.
//
// The connection signs in with a personal access token (or reuses a supplied
// auth token), then sends X-Tableau-Auth on every call. Entities scoped to a
// site default to the site returned by sign-in. Failures raise typed errors.
package tableau

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"go.uber.org/zap"
)

const (
	// Name is the registry name
	Name = "tableau"
	// DefaultAPIVersion is used when connection.api_version is empty
	DefaultAPIVersion = "3.19"
	authHeader        = "X-Tableau-Auth"
)

func collection(name, path, root string, model func() any) *webapi.Entity {
	return &webapi.Entity{
		Name:      name,
		Path:      path,
		Root:      root,
		TotalPath: "pagination.totalAvailable",
		Model:     model,
	}
}

// Catalog lists the Tableau entities
var Catalog = webapi.NewCatalog(
	collection("sites", "sites", "sites.site", func() any { return &Site{} }),
	collection("projects", "sites/{site_id}/projects", "projects.project", func() any { return &Project{} }),
	collection("workbooks", "sites/{site_id}/workbooks", "workbooks.workbook", func() any { return &Workbook{} }),
	&webapi.Entity{
		Name:  "workbook",
		Path:  "sites/{site_id}/workbooks/{workbook_id}",
		Root:  "workbook",
		Model: func() any { return &Workbook{} },
		Pager: webapi.SlicePager{},
	},
	collection("workbook_views", "sites/{site_id}/workbooks/{workbook_id}/views", "views.view", func() any { return &View{} }),
	collection("views", "sites/{site_id}/views", "views.view", func() any { return &View{} }),
	collection("datasources", "sites/{site_id}/datasources", "datasources.datasource", func() any { return &Datasource{} }),
	collection("users", "sites/{site_id}/users", "users.user", func() any { return &User{} }),
	collection("groups", "sites/{site_id}/groups", "groups.group", func() any { return &Group{} }),
	collection("group_users", "sites/{site_id}/groups/{group_id}/users", "users.user", func() any { return &User{} }),
	collection("jobs", "sites/{site_id}/jobs", "backgroundJobs.backgroundJob", func() any { return &Job{} }),
)

type session struct {
	mu     sync.Mutex
	token  string
	siteID string
	userID string
}

// New creates a Tableau data source.
//
// Credentials: token_name and token_secret (personal access token sign-in,
// optional site_content_url), or auth_token and site_id for an existing session.
// connection.base_url is the server URL, e.g. https://tableau.example.com.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	signIn := cfg.Credential("auth_token") == ""
	if signIn {
		if err := cfg.RequireCredentials("token_name", "token_secret"); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "tableau credentials")
		}
	} else if err := cfg.RequireCredentials("site_id"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "tableau credentials")
	}

	server := cfg.BaseURL("")
	if server == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "tableau requires connection.base_url")
	}
	version := cfg.Connection.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	baseURL := server
	if !strings.Contains(server, "/api/") {
		baseURL = fmt.Sprintf("%s/api/%s", server, version)
	}

	sess := &session{}
	return webapi.NewSource(cfg, webapi.Options{
		BaseURL: baseURL,
		Catalog: Catalog,
		Pager:   webapi.PageNumberPager{PageParam: "pageNumber", SizeParam: "pageSize"},
		Policy:  webapi.Raise,
		Auth: clients.AuthenticatorFunc(func(_ context.Context, req *http.Request) error {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			if sess.token != "" {
				req.Header.Set(authHeader, sess.token)
			}
			return nil
		}),
		Open: func(ctx context.Context, s *webapi.Source) error {
			if !signIn {
				sess.mu.Lock()
				sess.token = cfg.Credential("auth_token")
				sess.siteID = cfg.Credential("site_id")
				sess.mu.Unlock()
				s.SetDefault("site_id", sess.siteID)
				return nil
			}
			return sess.signIn(ctx, s, cfg)
		},
		Close: func(ctx context.Context, s *webapi.Source) error {
			if !signIn {
				return nil
			}
			return sess.signOut(ctx, s)
		},
	}, nil)
}

func (sess *session) signIn(ctx context.Context, s *webapi.Source, cfg *config.BaseConfig) error {
	payload := map[string]any{
		"credentials": map[string]any{
			"personalAccessTokenName":   cfg.Credential("token_name"),
			"personalAccessTokenSecret": cfg.Credential("token_secret"),
			"site": map[string]string{
				"contentUrl": cfg.Credential("site_content_url"),
			},
		},
	}
	payloadBody, err := jsonpool.MarshalBody(payload)
	if err != nil {
		return err
	}

	req, err := s.Client().NewRequest(ctx, http.MethodPost, s.BaseURL()+"/auth/signin", payloadBody,
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return err
	}
	body, err := s.Send(ctx, req, "signin")
	if err != nil {
		return err
	}

	var resp signInResponse
	if err := jsonpool.Unmarshal(body, &resp); err != nil {
		return errors.Wrap(err, errors.ErrorTypeAuthentication, "decode tableau sign-in response")
	}
	if resp.Credentials.Token == "" {
		return errors.New(errors.ErrorTypeAuthentication, "tableau sign-in returned no token")
	}

	sess.mu.Lock()
	sess.token = resp.Credentials.Token
	sess.siteID = resp.Credentials.Site.ID
	sess.userID = resp.Credentials.User.ID
	sess.mu.Unlock()

	s.SetDefault("site_id", resp.Credentials.Site.ID)
	s.SetDefault("user_id", resp.Credentials.User.ID)
	logger.FromContext(ctx, s.GetLogger()).Info("signed in to tableau",
		zap.String("site_id", resp.Credentials.Site.ID))
	return nil
}

func (sess *session) signOut(ctx context.Context, s *webapi.Source) error {
	sess.mu.Lock()
	token := sess.token
	sess.mu.Unlock()
	if token == "" {
		return nil
	}

	req, err := s.Client().NewRequest(ctx, http.MethodPost, s.BaseURL()+"/auth/signout", nil, nil)
	if err != nil {
		return err
	}
	_, err = s.Send(ctx, req, "signout")

	sess.mu.Lock()
	sess.token = ""
	sess.mu.Unlock()
	return err
}
