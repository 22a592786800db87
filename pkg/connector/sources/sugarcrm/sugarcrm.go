// Package sugarcrm implements a data source for the SugarCRM REST API (v11).
//
// A fixed set of common modules is always available; OpenConnection adds
// every other module the instance reports in its metadata, once per source.
package sugarcrm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// Name is the registry name
	Name = "sugarcrm"
	// DefaultAPIVersion is used when connection.api_version is empty
	DefaultAPIVersion = "v11"
)

func module(name string, model func() any) *webapi.Entity {
	return &webapi.Entity{
		Name:        name,
		Description: fmt.Sprintf("%s module records", name),
		Path:        name,
		Root:        "records",
		Model:       model,
	}
}

// staticModules are served without discovery
func staticModules() []*webapi.Entity {
	return []*webapi.Entity{
		module("Accounts", func() any { return &Account{} }),
		module("Contacts", func() any { return &Contact{} }),
		module("Leads", func() any { return &Lead{} }),
		module("Opportunities", func() any { return &Opportunity{} }),
		module("Cases", func() any { return &Case{} }),
		module("Users", func() any { return &User{} }),
		module("Calls", nil),
		module("Meetings", nil),
		module("Tasks", nil),
		module("Notes", nil),
		{
			Name:        "record",
			Description: "A single record of any module",
			Path:        "{module}/{id}",
			Pager:       webapi.SlicePager{},
		},
		{
			Name:        "related",
			Description: "Records linked to a record through a relationship link",
			Path:        "{module}/{id}/link/{link}",
			Root:        "records",
		},
	}
}

type connector struct {
	cfg     *config.BaseConfig
	catalog *webapi.Catalog

	mu     sync.Mutex
	tokens oauth2.TokenSource

	discover sync.Once
}

// New creates a SugarCRM data source.
//
// connection.base_url is the instance URL. Credentials: username, password,
// and optionally client_id (default "sugar") and client_secret.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("username", "password"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "sugarcrm credentials")
	}
	instance := cfg.BaseURL("")
	if instance == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "sugarcrm requires connection.base_url")
	}
	version := cfg.Connection.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	apiURL := instance
	if !strings.Contains(instance, "/rest/") {
		apiURL = fmt.Sprintf("%s/rest/%s", instance, version)
	}

	c := &connector{cfg: cfg, catalog: webapi.NewCatalog(staticModules()...)}
	return webapi.NewSource(cfg, webapi.Options{
		BaseURL: apiURL,
		Catalog: c.catalog,
		Pager:   webapi.OffsetPager{OffsetParam: "offset", LimitParam: "max_num", NextOffsetPath: "next_offset"},
		Policy:  webapi.LogAndEmpty,
		Auth:    clients.AuthenticatorFunc(c.authenticate),
		Open:    c.open,
	}, nil)
}

func (c *connector) authenticate(ctx context.Context, req *http.Request) error {
	c.mu.Lock()
	ts := c.tokens
	c.mu.Unlock()
	if ts == nil {
		return nil
	}
	return (&clients.TokenAuth{Source: ts, Header: "OAuth-Token"}).Authenticate(ctx, req)
}

func (c *connector) open(ctx context.Context, s *webapi.Source) error {
	c.mu.Lock()
	signedIn := c.tokens != nil
	c.mu.Unlock()

	if !signedIn {
		tokenCtx := clients.WithHTTPClient(context.WithoutCancel(ctx), s.Client().StdClient())
		ts, err := clients.PasswordGrant(tokenCtx, s.BaseURL()+"/oauth2/token",
			c.cfg.Option("client_id", credentialOr(c.cfg, "client_id", "sugar")),
			c.cfg.Credential("client_secret"),
			c.cfg.Credential("username"),
			c.cfg.Credential("password"))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeAuthentication, "sugarcrm sign-in")
		}
		c.mu.Lock()
		c.tokens = ts
		c.mu.Unlock()
	}

	c.discover.Do(func() {
		added, err := c.discoverModules(ctx, s)
		log := logger.FromContext(ctx, s.GetLogger())
		if err != nil {
			log.Warn("module discovery failed, using built-in modules", zap.Error(err))
			return
		}
		log.Info("discovered sugarcrm modules", zap.Int("added", added), zap.Int("total", c.catalog.Len()))
	})
	return nil
}

// discoverModules adds every module listed by the metadata endpoint
func (c *connector) discoverModules(ctx context.Context, s *webapi.Source) (int, error) {
	req, err := s.Client().NewRequest(ctx, http.MethodGet, s.BaseURL()+"/metadata?type_filter=module_list", nil, nil)
	if err != nil {
		return 0, err
	}
	body, err := s.Send(ctx, req, "metadata")
	if err != nil {
		return 0, err
	}

	added := 0
	for _, name := range ModuleNames(body) {
		if c.catalog.Add(module(name, nil)) {
			added++
		}
	}
	return added, nil
}

// ModuleNames reads module names from a module_list metadata response. The
// list is an object keyed by module (plus "_hash") or a plain array.
func ModuleNames(body []byte) []string {
	raw, ok := webapi.Lookup(body, "module_list")
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	addName := func(n string) {
		n = strings.TrimSpace(n)
		if n == "" || strings.HasPrefix(n, "_") || seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	var list []string
	if err := jsonpool.Unmarshal(raw, &list); err == nil {
		for _, n := range list {
			addName(n)
		}
	} else {
		var obj map[string]any
		if err := jsonpool.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		for k, v := range obj {
			if strings.HasPrefix(k, "_") {
				continue
			}
			if s, ok := v.(string); ok {
				addName(s)
			} else {
				addName(k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func credentialOr(cfg *config.BaseConfig, key, def string) string {
	if v := cfg.Credential(key); v != "" {
		return v
	}
	return def
}
