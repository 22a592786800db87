// Package pcloud implements a data source for the pCloud HTTP JSON API.
//
// Every pCloud method answers 200 and reports failures in a numeric "result"
// field, so responses are checked before they are unwrapped.
package pcloud

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
)

const (
	// Name is the registry name
	Name = "pcloud"
	// DefaultBaseURL serves US-region accounts
	DefaultBaseURL = "https://api.pcloud.com"
	// EUBaseURL serves EU-region accounts
	EUBaseURL = "https://eapi.pcloud.com"
)

// Catalog lists the pCloud methods exposed as entities
var Catalog = webapi.NewCatalog(
	&webapi.Entity{
		Name:        "userinfo",
		Description: "Account details and quota",
		Path:        "userinfo",
		Model:       func() any { return &UserInfo{} },
	},
	&webapi.Entity{
		Name:        "listfolder",
		Description: "Contents of a folder",
		Path:        "listfolder",
		Root:        "metadata.contents",
		Required:    []string{"folderid"},
		Model:       func() any { return &Metadata{} },
	},
	&webapi.Entity{
		Name:        "stat",
		Description: "Metadata of a single file",
		Path:        "stat",
		Root:        "metadata",
		Required:    []string{"fileid"},
		Model:       func() any { return &Metadata{} },
	},
	&webapi.Entity{
		Name:        "getfilelink",
		Description: "Download link for a file",
		Path:        "getfilelink",
		Required:    []string{"fileid"},
		Model:       func() any { return &FileLink{} },
	},
	&webapi.Entity{
		Name:        "listrevisions",
		Description: "Stored revisions of a file",
		Path:        "listrevisions",
		Root:        "revisions",
		Required:    []string{"fileid"},
		Model:       func() any { return &Revision{} },
	},
	&webapi.Entity{
		Name:        "listshares",
		Description: "Outgoing folder shares",
		Path:        "listshares",
		Root:        "shares.outgoing",
		Model:       func() any { return &Share{} },
	},
	&webapi.Entity{
		Name:        "listpublinks",
		Description: "Public links",
		Path:        "listpublinks",
		Root:        "publinks",
		Model:       func() any { return &PublicLink{} },
	},
)

type envelope struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
}

// checkResult turns a non-zero result code into an error
func checkResult(body []byte) error {
	var env envelope
	if err := jsonpool.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Result == 0 {
		return nil
	}
	msg := env.Error
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Errorf("pcloud result %d: %s", env.Result, msg)
}

// New creates a pCloud data source. Credentials: access_token. Set
// options.region to "eu" for EU-hosted accounts.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("access_token"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "pcloud credentials")
	}
	def := DefaultBaseURL
	if strings.EqualFold(cfg.Option("region", "us"), "eu") {
		def = EUBaseURL
	}
	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: def,
		Catalog:        Catalog,
		Policy:         webapi.LogAndEmpty,
		Auth:           clients.QueryAuth{Param: "access_token", Value: cfg.Credential("access_token")},
		CheckBody:      checkResult,
	}, nil)
}
