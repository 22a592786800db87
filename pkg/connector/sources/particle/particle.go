// Package particle implements a data source for the Particle Cloud API v1.
package particle

import (
	"strconv"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

const (
	// Name is the registry name
	Name = "particle"
	// DefaultBaseURL is the Particle Cloud API endpoint
	DefaultBaseURL = "https://api.particle.io/v1"
)

var (
	platformsOnce sync.Once
	platforms     map[int]string
)

// PlatformName maps a platform ID to its hardware name. Unknown IDs are
// reported as "platform-<id>".
func PlatformName(id int) string {
	platformsOnce.Do(func() {
		platforms = map[int]string{
			0:  "core",
			6:  "photon",
			8:  "p1",
			10: "electron",
			12: "argon",
			13: "boron",
			14: "xenon",
			22: "asom",
			23: "bsom",
			25: "b5som",
			26: "tracker",
			32: "p2",
		}
	})
	if name, ok := platforms[id]; ok {
		return name
	}
	return "platform-" + strconv.Itoa(id)
}

func endpoint(name, path, root string, model func() any) *webapi.Entity {
	return &webapi.Entity{Name: name, Path: path, Root: root, Model: model}
}

// Catalog lists the Particle entities
var Catalog = webapi.NewCatalog(
	endpoint("devices", "devices", "", func() any { return &Device{} }),
	endpoint("device", "devices/{device_id}", "", func() any { return &Device{} }),
	endpoint("products", "products", "products", func() any { return &Product{} }),
	endpoint("product_devices", "products/{product_id}/devices", "devices", func() any { return &Device{} }),
	endpoint("sims", "sims", "sims", func() any { return &Sim{} }),
	endpoint("integrations", "integrations", "", func() any { return &Integration{} }),
	endpoint("user", "user", "", func() any { return &User{} }),
	endpoint("oauth_clients", "clients", "clients", func() any { return &OAuthClient{} }),
)

// New creates a Particle data source. Credentials: access_token.
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	if err := cfg.RequireCredentials("access_token"); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "particle credentials")
	}
	return webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        Catalog,
		Pager:          webapi.SlicePager{},
		Policy:         webapi.LogAndEmpty,
		Auth:           clients.BearerAuth(cfg.Credential("access_token")),
	}, nil)
}
