package googlechat

import (
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
)

func init() {
	registry.MustRegister(core.ConnectorMetadata{
		Name:        Name,
		Type:        core.ConnectorTypeWebAPI,
		Description: "Google Chat spaces, messages and memberships",
		Credentials: []string{"service_account_json", "access_token"},
	}, func(cfg *config.BaseConfig) (core.DataSource, error) {
		src, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
}
