package registry

import (
	"fmt"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	var got *config.BaseConfig
	factory := func(cfg *config.BaseConfig) (core.DataSource, error) {
		got = cfg
		return nil, nil
	}

	require.NoError(t, r.Register(core.ConnectorMetadata{Name: "Copper", Type: core.ConnectorTypeWebAPI}, factory))
	assert.True(t, r.Has("copper"))
	assert.True(t, r.Has("COPPER"))

	err := r.Register(core.ConnectorMetadata{Name: "copper"}, factory)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg := config.NewBaseConfig("crm", "Copper")
	_, err = r.Create(cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, got)

	info, ok := r.Info("copper")
	require.True(t, ok)
	assert.Equal(t, core.ConnectorTypeWebAPI, info.Type)
}

func TestCreateErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(core.ConnectorMetadata{Name: "broken"}, func(*config.BaseConfig) (core.DataSource, error) {
		return nil, fmt.Errorf("missing credential(s): api_key")
	}))

	tests := []struct {
		name string
		cfg  *config.BaseConfig
		want string
	}{
		{name: "nil config", cfg: nil, want: "config is required"},
		{name: "unknown type", cfg: config.NewBaseConfig("x", "nope"), want: "connector nope not found"},
		{name: "invalid config", cfg: &config.BaseConfig{Type: "broken"}, want: "invalid config"},
		{name: "factory failure", cfg: config.NewBaseConfig("x", "broken"), want: "api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	noop := func(*config.BaseConfig) (core.DataSource, error) { return nil, nil }
	for _, n := range []string{"wordpress", "copper", "tableau"} {
		require.NoError(t, r.Register(core.ConnectorMetadata{Name: n}, noop))
	}
	assert.Equal(t, []string{"copper", "tableau", "wordpress"}, r.List())

	r.Clear()
	assert.Empty(t, r.List())
}
