package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BaseConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*BaseConfig) {}},
		{name: "missing name", mutate: func(c *BaseConfig) { c.Name = "" }, wantErr: "name is required"},
		{name: "missing type", mutate: func(c *BaseConfig) { c.Type = "" }, wantErr: "type is required"},
		{name: "negative rate", mutate: func(c *BaseConfig) { c.Reliability.RateLimitPerSec = -1 }, wantErr: "rate_limit_per_sec"},
		{name: "page size over max", mutate: func(c *BaseConfig) {
			c.Paging.DefaultPageSize = 200
			c.Paging.MaxPageSize = 100
		}, wantErr: "exceeds max_page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewBaseConfig("src", "copper")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := NewBaseConfig("src", "copper")
	cfg.Options["page_limit"] = "25"
	cfg.Options["flag"] = "true"
	cfg.Options["blank"] = "  "

	assert.Equal(t, 25, cfg.OptionInt("page_limit", 1))
	assert.Equal(t, 7, cfg.OptionInt("missing", 7))
	assert.True(t, cfg.OptionBool("flag", false))
	assert.Equal(t, "def", cfg.Option("blank", "def"))
	assert.Equal(t, "https://api.example.com", cfg.BaseURL("https://api.example.com/"))

	cfg.Connection.BaseURL = "http://localhost:8080/"
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL("https://api.example.com"))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("NC_TOKEN", "abc")
	assert.Equal(t, "token: abc", substituteEnvVars("token: ${NC_TOKEN}"))
	assert.Equal(t, "env: master", substituteEnvVars("env: ${NC_UNSET_VAR:-master}"))
	assert.Equal(t, "x: ", substituteEnvVars("x: ${NC_UNSET_VAR}"))
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ds.yaml")

	cfg := NewBaseConfig("crm", "copper")
	cfg.Security.Credentials["api_key"] = "k"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadBaseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "copper", loaded.Type)
	assert.Equal(t, "k", loaded.Credential("api_key"))

	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o600))
	_, err = LoadBaseConfig(path)
	assert.ErrorContains(t, err, "type is required")
}
