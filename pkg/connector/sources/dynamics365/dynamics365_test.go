package dynamics365

import (
	"net/http"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const api = "/api/data/v9.2"

func newServer(t *testing.T) *testutil.APIServer {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodPost, "/tenant-1/oauth2/v2.0/token", 200,
		`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`)
	return srv
}

func newConfig(srv *testutil.APIServer) *config.BaseConfig {
	cfg := testutil.Config(Name, srv.URL, map[string]string{
		"tenant_id":     "tenant-1",
		"client_id":     "client",
		"client_secret": "secret",
	})
	cfg.Options["authority"] = srv.URL
	return cfg
}

func TestAccountsPageWithODataCount(t *testing.T) {
	srv := newServer(t)
	srv.Handle(http.MethodGet, api+"/accounts", 200, `{
		"@odata.context":"...","@odata.count":42,
		"value":[{"accountid":"a-1","name":"Contoso","revenue":1200.5,"createdon":"2024-01-02T03:04:05Z"}]}`)

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	page, err := s.GetEntityPage(testutil.TestContext(t), "accounts", nil, 3, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 42, page.TotalRecords)
	assert.Equal(t, 5, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.Estimated)

	acct := page.Data[0].(*Account)
	assert.Equal(t, "Contoso", acct.Name)
	require.NotNil(t, acct.Revenue)
	assert.InDelta(t, 1200.5, *acct.Revenue, 0.001)

	req, ok := srv.Last(api + "/accounts")
	require.True(t, ok)
	assert.Equal(t, "Bearer at-1", req.Header.Get("Authorization"))
	assert.Equal(t, "4.0", req.Header.Get("OData-Version"))
	assert.Equal(t, "20", req.Query.Get("$skip"))
	assert.Equal(t, "10", req.Query.Get("$top"))
	assert.Equal(t, "true", req.Query.Get("$count"))

	token, ok := srv.Last("/tenant-1/oauth2/v2.0/token")
	require.True(t, ok)
	assert.Contains(t, string(token.Body), "grant_type=client_credentials")
	assert.Contains(t, string(token.Body), "scope=http")
}

func TestSingleRowByKey(t *testing.T) {
	srv := newServer(t)
	srv.Handle(http.MethodGet, api+"/contacts(c-9)", 200, `{"contactid":"c-9","fullname":"Ada Lovelace"}`)

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "contact", []core.Filter{core.Eq("contactid", "c-9")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ada Lovelace", items[0].(*Contact).FullName)
}

func TestFailuresLogAndReturnEmpty(t *testing.T) {
	srv := newServer(t)
	srv.Handle(http.MethodGet, api+"/incidents", 403, `{"error":{"code":"0x80040220"}}`)

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "incidents", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogResolvesWithRequiredKeys(t *testing.T) {
	for _, e := range Catalog.Entities() {
		params := webapi.NewParams()
		for _, k := range e.Required {
			params.Set(k, "00000000-0000-0000-0000-000000000001")
		}
		req, err := webapi.Resolve(e, params, webapi.ResolveOptions{})
		require.NoError(t, err, e.Name)
		assert.NotContains(t, req.Path, "{", e.Name)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(testutil.Config(Name, "https://org.crm.dynamics.com", map[string]string{"tenant_id": "t"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id, client_secret")

	_, err = New(testutil.Config(Name, "", map[string]string{"tenant_id": "t", "client_id": "c", "client_secret": "s"}))
	require.Error(t, err)

	s, err := New(testutil.Config(Name, "https://org.crm.dynamics.com/", map[string]string{"tenant_id": "t", "client_id": "c", "client_secret": "s"}))
	require.NoError(t, err)
	assert.Equal(t, "https://org.crm.dynamics.com/api/data/v9.2", s.BaseURL())
}
