package pcloud

import (
	"net/http"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, srv *testutil.APIServer) *webapi.Source {
	s, err := New(testutil.Config(Name, srv.URL, map[string]string{"access_token": "pc-tok"}))
	require.NoError(t, err)
	return s
}

func TestListFolderUnwrapsContents(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, "/listfolder", 200, `{"result":0,"metadata":{
		"id":"d0","name":"/","isfolder":true,"folderid":0,
		"contents":[
			{"id":"d12","name":"Photos","isfolder":true,"folderid":12},
			{"id":"f7","name":"notes.txt","isfolder":false,"fileid":7,"size":120,"hash":18446744073709551615}
		]}}`)

	s := newSource(t, srv)
	items, err := s.GetEntity(testutil.TestContext(t), "listfolder", []core.Filter{core.Eq("folderid", "0")})
	require.NoError(t, err)
	require.Len(t, items, 2)

	file := items[1].(*Metadata)
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, uint64(18446744073709551615), file.Hash)

	req, ok := srv.Last("/listfolder")
	require.True(t, ok)
	assert.Equal(t, "pc-tok", req.Query.Get("access_token"))
	assert.Equal(t, "0", req.Query.Get("folderid"))
}

func TestResultCodeIsAFailure(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, "/stat", 200, `{"result":2009,"error":"File not found."}`)

	s := newSource(t, srv)
	items, err := s.GetEntity(testutil.TestContext(t), "stat", []core.Filter{core.Eq("fileid", "99")})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckResult(t *testing.T) {
	assert.NoError(t, checkResult([]byte(`{"result":0}`)))
	assert.NoError(t, checkResult([]byte(`not json`)))

	err := checkResult([]byte(`{"result":1000,"error":"Log in required."}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Log in required.")
}

func TestSharesAndFileLink(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, "/listshares", 200,
		`{"result":0,"shares":{"outgoing":[{"shareid":5,"folderid":12,"tomail":"a@example.com","canread":true}],"incoming":[]}}`)
	srv.Handle(http.MethodGet, "/getfilelink", 200,
		`{"result":0,"path":"/cBZ/notes.txt","expires":"Sat, 24 Jul 2027 03:18:31 +0000","hosts":["c1.pcloud.com","c2.pcloud.com"]}`)

	s := newSource(t, srv)
	ctx := testutil.TestContext(t)

	shares, err := s.GetEntity(ctx, "listshares", nil)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.True(t, shares[0].(*Share).CanRead)

	links, err := s.GetEntity(ctx, "getfilelink", []core.Filter{core.Eq("fileid", "7")})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://c1.pcloud.com/cBZ/notes.txt", links[0].(*FileLink).URL())
}

func TestMissingFileIDRaises(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	s := newSource(t, srv)

	_, err := s.GetEntity(testutil.TestContext(t), "listrevisions", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Empty(t, srv.Requests())
}

func TestRegionSelectsBaseURL(t *testing.T) {
	cfg := testutil.Config(Name, "", map[string]string{"access_token": "t"})
	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, s.BaseURL())

	cfg = testutil.Config(Name, "", map[string]string{"access_token": "t"})
	cfg.Options["region"] = "EU"
	s, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, EUBaseURL, s.BaseURL())

	_, err = New(testutil.Config(Name, "", nil))
	require.Error(t, err)
}
