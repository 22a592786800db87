package msteams

import (
	"net/http"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(srv *testutil.APIServer) *config.BaseConfig {
	cfg := testutil.Config(Name, srv.URL, map[string]string{
		"tenant_id":     "contoso",
		"client_id":     "app",
		"client_secret": "s3cret",
	})
	cfg.Options["authority"] = srv.URL
	return cfg
}

func newServer(t *testing.T) *testutil.APIServer {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodPost, "/contoso/oauth2/v2.0/token", 200,
		`{"access_token":"graph-tok","token_type":"Bearer","expires_in":3600}`)
	return srv
}

func TestChannelMessagesFollowNextLink(t *testing.T) {
	srv := newServer(t)
	srv.HandleFunc(http.MethodGet, "/teams/t1/channels/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("$skiptoken") == "" {
			next := "http://" + r.Host + "/teams/t1/channels/c1/messages?$top=2&$skiptoken=abc"
			testutil.WriteJSON(w, 200, `{"value":[{"id":"m1"},{"id":"m2"}],"@odata.nextLink":"`+next+`"}`)
			return
		}
		testutil.WriteJSON(w, 200, `{"value":[{"id":"m3","body":{"contentType":"html","content":"<p>done</p>"},"from":{"user":{"id":"u1","displayName":"Ann"}}}]}`)
	})

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	page, err := s.GetEntityPage(testutil.TestContext(t), "channel_messages",
		[]core.Filter{core.Eq("team_id", "t1"), core.Eq("channel_id", "c1")}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	msg := page.Data[0].(*ChatMessage)
	assert.Equal(t, "m3", msg.ID)
	assert.Equal(t, "Ann", msg.From.User.DisplayName)
	assert.False(t, page.HasNextPage)

	reqs := srv.Requests()
	var graph []testutil.Request
	for _, r := range reqs {
		if r.Path == "/teams/t1/channels/c1/messages" {
			graph = append(graph, r)
		}
	}
	require.Len(t, graph, 2)
	assert.Equal(t, "2", graph[0].Query.Get("$top"))
	assert.Equal(t, "abc", graph[1].Query.Get("$skiptoken"))
	assert.Equal(t, "Bearer graph-tok", graph[1].Header.Get("Authorization"))
}

func TestChatsAreReadPerUser(t *testing.T) {
	srv := newServer(t)
	srv.Handle(http.MethodGet, "/users/u1/chats", 200, `{"value":[{"id":"19:abc","chatType":"oneOnOne"}]}`)

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "chats", []core.Filter{core.Eq("user_id", "u1")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "oneOnOne", items[0].(*Chat).ChatType)

	_, err = s.GetEntity(testutil.TestContext(t), "chats", nil)
	require.Error(t, err)
}

func TestTokenFailureReturnsEmpty(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodPost, "/contoso/oauth2/v2.0/token", 401, `{"error":"invalid_client"}`)

	s, err := New(newConfig(srv))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "teams", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRegistered(t *testing.T) {
	src, err := registry.Create(newConfig(newServer(t)))
	require.NoError(t, err)
	assert.Equal(t, Name, src.Type())
}
