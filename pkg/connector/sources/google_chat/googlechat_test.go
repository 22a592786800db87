package googlechat

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, srv *testutil.APIServer) *webapi.Source {
	s, err := New(testutil.Config(Name, srv.URL, map[string]string{"access_token": "ya29.test"}))
	require.NoError(t, err)
	return s
}

func TestMessagesWalkCursorToRequestedPage(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.HandleFunc(http.MethodGet, "/spaces/AAA/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageToken") {
		case "":
			testutil.WriteJSON(w, 200, `{"messages":[{"name":"spaces/AAA/messages/1","text":"hi"}],"nextPageToken":"t2"}`)
		case "t2":
			testutil.WriteJSON(w, 200, `{"messages":[{"name":"spaces/AAA/messages/2","text":"there","sender":{"name":"users/9","type":"HUMAN"}}],"nextPageToken":"t3"}`)
		default:
			testutil.WriteJSON(w, 200, `{"messages":[]}`)
		}
	})

	s := newSource(t, srv)
	page, err := s.GetEntityPage(testutil.TestContext(t), "messages", []core.Filter{core.Eq("space_id", "AAA")}, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	msg := page.Data[0].(*Message)
	assert.Equal(t, "there", msg.Text)
	assert.Equal(t, "HUMAN", msg.Sender.Type)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.Estimated)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "1", reqs[0].Query.Get("pageSize"))
	assert.Equal(t, "t2", reqs[1].Query.Get("pageToken"))
	assert.Equal(t, "Bearer ya29.test", reqs[1].Header.Get("Authorization"))
}

func TestFailuresReturnEmpty(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, "/spaces", 403, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`)

	items, err := newSource(t, srv).GetEntity(testutil.TestContext(t), "spaces", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReactionsNeedSpaceAndMessage(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	_, err := newSource(t, srv).GetEntity(testutil.TestContext(t), "reactions", []core.Filter{core.Eq("space_id", "AAA")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message_id")
}

func serviceAccountKey(t *testing.T, tokenURI string) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	raw, err := jsonpool.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "test-project",
		"private_key_id": "k1",
		"private_key":    string(pemKey),
		"client_email":   "bot@test-project.iam.gserviceaccount.com",
		"client_id":      "123",
		"token_uri":      tokenURI,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestServiceAccountExchangesJWT(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodPost, "/token", 200, `{"access_token":"sa-token","token_type":"Bearer","expires_in":3600}`)
	srv.Handle(http.MethodGet, "/spaces/AAA", 200, `{"name":"spaces/AAA","displayName":"Ops","spaceType":"SPACE"}`)

	s, err := New(testutil.Config(Name, srv.URL, map[string]string{
		"service_account_json": serviceAccountKey(t, srv.URL+"/token"),
	}))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "space", []core.Filter{core.Eq("space_id", "AAA")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ops", items[0].(*Space).DisplayName)

	req, ok := srv.Last("/spaces/AAA")
	require.True(t, ok)
	assert.Equal(t, "Bearer sa-token", req.Header.Get("Authorization"))

	tok, ok := srv.Last("/token")
	require.True(t, ok)
	assert.Contains(t, string(tok.Body), "jwt-bearer")
}

func TestMissingServiceAccountFileFailsOpen(t *testing.T) {
	cfg := testutil.Config(Name, "http://127.0.0.1:1", nil)
	cfg.Options["service_account_file"] = "/nonexistent/key.json"
	s, err := New(cfg)
	require.NoError(t, err)

	state, err := s.OpenConnection(testutil.TestContext(t))
	require.Error(t, err)
	assert.Equal(t, core.ConnectionStateBroken, state)
}
