package wordpress

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posts(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"id":%d,"slug":"p%d","status":"publish","title":{"rendered":"Post %d"}}`, i+1, i+1, i+1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestPostsAreSlicedClientSide(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, APIPath+"/posts", 200, posts(7))

	s, err := New(testutil.Config(Name, srv.URL, nil))
	require.NoError(t, err)

	page, err := s.GetEntityPage(testutil.TestContext(t), "posts", nil, 2, 3)
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Post 4", page.Data[0].(*Post).Title.Rendered)
	assert.Equal(t, 7, page.TotalRecords)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.Estimated)

	req, ok := srv.Last(APIPath + "/posts")
	require.True(t, ok)
	assert.Equal(t, FetchSize, req.Query.Get("per_page"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestPostCommentsRequirePost(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, APIPath+"/comments", 200,
		`[{"id":9,"post":42,"author_name":"Ann","content":{"rendered":"<p>nice</p>"},"status":"approved"}]`)

	s, err := New(testutil.Config(Name, srv.URL, nil))
	require.NoError(t, err)
	ctx := testutil.TestContext(t)

	_, err = s.GetEntity(ctx, "post_comments", nil)
	require.Error(t, err)

	items, err := s.GetEntity(ctx, "post_comments", []core.Filter{core.Eq("post", "42")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].(*Comment).Post)

	req, _ := srv.Last(APIPath + "/comments")
	assert.Equal(t, "42", req.Query.Get("post"))
	assert.Equal(t, FetchSize, req.Query.Get("per_page"))
}

func TestApplicationPasswordAuth(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, APIPath+"/posts/5", 200, `{"id":5,"status":"draft","title":{"rendered":"Draft"}}`)

	s, err := New(testutil.Config(Name, srv.URL+"/", map[string]string{
		"username":             "editor",
		"application_password": "abcd efgh",
	}))
	require.NoError(t, err)

	items, err := s.GetEntity(testutil.TestContext(t), "post", []core.Filter{core.Eq("id", "5")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "draft", items[0].(*Post).Status)

	req, _ := srv.Last(APIPath + "/posts/5")
	assert.True(t, strings.HasPrefix(req.Header.Get("Authorization"), "Basic "))
}

func TestServerErrorReturnsEmpty(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.Handle(http.MethodGet, APIPath+"/media", 500, `{"code":"internal_server_error"}`)

	s, err := New(testutil.Config(Name, srv.URL, nil))
	require.NoError(t, err)

	page, err := s.GetEntityPage(testutil.TestContext(t), "media", nil, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasNextPage)
}

func TestNewValidation(t *testing.T) {
	_, err := New(testutil.Config(Name, "", nil))
	require.Error(t, err)

	_, err = New(testutil.Config(Name, "https://blog.example.com", map[string]string{"username": "u"}))
	require.Error(t, err)

	s, err := New(testutil.Config(Name, "https://blog.example.com/wp-json/wp/v2", nil))
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/wp-json/wp/v2", s.BaseURL())
}
