package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/wordpress"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func blogServer(t *testing.T) (*testutil.APIServer, string) {
	srv := testutil.NewAPIServer(t)
	posts := make([]string, 5)
	for i := range posts {
		posts[i] = fmt.Sprintf(`{"id":%d,"status":"publish","title":{"rendered":"Post %d"}}`, i+1, i+1)
	}
	srv.Handle(http.MethodGet, wordpress.APIPath+"/posts", 200, "["+strings.Join(posts, ",")+"]")

	cfg := writeConfig(t, fmt.Sprintf("name: blog\ntype: wordpress\nconnection:\n  base_url: %s\n", srv.URL))
	return srv, cfg
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nebula-connect v"+version)
}

func TestListShowsRegisteredConnectors(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"copper", "pubsub", "redisstreams", "wordpress"} {
		assert.Contains(t, out, name)
	}
	assert.True(t, strings.HasPrefix(out, "NAME"))
}

func TestEntities(t *testing.T) {
	_, cfg := blogServer(t)

	out, err := run(t, "entities", "-c", cfg)
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "posts")
	assert.Contains(t, names, "post_comments")
}

func TestFetchPage(t *testing.T) {
	srv, cfg := blogServer(t)

	out, err := run(t, "fetch", "-c", cfg, "-e", "posts", "--page", "2", "--page-size", "2")
	require.NoError(t, err)

	var page struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
		PageNumber   int  `json:"page_number"`
		TotalRecords int  `json:"total_records"`
		HasNextPage  bool `json:"has_next_page"`
	}
	require.NoError(t, jsonpool.Unmarshal([]byte(out), &page))
	require.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Data[0].ID)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 5, page.TotalRecords)
	assert.True(t, page.HasNextPage)
	assert.Len(t, srv.Requests(), 1)
}

func TestFetchWholeEntityWithFilter(t *testing.T) {
	srv, cfg := blogServer(t)
	srv.Handle(http.MethodGet, wordpress.APIPath+"/comments", 200, `[{"id":9,"post":42,"status":"approved"}]`)

	out, err := run(t, "fetch", "-c", cfg, "-e", "post_comments", "-f", "post=42")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, jsonpool.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.EqualValues(t, 42, items[0]["post"])

	req, ok := srv.Last(wordpress.APIPath + "/comments")
	require.True(t, ok)
	assert.Equal(t, "42", req.Query.Get("post"))
}

func TestFetchRejectsMalformedFilter(t *testing.T) {
	srv, cfg := blogServer(t)

	_, err := run(t, "fetch", "-c", cfg, "-e", "posts", "-f", "no-equals-sign")
	require.Error(t, err)
	assert.Empty(t, srv.Requests())
}

func TestStructure(t *testing.T) {
	_, cfg := blogServer(t)

	out, err := run(t, "structure", "-c", cfg, "-e", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, `"title"`)
}

func TestPublishNeedsAStreamSource(t *testing.T) {
	_, cfg := blogServer(t)

	_, err := run(t, "publish", "-c", cfg, "-e", "posts", "-d", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot publish")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "entities", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestHelpConfigCreatesSource(t *testing.T) {
	long := newRootCmd().Long
	_, example, found := strings.Cut(long, "YAML file:\n\n")
	require.True(t, found)

	var lines []string
	for _, line := range strings.Split(example, "\n") {
		lines = append(lines, strings.TrimPrefix(line, "  "))
	}
	t.Setenv("COPPER_API_KEY", "key-123")

	cfg, err := config.LoadBaseConfig(writeConfig(t, strings.Join(lines, "\n")+"\n"))
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.Credential("api_key"))

	src, err := registry.Create(cfg)
	require.NoError(t, err)
	assert.Equal(t, "copper", src.Type())
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", want: map[string]string{}},
		{name: "pairs", args: []string{"origin=cli", " team =pos"}, want: map[string]string{"origin": "cli", "team": "pos"}},
		{name: "value keeps equals", args: []string{"q=a=b"}, want: map[string]string{"q": "a=b"}},
		{name: "missing separator", args: []string{"origin"}, wantErr: true},
		{name: "empty key", args: []string{"=x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttributes(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
