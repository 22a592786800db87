package webapi

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSource(t *testing.T, handler http.HandlerFunc, opts Options) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewBaseConfig("test", "testapi")
	cfg.Connection.BaseURL = srv.URL + "/api/"
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog(
			&Entity{Name: "leads", Path: "leads", Root: "data", TotalPath: "total", Model: func() any { return &item{} }},
			&Entity{Name: "notes", Path: "leads/{lead_id}/notes", Root: "data"},
			&Entity{Name: "search", Path: "search", Root: "data", Body: func(p *Params) (any, error) {
				body := map[string]string{}
				for _, k := range p.Names() {
					body[k] = p.Value(k)
				}
				return body, nil
			}},
		)
	}
	s, err := NewSource(cfg, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewSourceRequiresCatalogAndURL(t *testing.T) {
	cfg := config.NewBaseConfig("test", "testapi")

	_, err := NewSource(cfg, Options{DefaultBaseURL: "https://x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewSource(cfg, Options{Catalog: NewCatalog(&Entity{Name: "a", Path: "a"})}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestGetEntityUnwrapsRecords(t *testing.T) {
	var path string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, 200, `{"data":[{"id":"1"},{"id":"2"}],"total":2}`)
	}, Options{})

	got, err := s.GetEntity(context.Background(), "Leads", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/api/leads", path)
	assert.Equal(t, &item{ID: "1"}, got[0])
	assert.Equal(t, core.ConnectionStateOpen, s.ConnectionState())

	src, ok := s.Attachments().SourceOf(got[1])
	require.True(t, ok)
	assert.Same(t, s, src)
}

func TestGetEntitySingleObject(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":{"id":"7","label":"only"}}`)
	}, Options{})

	got, err := s.GetEntity(context.Background(), "leads", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].(*item).ID)
}

func TestGetEntitySubstitutesPathParameters(t *testing.T) {
	var path, query string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		writeJSON(w, 200, `{"data":[]}`)
	}, Options{})

	got, err := s.GetEntity(context.Background(), "notes",
		[]core.Filter{core.Eq("lead_id", "42"), core.Eq("type", "call")})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "/api/leads/42/notes", path)
	assert.Equal(t, "type=call", query)

	s.SetDefault("lead_id", "9")
	_, err = s.GetEntity(context.Background(), "notes", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/leads/9/notes", path)
}

func TestGetEntityInvalidRequestsAlwaysRaise(t *testing.T) {
	var calls int32
	for _, policy := range []ErrorPolicy{LogAndEmpty, SilentEmpty, Raise} {
		t.Run(policy.String(), func(t *testing.T) {
			s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				writeJSON(w, 200, `{}`)
			}, Options{Policy: policy})

			_, err := s.GetEntity(context.Background(), "unknown", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

			_, err = s.GetEntityPage(context.Background(), "notes", nil, 1, 10)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestErrorPolicies(t *testing.T) {
	failing := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":"boom"}`)
	}

	t.Run("log and empty", func(t *testing.T) {
		s := newTestSource(t, failing, Options{})
		got, err := s.GetEntity(context.Background(), "leads", nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		page, err := s.GetEntityPage(context.Background(), "leads", nil, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Equal(t, 2, page.PageNumber)
		assert.False(t, page.HasNextPage)
	})

	t.Run("silent empty", func(t *testing.T) {
		s := newTestSource(t, failing, Options{Policy: SilentEmpty})
		got, err := s.GetEntity(context.Background(), "leads", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("raise", func(t *testing.T) {
		s := newTestSource(t, failing, Options{Policy: Raise})
		_, err := s.GetEntity(context.Background(), "leads", nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
		assert.Equal(t, 500, errors.StatusCode(err))
	})
}

func TestRaiseMapsStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{http.StatusUnauthorized, errors.ErrorTypeAuthentication},
		{http.StatusForbidden, errors.ErrorTypePermission},
		{http.StatusNotFound, errors.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errors.ErrorTypeRateLimit},
		{http.StatusBadRequest, errors.ErrorTypeValidation},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, `{}`)
			}, Options{Policy: Raise})
			_, err := s.GetEntity(context.Background(), "leads", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.want), err.Error())
		})
	}
}

func TestCheckBodyFailures(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"result":2000,"data":[{"id":"1"}]}`)
	}, Options{
		Policy: Raise,
		CheckBody: func(body []byte) error {
			if code, _ := IntAt(body, "result"); code != 0 {
				return fmt.Errorf("vendor result %d", code)
			}
			return nil
		},
	})

	_, err := s.GetEntity(context.Background(), "leads", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendor result 2000")
}

func TestCancellationPropagates(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":[]}`)
	}, Options{})
	_, err := s.OpenConnection(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.GetEntity(ctx, "leads", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}

func TestGetEntityPageOffsetPaging(t *testing.T) {
	var query url.Values
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, 200, `{"data":[{"id":"11"},{"id":"12"},{"id":"13"},{"id":"14"},{"id":"15"},{"id":"16"},{"id":"17"},{"id":"18"},{"id":"19"},{"id":"20"}],"total":25}`)
	}, Options{Pager: OffsetPager{OffsetParam: "offset", LimitParam: "limit"}})

	page, err := s.GetEntityPage(context.Background(), "leads", nil, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "10", query.Get("offset"))
	assert.Equal(t, "10", query.Get("limit"))
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 25, page.TotalRecords)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPreviousPage)
	assert.True(t, page.HasNextPage)
}

func TestGetEntityPageNormalizesRequest(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":[{"id":"1"}]}`)
	}, Options{})

	page, err := s.GetEntityPage(context.Background(), "leads", nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 100, page.PageSize)

	s.GetConfig().Paging.MaxPageSize = 50
	page, err = s.GetEntityPage(context.Background(), "leads", nil, -3, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 50, page.PageSize)
	assert.Len(t, page.Data, 1)
}

func TestGetEntityPageHugePageNumber(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":[{"id":"1"},{"id":"2"},{"id":"3"}]}`)
	}, Options{})

	var page *core.PagedResult
	var err error
	require.NotPanics(t, func() {
		page, err = s.GetEntityPage(context.Background(), "leads", nil, math.MaxInt/10+2, 10)
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.TotalRecords)
	assert.False(t, page.HasNextPage)
	assert.Equal(t, MaxPageNumber(10), page.PageNumber)
}

func TestBodyEntitiesPostFilters(t *testing.T) {
	var method string
	var body map[string]string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		raw, _ := io.ReadAll(r.Body)
		_ = jsonpool.Unmarshal(raw, &body)
		writeJSON(w, 200, `{"data":[{"id":"1"}]}`)
	}, Options{Pager: PageNumberPager{PageParam: "page_number", SizeParam: "page_size"}})

	page, err := s.GetEntityPage(context.Background(), "search", []core.Filter{core.Eq("status", "open")}, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, map[string]string{"status": "open", "page_number": "3", "page_size": "20"}, body)
	assert.Len(t, page.Data, 1)
	assert.True(t, page.Estimated)
}

func TestConcurrentBodiesStayIntact(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		writeJSON(w, 200, `{"data":[`+strings.TrimSpace(string(raw))+`]}`)
	}, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := fmt.Sprintf("term-%02d-%s", i, strings.Repeat("x", i*50))
			got, err := s.GetEntity(context.Background(), "search", []core.Filter{core.Eq("q", q)})
			if assert.NoError(t, err) && assert.Len(t, got, 1) {
				assert.Equal(t, q, got[0].(map[string]any)["q"])
			}
		}(i)
	}
	wg.Wait()
}

func TestExecEntities(t *testing.T) {
	catalog := NewCatalog(&Entity{
		Name:     "computed",
		Required: []string{"n"},
		Exec: func(_ context.Context, p *Params) ([]any, error) {
			var n int
			_, _ = fmt.Sscan(p.Value("n"), &n)
			return items(n), nil
		},
	})
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("exec entities must not call the API")
	}, Options{Catalog: catalog})

	got, err := s.GetEntity(context.Background(), "computed", []core.Filter{core.Eq("n", "3")})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	page, err := s.GetEntityPage(context.Background(), "computed", []core.Filter{core.Eq("n", "3")}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.TotalRecords)
}

func TestOpenHookFailureBreaksConnection(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {}, Options{
		Open: func(context.Context, *Source) error { return fmt.Errorf("sign-in rejected") },
	})

	state, err := s.OpenConnection(context.Background())
	require.Error(t, err)
	assert.Equal(t, core.ConnectionStateBroken, state)

	_, err = s.GetEntitiesList(context.Background())
	require.Error(t, err)

	state, err = s.CloseConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.ConnectionStateClosed, state)
}

func TestGetEntitiesList(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {}, Options{})
	names, err := s.GetEntitiesList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"leads", "notes", "search"}, names)
}

func TestGetEntityStructure(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {}, Options{})

	st, err := s.GetEntityStructure(context.Background(), "leads", false)
	require.NoError(t, err)
	assert.Equal(t, "GET leads", st.Endpoint)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "id", st.Fields[0].Name)
	assert.True(t, st.Fields[0].Primary)

	again, err := s.GetEntityStructure(context.Background(), "LEADS", false)
	require.NoError(t, err)
	assert.Same(t, st, again)

	fresh, err := s.GetEntityStructure(context.Background(), "leads", true)
	require.NoError(t, err)
	assert.NotSame(t, st, fresh)

	notes, err := s.GetEntityStructure(context.Background(), "notes", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"lead_id"}, notes.Required)
	assert.Empty(t, notes.Fields)

	_, err = s.GetEntityStructure(context.Background(), "missing", false)
	assert.Error(t, err)
}
