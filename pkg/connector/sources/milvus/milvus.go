// Package milvus implements a data source for the Milvus vector database
// REST API (v1). Entities are per-source because listing collections goes
// through the source's own client.
package milvus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
)

const (
	// Name is the registry name
	Name = "milvus"
	// DefaultBaseURL is a local Milvus proxy
	DefaultBaseURL = "http://localhost:19530"
	// DefaultLimit is the row limit when no page size is given
	DefaultLimit = 100
)

// checkCode reports a non-success code carried in a 200 response
func checkCode(body []byte) error {
	var env envelope
	if err := jsonpool.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Code == 0 || env.Code == 200 {
		return nil
	}
	return fmt.Errorf("milvus code %d: %s", env.Code, env.Message)
}

// common fills the fields shared by query, get and search bodies
func common(p *webapi.Params) map[string]any {
	body := map[string]any{"collectionName": p.Value("collection")}
	if db := p.Value("db"); db != "" {
		body["dbName"] = db
	}
	if fields := webapi.ListParam(p, "output_fields"); len(fields) > 0 {
		body["outputFields"] = fields
	}
	if f := strings.TrimSpace(p.Value("filter")); f != "" {
		body["filter"] = f
	}
	return body
}

func withPaging(body map[string]any, p *webapi.Params) map[string]any {
	body["limit"] = webapi.IntParam(p, "limit", DefaultLimit)
	if off := webapi.IntParam(p, "offset", 0); off > 0 {
		body["offset"] = off
	}
	return body
}

func queryBody(p *webapi.Params) (any, error) {
	return withPaging(common(p), p), nil
}

func getBody(p *webapi.Params) (any, error) {
	raw := webapi.ListParam(p, "id")
	if len(raw) == 0 {
		return nil, fmt.Errorf("id is empty")
	}
	ids := make([]any, len(raw))
	for i, s := range raw {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			ids[i] = n
		} else {
			ids[i] = s
		}
	}
	body := common(p)
	if len(ids) == 1 {
		body["id"] = ids[0]
	} else {
		body["id"] = ids
	}
	return body, nil
}

func searchBody(p *webapi.Params) (any, error) {
	vec, err := ParseVector(p.Value("vector"))
	if err != nil {
		return nil, err
	}
	body := withPaging(common(p), p)
	body["vector"] = vec
	return body, nil
}

// ParseVector parses a comma-separated float vector, with or without brackets
func ParseVector(s string) ([]float32, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, fmt.Errorf("vector is empty")
	}
	parts := strings.Split(s, ",")
	vec := make([]float32, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("vector element %d: %w", i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

type connector struct {
	src *webapi.Source
}

// listCollections maps the name array Milvus returns onto records
func (c *connector) listCollections(ctx context.Context, params *webapi.Params) ([]any, error) {
	target := c.src.BaseURL() + "/v1/vector/collections"
	if db := params.Value("db"); db != "" {
		target += "?dbName=" + url.QueryEscape(db)
	}
	req, err := c.src.Client().NewRequest(ctx, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.src.Send(ctx, req, "collections")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []string `json:"data"`
	}
	if err := jsonpool.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode collection list: %w", err)
	}
	out := make([]any, len(resp.Data))
	for i, name := range resp.Data {
		out[i] = &CollectionName{Name: name}
	}
	return out, nil
}

func (c *connector) catalog() *webapi.Catalog {
	return webapi.NewCatalog(
		&webapi.Entity{
			Name:        "collections",
			Description: "Collection names",
			Path:        "v1/vector/collections",
			Model:       func() any { return &CollectionName{} },
			Exec:        c.listCollections,
		},
		&webapi.Entity{
			Name:        "collection",
			Description: "Schema, indexes and load state of a collection",
			Path:        "v1/vector/collections/describe?collectionName={collection}",
			Root:        "data",
			Model:       func() any { return &Collection{} },
			Pager:       webapi.SlicePager{},
		},
		&webapi.Entity{
			Name:        "query",
			Description: "Rows matching a boolean filter expression",
			Path:        "v1/vector/query",
			Root:        "data",
			Required:    []string{"collection"},
			Body:        queryBody,
		},
		&webapi.Entity{
			Name:        "get",
			Description: "Rows by primary key",
			Path:        "v1/vector/get",
			Root:        "data",
			Required:    []string{"collection", "id"},
			Body:        getBody,
			Pager:       webapi.SlicePager{},
		},
		&webapi.Entity{
			Name:        "search",
			Description: "Nearest neighbours of a vector",
			Path:        "v1/vector/search",
			Root:        "data",
			Required:    []string{"collection", "vector"},
			Body:        searchBody,
		},
	)
}

// New creates a Milvus data source. Credentials: token (optional; an API
// key or "user:password").
func New(cfg *config.BaseConfig) (*webapi.Source, error) {
	c := &connector{}
	src, err := webapi.NewSource(cfg, webapi.Options{
		DefaultBaseURL: DefaultBaseURL,
		Catalog:        c.catalog(),
		Pager:          webapi.OffsetPager{OffsetParam: "offset", LimitParam: "limit"},
		Policy:         webapi.Raise,
		Auth:           clients.BearerAuth(cfg.Credential("token")),
		CheckBody:      checkCode,
	}, nil)
	if err != nil {
		return nil, err
	}
	c.src = src
	return src, nil
}
