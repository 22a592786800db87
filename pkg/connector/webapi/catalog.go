package webapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

// BodyFunc builds the JSON body of a POST entity from the residual parameters
// (filters not consumed by the path, plus any paging parameters). Lookups on
// params are case-insensitive.
type BodyFunc func(params *Params) (any, error)

// Entity maps an entity key to a vendor endpoint
type Entity struct {
	// Name is the entity key callers use
	Name string
	// Description is shown by GetEntityStructure
	Description string
	// Path is the endpoint template relative to the base URL
	Path string
	// Method defaults to GET, or POST when Body is set
	Method string
	// Root is the dotted path to the records in the response ("" = top level)
	Root string
	// TotalPath locates an authoritative total count in the response
	TotalPath string
	// Required lists filters that must be present; path placeholders are added automatically
	Required []string
	// Model returns a new typed record; nil decodes into map[string]any
	Model func() any
	// Pager overrides the source's default pager
	Pager Pager
	// Body builds a request body; residual filters go to the body instead of the query
	Body BodyFunc
	// Query holds fixed query parameters sent on every call
	Query map[string]string
	// Exec performs the call itself for entities that are not plain HTTP requests
	Exec func(ctx context.Context, params *Params) ([]any, error)
}

// HTTPMethod returns the method used for the entity
func (e *Entity) HTTPMethod() string {
	if e.Method != "" {
		return strings.ToUpper(e.Method)
	}
	if e.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// Placeholders returns the {name} tokens of the path template in order
func (e *Entity) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(e.Path, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Catalog is a case-insensitive table of entities
type Catalog struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewCatalog builds a catalog. Duplicate keys are a programming error and panic.
func NewCatalog(entities ...*Entity) *Catalog {
	c := &Catalog{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if !c.Add(e) {
			panic(fmt.Sprintf("webapi: duplicate entity %q", e.Name))
		}
	}
	return c
}

// Add registers e unless its key is taken. Placeholders are merged into Required.
func (c *Catalog) Add(e *Entity) bool {
	key := strings.ToLower(strings.TrimSpace(e.Name))
	if key == "" {
		return false
	}

	for _, p := range e.Placeholders() {
		if !containsFold(e.Required, p) {
			e.Required = append(e.Required, p)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entities[key]; exists {
		return false
	}
	c.entities[key] = e
	return true
}

// Lookup finds an entity by key, ignoring case
func (c *Catalog) Lookup(name string) (*Entity, error) {
	c.mu.RLock()
	e, ok := c.entities[strings.ToLower(strings.TrimSpace(name))]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown entity: %s", name).
			WithDetail("entity", name)
	}
	return e, nil
}

// Names returns the entity keys, sorted
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entities))
	for _, e := range c.entities {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Entities returns every entity, sorted by key
func (c *Catalog) Entities() []*Entity {
	names := c.Names()
	out := make([]*Entity, 0, len(names))
	for _, n := range names {
		e, _ := c.Lookup(n)
		out = append(out, e)
	}
	return out
}

// Len returns the number of entities
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
