package webapi

import (
	"net/url"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
)

type param struct {
	name  string
	value string
}

// Params is a case-insensitive parameter set that keeps the caller's spelling
// for the wire. Later writes to the same key win.
type Params struct {
	order   []string
	entries map[string]param
}

// NewParams creates an empty set
func NewParams() *Params {
	return &Params{entries: make(map[string]param)}
}

// ParamsFromFilters converts filters into parameters, skipping blank fields
func ParamsFromFilters(filters []core.Filter) *Params {
	p := NewParams()
	for _, f := range filters {
		if strings.TrimSpace(f.Field) == "" {
			continue
		}
		p.Set(strings.TrimSpace(f.Field), f.Value)
	}
	return p
}

// Set stores value under name
func (p *Params) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := p.entries[key]; !ok {
		p.order = append(p.order, key)
	}
	p.entries[key] = param{name: name, value: value}
}

// Get returns the value stored under name
func (p *Params) Get(name string) (string, bool) {
	e, ok := p.entries[strings.ToLower(name)]
	return e.value, ok
}

// Value returns the value under name or ""
func (p *Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Has reports whether name is present with a non-blank value
func (p *Params) Has(name string) bool {
	v, ok := p.Get(name)
	return ok && strings.TrimSpace(v) != ""
}

// Delete removes name
func (p *Params) Delete(name string) {
	key := strings.ToLower(name)
	if _, ok := p.entries[key]; !ok {
		return
	}
	delete(p.entries, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Merge fills keys from defaults that are not already present
func (p *Params) Merge(defaults map[string]string) {
	for k, v := range defaults {
		if _, ok := p.Get(k); !ok {
			p.Set(k, v)
		}
	}
}

// Clone returns an independent copy
func (p *Params) Clone() *Params {
	c := NewParams()
	for _, k := range p.order {
		e := p.entries[k]
		c.Set(e.name, e.value)
	}
	return c
}

// Len returns the number of parameters
func (p *Params) Len() int {
	return len(p.order)
}

// Names returns parameter names as the caller spelled them, in insertion order
func (p *Params) Names() []string {
	out := make([]string, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.entries[k].name)
	}
	return out
}

// Values converts the set to url.Values
func (p *Params) Values() url.Values {
	v := make(url.Values, len(p.order))
	for _, k := range p.order {
		e := p.entries[k]
		v.Set(e.name, e.value)
	}
	return v
}
