package webapi

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/ajitpratap0/nebula-connect/pkg/errors"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// ResolveOptions tunes endpoint resolution
type ResolveOptions struct {
	// KeepPathParams also sends values consumed by the path as query parameters.
	// Some vendor APIs tolerate or expect the duplicate; it is off by default.
	KeepPathParams bool
}

// Request is a resolved entity call
type Request struct {
	Entity *Entity
	Method string
	// Path is the substituted template, relative to the base URL
	Path string
	// Query carries residual filters for entities without a body
	Query url.Values
	// Residual holds every filter not consumed by the path
	Residual *Params
	// Consumed lists the parameters substituted into the path
	Consumed []string
}

// Resolve validates params against e and produces the concrete call.
// Every missing required parameter is reported in a single validation error.
func Resolve(e *Entity, params *Params, opts ResolveOptions) (*Request, error) {
	if params == nil {
		params = NewParams()
	}

	var missing []string
	for _, key := range e.Required {
		if !params.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"missing required parameter(s) for %s: %s", e.Name, strings.Join(missing, ", ")).
			WithDetail("entity", e.Name).
			WithDetail("missing", missing)
	}

	residual := params.Clone()
	var consumed []string
	path := placeholderPattern.ReplaceAllStringFunc(e.Path, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := params.Get(name)
		if !ok || strings.TrimSpace(value) == "" {
			return token
		}
		consumed = append(consumed, name)
		if !opts.KeepPathParams {
			residual.Delete(name)
		}
		return url.PathEscape(value)
	})

	if left := placeholderPattern.FindAllString(path, -1); len(left) > 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"unresolved path parameter(s) for %s: %s", e.Name, strings.Join(left, ", ")).
			WithDetail("entity", e.Name)
	}

	for k, v := range e.Query {
		if _, ok := residual.Get(k); !ok {
			residual.Set(k, v)
		}
	}

	req := &Request{
		Entity:   e,
		Method:   e.HTTPMethod(),
		Path:     strings.TrimLeft(path, "/"),
		Residual: residual,
		Consumed: consumed,
	}
	if e.Body == nil {
		req.Query = residual.Values()
	} else {
		req.Query = url.Values{}
	}
	return req, nil
}

// URL joins the request path onto baseURL and encodes query merged with extra
func (r *Request) URL(baseURL string, extra url.Values) string {
	u := strings.TrimRight(baseURL, "/")
	if r.Path != "" {
		u += "/" + r.Path
	}
	q := make(url.Values, len(r.Query)+len(extra))
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		q[k] = append([]string(nil), v...)
	}
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + q.Encode()
	}
	return u
}

// BodyParams returns the residual parameters merged with extra, as passed to Entity.Body.
// Keys in extra replace residual keys regardless of case.
func (r *Request) BodyParams(extra url.Values) *Params {
	p := r.Residual.Clone()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, extra.Get(k))
	}
	return p
}
