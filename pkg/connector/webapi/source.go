package webapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/base"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"github.com/ajitpratap0/nebula-connect/pkg/metrics"
	"go.uber.org/zap"
)

// ErrorPolicy decides how vendor failures reach the caller
type ErrorPolicy int

const (
	// LogAndEmpty logs a warning and returns an empty result
	LogAndEmpty ErrorPolicy = iota
	// SilentEmpty returns an empty result without logging
	SilentEmpty
	// Raise returns a typed error
	Raise
)

// String implements fmt.Stringer
func (p ErrorPolicy) String() string {
	switch p {
	case LogAndEmpty:
		return "log_and_empty"
	case SilentEmpty:
		return "silent_empty"
	case Raise:
		return "raise"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Options configures a Source for one vendor
type Options struct {
	// BaseURL, when set, takes precedence over the config; vendors whose URL
	// embeds an org or API version build it here
	BaseURL string
	// DefaultBaseURL is used when the config has no connection.base_url
	DefaultBaseURL string
	Catalog        *Catalog
	// Pager is the default pager; entities may override it. Nil pages client-side.
	Pager  Pager
	Policy ErrorPolicy
	// Auth decorates every request
	Auth clients.Authenticator
	// Headers are sent with every request
	Headers map[string]string
	// Defaults fill path placeholders and required parameters the caller did
	// not pass; they never reach the query string otherwise
	Defaults map[string]string
	// CheckBody reports vendor failures carried in a 2xx body
	CheckBody func(body []byte) error
	// Open runs during OpenConnection, after which the source is open
	Open func(ctx context.Context, s *Source) error
	// Close runs during CloseConnection
	Close func(ctx context.Context, s *Source) error
}

// Source is a generic HTTP/JSON data source driven by a Catalog
type Source struct {
	*base.BaseConnector

	opts    Options
	client  *clients.HTTPClient
	baseURL string
	resolve ResolveOptions

	defaultsMu sync.RWMutex
	defaults   map[string]string

	openMu sync.Mutex

	structMu   sync.Mutex
	structures map[string]*core.EntityStructure
}

var _ core.DataSource = (*Source)(nil)

// NewSource builds a source from cfg. Options supply the vendor specifics.
func NewSource(cfg *config.BaseConfig, opts Options, log *zap.Logger) (*Source, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "catalog is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = cfg.BaseURL(opts.DefaultBaseURL)
	}
	if baseURL == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "connection.base_url is required")
	}

	s := &Source{
		BaseConnector: base.NewBaseConnector(cfg, core.ConnectorTypeWebAPI, log),
		opts:          opts,
		baseURL:       baseURL,
		resolve:       ResolveOptions{KeepPathParams: cfg.OptionBool("keep_path_params", false)},
		defaults:      make(map[string]string),
		structures:    make(map[string]*core.EntityStructure),
	}
	for k, v := range opts.Defaults {
		s.defaults[k] = v
	}

	httpCfg := HTTPConfig(cfg)
	for k, v := range opts.Headers {
		httpCfg.DefaultHeaders[k] = v
	}
	s.client = clients.NewHTTPClient(httpCfg, s.GetLogger())
	if opts.Auth != nil {
		s.client.SetAuthenticator(opts.Auth)
	}
	return s, nil
}

// HTTPConfig derives the HTTP client settings from a data source config
func HTTPConfig(cfg *config.BaseConfig) *clients.HTTPConfig {
	c := clients.DefaultHTTPConfig()
	c.Name = cfg.Type
	if cfg.Timeouts.Request > 0 {
		c.RequestTimeout = cfg.Timeouts.Request
	}
	if cfg.Timeouts.Connection > 0 {
		c.DialTimeout = cfg.Timeouts.Connection
	}
	if cfg.Timeouts.Idle > 0 {
		c.IdleConnTimeout = cfg.Timeouts.Idle
	}
	c.InsecureSkipVerify = cfg.Security.TLSSkipVerify
	c.RateLimit = cfg.Reliability.RateLimitPerSec
	c.RateBurst = cfg.Reliability.RateBurst
	c.DefaultHeaders = make(map[string]string, len(cfg.Connection.Headers))
	for k, v := range cfg.Connection.Headers {
		c.DefaultHeaders[k] = v
	}
	return c
}

// Client returns the HTTP client used for vendor calls
func (s *Source) Client() *clients.HTTPClient {
	return s.client
}

// BaseURL returns the resolved vendor base URL
func (s *Source) BaseURL() string {
	return s.baseURL
}

// Catalog returns the entity catalog
func (s *Source) Catalog() *Catalog {
	return s.opts.Catalog
}

// Policy returns the error policy
func (s *Source) Policy() ErrorPolicy {
	return s.opts.Policy
}

// SetAuthenticator replaces the request authenticator, e.g. after a sign-in
func (s *Source) SetAuthenticator(auth clients.Authenticator) {
	s.client.SetAuthenticator(auth)
}

// SetDefault sets a default parameter, e.g. a site ID learned at sign-in
func (s *Source) SetDefault(name, value string) {
	s.defaultsMu.Lock()
	defer s.defaultsMu.Unlock()
	s.defaults[name] = value
}

func (s *Source) defaultParams() map[string]string {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	out := make(map[string]string, len(s.defaults))
	for k, v := range s.defaults {
		out[k] = v
	}
	return out
}

// OpenConnection runs the vendor's open hook and marks the source open
func (s *Source) OpenConnection(ctx context.Context) (core.ConnectionState, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if s.IsOpen() {
		return core.ConnectionStateOpen, nil
	}
	s.SetConnectionState(core.ConnectionStateConnecting)

	if s.opts.Open != nil {
		if err := s.opts.Open(ctx, s); err != nil {
			s.GetLogger().Error("failed to open connection", zap.Error(err))
			return s.SetConnectionState(core.ConnectionStateBroken), errors.Wrap(err, errors.ErrorTypeConnection, "open connection")
		}
	}

	s.GetLogger().Info("connection opened", zap.String("base_url", s.baseURL))
	return s.SetConnectionState(core.ConnectionStateOpen), nil
}

// CloseConnection runs the vendor's close hook and releases idle connections
func (s *Source) CloseConnection(ctx context.Context) (core.ConnectionState, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	var err error
	if s.opts.Close != nil {
		err = s.opts.Close(ctx, s)
	}
	stats := s.client.GetStats()
	s.GetLogger().Debug("connection closed",
		zap.Int64("requests", stats.TotalRequests),
		zap.Int64("failed_requests", stats.FailedRequests))
	_ = s.client.Close()
	s.Attachments().Clear()
	if err != nil {
		s.GetLogger().Warn("close hook failed", zap.Error(err))
	}
	return s.SetConnectionState(core.ConnectionStateClosed), err
}

func (s *Source) ensureOpen(ctx context.Context) error {
	if s.IsOpen() {
		return nil
	}
	_, err := s.OpenConnection(ctx)
	return err
}

// GetEntitiesList returns the catalog's entity keys
func (s *Source) GetEntitiesList(ctx context.Context) ([]string, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	return s.opts.Catalog.Names(), nil
}

// Prepare looks up and resolves an entity call without sending it
func (s *Source) Prepare(entity string, filters []core.Filter) (*Request, error) {
	e, err := s.opts.Catalog.Lookup(entity)
	if err != nil {
		return nil, err
	}
	params := ParamsFromFilters(filters)
	params.Merge(entityDefaults(e, s.defaultParams()))
	return Resolve(e, params, s.resolve)
}

// entityDefaults keeps the defaults that e consumes as path placeholders or
// required keys. Other defaults are never sent.
func entityDefaults(e *Entity, defaults map[string]string) map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		if containsFold(e.Placeholders(), k) || containsFold(e.Required, k) {
			out[k] = v
		}
	}
	return out
}

// GetEntity fetches an entity in one call using the vendor's default paging
func (s *Source) GetEntity(ctx context.Context, entity string, filters []core.Filter) ([]any, error) {
	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), entity)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity")
	span.SetAttribute("entity", entity)
	defer span.End()

	if err := s.ensureOpen(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	req, err := s.Prepare(entity, filters)
	if err != nil {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
	}

	var items []any
	if req.Entity.Exec != nil {
		items, err = req.Entity.Exec(ctx, req.Residual)
	} else {
		var page *Page
		page, err = s.Do(ctx, req, Call{})
		if page != nil {
			items = page.Items
		}
	}
	if err != nil {
		span.RecordError(err)
		return nil, s.handleFailure(ctx, entity, err)
	}

	s.Attachments().Attach(s, items)
	metrics.RecordFetch(s.Type(), entity, metrics.OutcomeOK, len(items))
	span.SetAttribute("records", len(items))
	return items, nil
}

// GetEntityPage fetches one 1-based page of an entity
func (s *Source) GetEntityPage(ctx context.Context, entity string, filters []core.Filter, page, pageSize int) (*core.PagedResult, error) {
	preq := s.normalize(page, pageSize)

	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), entity)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity_page")
	span.SetAttribute("entity", entity)
	span.SetAttribute("page", preq.Number)
	span.SetAttribute("page_size", preq.Size)
	defer span.End()

	if err := s.ensureOpen(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	req, err := s.Prepare(entity, filters)
	if err != nil {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
	}

	var result *core.PagedResult
	if req.Entity.Exec != nil {
		var items []any
		items, err = req.Entity.Exec(ctx, req.Residual)
		if err == nil {
			result, err = SlicePager{}.Fetch(ctx, func(context.Context, Call) (*Page, error) {
				return &Page{Items: items, Total: len(items)}, nil
			}, preq)
		}
	} else {
		pager := req.Entity.Pager
		if pager == nil {
			pager = s.opts.Pager
		}
		if pager == nil {
			pager = SlicePager{}
		}
		result, err = pager.Fetch(ctx, func(ctx context.Context, call Call) (*Page, error) {
			return s.Do(ctx, req, call)
		}, preq)
	}
	if err != nil {
		span.RecordError(err)
		if ferr := s.handleFailure(ctx, entity, err); ferr != nil {
			return nil, ferr
		}
		return EmptyPage(preq), nil
	}

	s.Attachments().Attach(s, result.Data)
	metrics.RecordFetch(s.Type(), entity, metrics.OutcomeOK, len(result.Data))
	span.SetAttribute("records", len(result.Data))
	return result, nil
}

func (s *Source) normalize(page, size int) PageRequest {
	cfg := s.GetConfig().Paging
	if size < 1 {
		size = cfg.DefaultPageSize
	}
	if size < 1 {
		size = 100
	}
	if cfg.MaxPageSize > 0 && size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}
	return NewPageRequest(page, size)
}

// handleFailure applies the error policy. It returns nil when the failure is swallowed.
// Cancellation is never swallowed.
func (s *Source) handleFailure(ctx context.Context, entity string, err error) error {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeError, 0)
		return errors.Wrap(err, errors.ErrorTypeTimeout, fmt.Sprintf("fetch %s cancelled", entity))
	}

	switch s.opts.Policy {
	case Raise:
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeError, 0)
		return err
	case SilentEmpty:
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeEmpty, 0)
		return nil
	default:
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeEmpty, 0)
		fields := []zap.Field{zap.Error(err)}
		if code := errors.StatusCode(err); code > 0 {
			fields = append(fields, zap.Int("status", code))
		}
		logger.FromContext(ctx, s.GetLogger()).Warn("entity fetch failed, returning empty result", fields...)
		return nil
	}
}

// Do sends one call for a resolved request and unwraps the response
func (s *Source) Do(ctx context.Context, req *Request, call Call) (*Page, error) {
	body, err := s.Call(ctx, req, call)
	if err != nil {
		return nil, err
	}

	e := req.Entity
	page := &Page{
		Items: Unwrap(body, e.Root, e.Model),
		Total: -1,
		Body:  body,
	}
	if e.TotalPath != "" {
		if n, ok := IntAt(body, e.TotalPath); ok {
			page.Total = n
		}
	}
	return page, nil
}

// Call sends one request and returns the raw body of a successful response
func (s *Source) Call(ctx context.Context, req *Request, call Call) ([]byte, error) {
	target := call.URL
	var hreq *http.Request
	var err error

	if req.Entity.Body != nil && target == "" {
		payload, berr := req.Entity.Body(req.BodyParams(call.Query))
		if berr != nil {
			return nil, errors.Wrap(berr, errors.ErrorTypeValidation, fmt.Sprintf("build %s request body", req.Entity.Name))
		}
		body, merr := jsonpool.MarshalBody(payload)
		if merr != nil {
			return nil, errors.Wrap(merr, errors.ErrorTypeData, "encode request body")
		}
		hreq, err = s.client.NewRequest(ctx, req.Method, req.URL(s.baseURL, nil), body,
			map[string]string{"Content-Type": "application/json"})
	} else {
		if target == "" {
			target = req.URL(s.baseURL, call.Query)
		}
		method := req.Method
		if call.URL != "" {
			method = http.MethodGet
		}
		hreq, err = s.client.NewRequest(ctx, method, target, nil, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "build request")
	}

	return s.send(ctx, hreq, req.Entity.Name)
}

// Send issues a prepared HTTP request through the source's client and applies
// the status and envelope checks. Vendor hooks use it for auxiliary calls.
func (s *Source) Send(ctx context.Context, hreq *http.Request, label string) ([]byte, error) {
	return s.send(ctx, hreq, label)
}

func (s *Source) send(ctx context.Context, hreq *http.Request, label string) ([]byte, error) {
	start := time.Now()
	resp, err := s.client.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, fmt.Sprintf("request for %s", label))
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, fmt.Sprintf("request for %s failed", label))
	}

	body, err := s.client.ReadBody(resp)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, fmt.Sprintf("read response for %s", label))
	}

	logger.FromContext(ctx, s.GetLogger()).Debug("vendor call",
		zap.String("method", hreq.Method),
		zap.String("path", hreq.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := errors.FromHTTPStatus(resp.StatusCode,
			fmt.Sprintf("%s %s returned %d", hreq.Method, label, resp.StatusCode)).
			WithDetail("entity", label)
		if s.GetConfig().Observability.LogResponseBodies {
			e = e.WithDetail("body", truncate(string(body), 512))
		}
		return nil, e
	}

	if s.opts.CheckBody != nil {
		if err := s.opts.CheckBody(body); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, fmt.Sprintf("%s reported a failure", label)).
				WithDetail("entity", label)
		}
	}
	return body, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
