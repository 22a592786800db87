// Package pubsub implements a data source over Google Cloud Pub/Sub.
//
// The entities "subscriptions" and "topics" list the project's resources.
// Any other entity names a subscription and is read with a synchronous pull.
// The source also publishes to topics and acknowledges pulled messages.
package pubsub

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/clients"
	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/base"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"github.com/ajitpratap0/nebula-connect/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	pubsubapi "google.golang.org/api/pubsub/v1"
)

const (
	// Name is the registry name
	Name = "pubsub"
	// DefaultBaseURL is the Pub/Sub API endpoint
	DefaultBaseURL = "https://pubsub.googleapis.com"
	// DefaultScope grants publish, pull and list
	DefaultScope = "https://www.googleapis.com/auth/pubsub"

	entitySubscriptions = "subscriptions"
	entityTopics        = "topics"
)

// Source reads and publishes Pub/Sub messages
type Source struct {
	*base.BaseConnector

	project string
	baseURL string
	client  *clients.HTTPClient

	mu  sync.Mutex
	svc *pubsubapi.Service

	structMu   sync.Mutex
	structures map[string]*core.EntityStructure
}

var (
	_ core.DataSource   = (*Source)(nil)
	_ core.Publisher    = (*Source)(nil)
	_ core.Acknowledger = (*Source)(nil)
)

// New creates a Pub/Sub source.
//
// Credentials: project_id, and one of service_account_json or access_token
// (application default credentials otherwise). Options: project_id,
// service_account_file, emulator=true to send no credentials.
func New(cfg *config.BaseConfig) (*Source, error) {
	project := cfg.Credential("project_id")
	if project == "" {
		project = cfg.Option("project_id", "")
	}
	if project == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "pubsub project_id is required")
	}

	s := &Source{
		BaseConnector: base.NewBaseConnector(cfg, core.ConnectorTypeStream, nil),
		project:       project,
		baseURL:       cfg.BaseURL(DefaultBaseURL),
		structures:    make(map[string]*core.EntityStructure),
	}
	s.client = clients.NewHTTPClient(webapi.HTTPConfig(cfg), s.GetLogger())
	return s, nil
}

// transport sends the generated client's requests through the shared HTTP
// client so they are authenticated, rate limited and measured.
type transport struct {
	client *clients.HTTPClient
}

func (t transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.client.Do(req.Clone(req.Context()))
}

func (s *Source) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg := s.GetConfig()
	if tok := cfg.Credential("access_token"); tok != "" {
		return clients.StaticToken(tok), nil
	}
	key := []byte(cfg.Credential("service_account_json"))
	if len(key) == 0 {
		if path := cfg.Option("service_account_file", ""); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfig, "read service account file")
			}
			key = data
		}
	}
	ts, err := clients.GoogleServiceAccount(clients.WithHTTPClient(ctx, s.client.StdClient()), key, DefaultScope)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAuthentication, "load google credentials")
	}
	return oauth2.ReuseTokenSource(nil, ts), nil
}

// OpenConnection loads credentials and builds the API service
func (s *Source) OpenConnection(ctx context.Context) (core.ConnectionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil && s.IsOpen() {
		return core.ConnectionStateOpen, nil
	}
	s.SetConnectionState(core.ConnectionStateConnecting)

	if !s.GetConfig().OptionBool("emulator", false) {
		ts, err := s.tokenSource(context.WithoutCancel(ctx))
		if err != nil {
			s.GetLogger().Error("failed to open connection", zap.Error(err))
			return s.SetConnectionState(core.ConnectionStateBroken), errors.Wrap(err, errors.ErrorTypeConnection, "open connection")
		}
		s.client.SetAuthenticator(&clients.TokenAuth{Source: ts})
	}

	svc, err := pubsubapi.NewService(ctx,
		option.WithHTTPClient(&http.Client{Transport: transport{client: s.client}}),
		option.WithEndpoint(s.baseURL+"/"),
	)
	if err != nil {
		s.GetLogger().Error("failed to open connection", zap.Error(err))
		return s.SetConnectionState(core.ConnectionStateBroken), errors.Wrap(err, errors.ErrorTypeConnection, "open connection")
	}
	s.svc = svc
	s.GetLogger().Info("connection opened", zap.String("project", s.project), zap.String("base_url", s.baseURL))
	return s.SetConnectionState(core.ConnectionStateOpen), nil
}

// CloseConnection drops the service and idle connections
func (s *Source) CloseConnection(context.Context) (core.ConnectionState, error) {
	s.mu.Lock()
	s.svc = nil
	s.mu.Unlock()
	err := s.client.Close()
	s.Attachments().Clear()
	return s.SetConnectionState(core.ConnectionStateClosed), err
}

func (s *Source) service(ctx context.Context) (*pubsubapi.Service, error) {
	if !s.IsOpen() {
		if _, err := s.OpenConnection(ctx); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil, errors.New(errors.ErrorTypeConnection, "pubsub source is closed")
	}
	return s.svc, nil
}

func (s *Source) projectPath() string {
	return "projects/" + s.project
}

// SubscriptionPath expands a short subscription name within the project
func (s *Source) SubscriptionPath(name string) string {
	if strings.HasPrefix(name, "projects/") {
		return name
	}
	return s.projectPath() + "/subscriptions/" + name
}

// TopicPath expands a short topic name within the project
func (s *Source) TopicPath(name string) string {
	if strings.HasPrefix(name, "projects/") {
		return name
	}
	return s.projectPath() + "/topics/" + name
}

func shortName(full string) string {
	return full[strings.LastIndex(full, "/")+1:]
}

// apiError maps a Google API failure onto the typed error taxonomy
func apiError(op string, err error) error {
	var gerr *googleapi.Error
	if stderrors.As(err, &gerr) {
		e := errors.FromHTTPStatus(gerr.Code, fmt.Sprintf("%s: %s", op, gerr.Message))
		e.Cause = err
		return e
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.ErrorTypeTimeout, op)
	}
	return errors.Wrap(err, errors.ErrorTypeConnection, op)
}

// handleFailure logs a failed fetch and swallows it. Cancellation is raised.
func (s *Source) handleFailure(ctx context.Context, entity string, err error) error {
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeError, 0)
		return errors.Wrap(err, errors.ErrorTypeTimeout, fmt.Sprintf("fetch %s cancelled", entity))
	}
	metrics.RecordFetch(s.Type(), entity, metrics.OutcomeEmpty, 0)
	fields := []zap.Field{zap.Error(err)}
	if code := errors.StatusCode(err); code > 0 {
		fields = append(fields, zap.Int("status", code))
	}
	logger.FromContext(ctx, s.GetLogger()).Warn("entity fetch failed, returning empty result", fields...)
	return nil
}

// GetEntitiesList returns the listing entities followed by the project's
// subscriptions. A failed listing leaves only the listing entities.
func (s *Source) GetEntitiesList(ctx context.Context) ([]string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{entitySubscriptions, entityTopics}

	subs, err := s.listSubscriptions(ctx, svc)
	if err != nil {
		if ferr := s.handleFailure(ctx, entitySubscriptions, err); ferr != nil {
			return nil, ferr
		}
		return names, nil
	}
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.(*Subscription).ID)
	}
	sort.Strings(ids)
	return append(names, ids...), nil
}

func (s *Source) listSubscriptions(ctx context.Context, svc *pubsubapi.Service) ([]any, error) {
	var out []any
	err := svc.Projects.Subscriptions.List(s.projectPath()).
		Pages(ctx, func(resp *pubsubapi.ListSubscriptionsResponse) error {
			for _, sub := range resp.Subscriptions {
				out = append(out, &Subscription{
					Name:                     sub.Name,
					ID:                       shortName(sub.Name),
					Topic:                    sub.Topic,
					AckDeadlineSeconds:       sub.AckDeadlineSeconds,
					Filter:                   sub.Filter,
					MessageRetentionDuration: sub.MessageRetentionDuration,
					EnableMessageOrdering:    sub.EnableMessageOrdering,
					State:                    sub.State,
					Labels:                   sub.Labels,
				})
			}
			return nil
		})
	if err != nil {
		return nil, apiError("list subscriptions", err)
	}
	return out, nil
}

func (s *Source) listTopics(ctx context.Context, svc *pubsubapi.Service) ([]any, error) {
	var out []any
	err := svc.Projects.Topics.List(s.projectPath()).
		Pages(ctx, func(resp *pubsubapi.ListTopicsResponse) error {
			for _, t := range resp.Topics {
				out = append(out, &Topic{
					Name:                     t.Name,
					ID:                       shortName(t.Name),
					KmsKeyName:               t.KmsKeyName,
					MessageRetentionDuration: t.MessageRetentionDuration,
					State:                    t.State,
					Labels:                   t.Labels,
				})
			}
			return nil
		})
	if err != nil {
		return nil, apiError("list topics", err)
	}
	return out, nil
}

type pullSpec struct {
	max int64
	ack bool
}

func pullOptions(filters []core.Filter, size int) (pullSpec, error) {
	p := webapi.ParamsFromFilters(filters)
	spec := pullSpec{max: int64(size), ack: p.Value("ack") == "true"}
	if v := p.Value("max_messages"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return spec, errors.Newf(errors.ErrorTypeValidation, "max_messages must be a positive integer, got %q", v)
		}
		spec.max = n
	}
	return spec, nil
}

func (s *Source) pull(ctx context.Context, svc *pubsubapi.Service, subscription string, spec pullSpec) ([]any, error) {
	path := s.SubscriptionPath(subscription)
	resp, err := svc.Projects.Subscriptions.Pull(path, &pubsubapi.PullRequest{MaxMessages: spec.max}).Context(ctx).Do()
	if err != nil {
		return nil, apiError("pull "+subscription, err)
	}

	items := make([]any, 0, len(resp.ReceivedMessages))
	ackIDs := make([]string, 0, len(resp.ReceivedMessages))
	for _, rm := range resp.ReceivedMessages {
		if rm.Message == nil {
			continue
		}
		msg, err := decodeMessage(path, rm)
		if err != nil {
			return nil, err
		}
		items = append(items, msg)
		ackIDs = append(ackIDs, rm.AckId)
	}

	if spec.ack && len(ackIDs) > 0 {
		if err := s.acknowledge(ctx, svc, path, ackIDs); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func decodeMessage(subscription string, rm *pubsubapi.ReceivedMessage) (*Message, error) {
	data, err := base64.StdEncoding.DecodeString(rm.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "decode message "+rm.Message.MessageId)
	}
	msg := &Message{
		ID:              rm.Message.MessageId,
		AckID:           rm.AckId,
		Subscription:    subscription,
		Data:            data,
		Attributes:      rm.Message.Attributes,
		OrderingKey:     rm.Message.OrderingKey,
		DeliveryAttempt: rm.DeliveryAttempt,
	}
	if rm.Message.PublishTime != "" {
		if ts, err := time.Parse(time.RFC3339Nano, rm.Message.PublishTime); err == nil {
			msg.PublishTime = ts
		}
	}
	return msg, nil
}

func (s *Source) pageSize(size int) int {
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
	return size
}

func (s *Source) fetch(ctx context.Context, svc *pubsubapi.Service, entity string, filters []core.Filter, size int) ([]any, error) {
	switch strings.ToLower(entity) {
	case entitySubscriptions:
		return s.listSubscriptions(ctx, svc)
	case entityTopics:
		return s.listTopics(ctx, svc)
	}
	spec, err := pullOptions(filters, size)
	if err != nil {
		return nil, err
	}
	return s.pull(ctx, svc, entity, spec)
}

// GetEntity lists subscriptions or topics, or pulls up to max_messages
// (default one page) from the named subscription. ack=true acknowledges
// what was pulled.
func (s *Source) GetEntity(ctx context.Context, entity string, filters []core.Filter) ([]any, error) {
	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), entity)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity")
	span.SetAttribute("entity", entity)
	defer span.End()

	svc, err := s.service(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items, err := s.fetch(ctx, svc, entity, filters, s.pageSize(0))
	if errors.IsType(err, errors.ErrorTypeValidation) {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
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

// GetEntityPage slices the subscription and topic listings. For a
// subscription it pulls one batch of pageSize messages; the page number
// only labels the result since pulled messages cannot be skipped.
func (s *Source) GetEntityPage(ctx context.Context, entity string, filters []core.Filter, page, pageSize int) (*core.PagedResult, error) {
	preq := webapi.NewPageRequest(page, s.pageSize(pageSize))

	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), entity)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity_page")
	span.SetAttribute("entity", entity)
	span.SetAttribute("page", preq.Number)
	span.SetAttribute("page_size", preq.Size)
	defer span.End()

	svc, err := s.service(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	listing := strings.EqualFold(entity, entitySubscriptions) || strings.EqualFold(entity, entityTopics)
	var result *core.PagedResult
	if listing {
		result, err = webapi.SlicePager{}.Fetch(ctx, func(ctx context.Context, _ webapi.Call) (*webapi.Page, error) {
			items, err := s.fetch(ctx, svc, entity, nil, 0)
			if err != nil {
				return nil, err
			}
			return &webapi.Page{Items: items, Total: len(items)}, nil
		}, preq)
	} else {
		var spec pullSpec
		if spec, err = pullOptions(filters, preq.Size); err == nil {
			spec.max = int64(preq.Size)
			var items []any
			if items, err = s.pull(ctx, svc, entity, spec); err == nil {
				result = webapi.BuildPage(items, preq, -1, nil)
			}
		}
	}
	if errors.IsType(err, errors.ErrorTypeValidation) {
		metrics.RecordFetch(s.Type(), entity, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		if ferr := s.handleFailure(ctx, entity, err); ferr != nil {
			return nil, ferr
		}
		return webapi.EmptyPage(preq), nil
	}

	s.Attachments().Attach(s, result.Data)
	metrics.RecordFetch(s.Type(), entity, metrics.OutcomeOK, len(result.Data))
	span.SetAttribute("records", len(result.Data))
	return result, nil
}

// GetEntityStructure describes the records an entity returns
func (s *Source) GetEntityStructure(_ context.Context, entity string, refresh bool) (*core.EntityStructure, error) {
	key := strings.ToLower(entity)
	s.structMu.Lock()
	defer s.structMu.Unlock()
	if cached, ok := s.structures[key]; ok && !refresh {
		return cached, nil
	}

	st := &core.EntityStructure{Entity: entity, RetrievedAt: time.Now().UTC()}
	switch key {
	case entitySubscriptions:
		st.Endpoint = "GET v1/" + s.projectPath() + "/subscriptions"
		st.Fields = webapi.StructureOf(func() any { return &Subscription{} })
	case entityTopics:
		st.Endpoint = "GET v1/" + s.projectPath() + "/topics"
		st.Fields = webapi.StructureOf(func() any { return &Topic{} })
	default:
		st.Endpoint = "POST v1/" + s.SubscriptionPath(entity) + ":pull"
		st.Fields = webapi.StructureOf(func() any { return &Message{} })
	}
	s.structures[key] = st
	return st, nil
}

// Publish sends one message to a topic and returns its server-assigned ID.
// The attribute "ordering_key" sets the message ordering key.
func (s *Source) Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}

	msg := &pubsubapi.PubsubMessage{Data: base64.StdEncoding.EncodeToString(data)}
	if len(attributes) > 0 {
		msg.Attributes = make(map[string]string, len(attributes))
		for k, v := range attributes {
			if k == "ordering_key" {
				msg.OrderingKey = v
				continue
			}
			msg.Attributes[k] = v
		}
	}

	resp, err := svc.Projects.Topics.Publish(s.TopicPath(topic), &pubsubapi.PublishRequest{
		Messages: []*pubsubapi.PubsubMessage{msg},
	}).Context(ctx).Do()
	if err != nil {
		return "", apiError("publish "+topic, err)
	}
	if len(resp.MessageIds) == 0 {
		return "", errors.New(errors.ErrorTypeData, "publish returned no message id")
	}
	logger.FromContext(ctx, s.GetLogger()).Debug("published message", zap.String("topic", topic), zap.String("id", resp.MessageIds[0]))
	return resp.MessageIds[0], nil
}

// Acknowledge acknowledges pulled messages by ack ID
func (s *Source) Acknowledge(ctx context.Context, subscription string, ackIDs ...string) error {
	if len(ackIDs) == 0 {
		return nil
	}
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	return s.acknowledge(ctx, svc, s.SubscriptionPath(subscription), ackIDs)
}

func (s *Source) acknowledge(ctx context.Context, svc *pubsubapi.Service, path string, ackIDs []string) error {
	_, err := svc.Projects.Subscriptions.Acknowledge(path, &pubsubapi.AcknowledgeRequest{AckIds: ackIDs}).Context(ctx).Do()
	if err != nil {
		return apiError("acknowledge "+shortName(path), err)
	}
	return nil
}
