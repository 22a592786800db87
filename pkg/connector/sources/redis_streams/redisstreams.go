// Package redisstreams implements a data source over Redis Streams. Every
// stream key is an entity: reads go through XRANGE, or XREADGROUP when a
// consumer group is named, and the source can also publish (XADD) and
// acknowledge (XACK) entries.
package redisstreams

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/base"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"github.com/ajitpratap0/nebula-connect/pkg/metrics"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

const (
	// Name is the registry name
	Name = "redisstreams"
	// DefaultURL is used when neither connection.base_url nor credentials.url is set
	DefaultURL = "redis://localhost:6379/0"
	// DefaultMaxLen is the approximate stream cap applied by Publish
	DefaultMaxLen = 10000
)

// Option customizes a Source
type Option func(*Source)

// WithDialer replaces the URL dialer, e.g. with an in-memory connection
func WithDialer(dial DialFunc) Option {
	return func(s *Source) { s.dial = dial }
}

// Source reads, publishes and acknowledges Redis stream entries
type Source struct {
	*base.BaseConnector

	url      string
	dial     DialFunc
	maxLen   int
	group    string
	consumer string
	match    string

	mu   sync.RWMutex
	pool *redis.Pool

	structMu   sync.Mutex
	structures map[string]*core.EntityStructure
}

var (
	_ core.DataSource   = (*Source)(nil)
	_ core.Publisher    = (*Source)(nil)
	_ core.Acknowledger = (*Source)(nil)
)

// New creates a Redis Streams source.
//
// Credentials: url (or connection.base_url), password, tls_ca (PEM).
// Options: maxlen, consumer_group, consumer, match (SCAN pattern).
func New(cfg *config.BaseConfig, opts ...Option) (*Source, error) {
	redisURL := cfg.Connection.BaseURL
	if redisURL == "" {
		redisURL = cfg.Credential("url")
	}
	if redisURL == "" {
		redisURL = DefaultURL
	}

	s := &Source{
		BaseConnector: base.NewBaseConnector(cfg, core.ConnectorTypeStream, nil),
		url:           redisURL,
		maxLen:        cfg.OptionInt("maxlen", DefaultMaxLen),
		group:         cfg.Option("consumer_group", ""),
		consumer:      cfg.Option("consumer", "nebula-connect"),
		match:         cfg.Option("match", "*"),
		structures:    make(map[string]*core.EntityStructure),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dial == nil {
		dialOpts, err := dialOptions(cfg, redisURL)
		if err != nil {
			return nil, err
		}
		s.dial = urlDialer(redisURL, dialOpts)
	}
	return s, nil
}

// OpenConnection creates the pool and checks the server with PING
func (s *Source) OpenConnection(ctx context.Context) (core.ConnectionState, error) {
	s.mu.Lock()
	if s.pool == nil {
		s.pool = newPool(s.dial, s.GetConfig().Timeouts.Idle)
	}
	s.mu.Unlock()

	if s.IsOpen() {
		return core.ConnectionStateOpen, nil
	}
	s.SetConnectionState(core.ConnectionStateConnecting)

	if _, err := s.do(ctx, "PING"); err != nil {
		s.GetLogger().Error("failed to open connection", zap.Error(err))
		return s.SetConnectionState(core.ConnectionStateBroken), errors.Wrap(err, errors.ErrorTypeConnection, "open connection")
	}
	s.GetLogger().Info("connection opened", zap.String("url", redactURL(s.url)))
	return s.SetConnectionState(core.ConnectionStateOpen), nil
}

// CloseConnection closes the pool
func (s *Source) CloseConnection(context.Context) (core.ConnectionState, error) {
	s.mu.Lock()
	var err error
	if s.pool != nil {
		err = s.pool.Close()
		s.pool = nil
	}
	s.mu.Unlock()
	s.Attachments().Clear()
	return s.SetConnectionState(core.ConnectionStateClosed), err
}

func (s *Source) ensureOpen(ctx context.Context) error {
	if s.IsOpen() {
		return nil
	}
	_, err := s.OpenConnection(ctx)
	return err
}

func (s *Source) do(ctx context.Context, cmd string, args ...any) (any, error) {
	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()
	if pool == nil {
		return nil, errors.New(errors.ErrorTypeConnection, "redis source is closed")
	}

	conn, err := pool.GetContext(ctx)
	if err != nil {
		return nil, classify(ctx, strings.ToLower(cmd), err)
	}
	defer conn.Close()

	timer := metrics.NewTimer()
	reply, err := redis.DoContext(conn, ctx, cmd, args...)
	logger.FromContext(ctx, s.GetLogger()).Debug("redis command",
		zap.String("cmd", cmd),
		zap.Duration("elapsed", timer.Elapsed()),
		zap.Error(err))
	if err != nil {
		return nil, classify(ctx, strings.ToLower(cmd), err)
	}
	return reply, nil
}

// GetEntitiesList scans the keyspace for stream keys matching options.match
func (s *Source) GetEntitiesList(ctx context.Context) ([]string, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	cursor := "0"
	for {
		reply, err := s.do(ctx, "SCAN", cursor, "MATCH", s.match, "COUNT", 500, "TYPE", "stream")
		if err != nil {
			return nil, err
		}
		parts, err := redis.Values(reply, nil)
		if err != nil || len(parts) != 2 {
			return nil, errors.Newf(errors.ErrorTypeData, "unexpected SCAN reply %v", reply)
		}
		next, _ := redis.String(parts[0], nil)
		keys, _ := redis.Strings(parts[1], nil)
		for _, k := range keys {
			seen[k] = struct{}{}
		}
		if next == "0" || next == "" {
			break
		}
		cursor = next
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

type readSpec struct {
	start, end string
	count      int
	group      string
	consumer   string
	id         string
	noAck      bool
	ranged     bool
}

func (s *Source) spec(filters []core.Filter, size int) (readSpec, error) {
	p := webapi.ParamsFromFilters(filters)
	rs := readSpec{
		start:    "-",
		end:      "+",
		count:    size,
		group:    p.Value("group"),
		consumer: p.Value("consumer"),
		id:       ">",
	}
	if v := p.Value("start"); v != "" {
		rs.start, rs.ranged = v, true
	}
	if v := p.Value("end"); v != "" {
		rs.end, rs.ranged = v, true
	}
	if v := p.Value("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return rs, errors.Newf(errors.ErrorTypeValidation, "count must be a positive integer, got %q", v)
		}
		rs.count = n
	}
	if v := p.Value("id"); v != "" {
		rs.id = v
	}
	rs.noAck = p.Value("noack") == "true"
	if rs.group == "" && rs.consumer != "" {
		rs.group = s.group
	}
	if rs.group != "" && rs.consumer == "" {
		rs.consumer = s.consumer
	}
	if rs.consumer != "" && rs.group == "" {
		return rs, errors.New(errors.ErrorTypeValidation, "consumer given without group")
	}
	return rs, nil
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

// GetEntity reads up to count entries of a stream (default: one page)
func (s *Source) GetEntity(ctx context.Context, stream string, filters []core.Filter) ([]any, error) {
	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), stream)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity")
	span.SetAttribute("entity", stream)
	defer span.End()

	if err := s.ensureOpen(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	rs, err := s.spec(filters, s.pageSize(0))
	if err != nil {
		metrics.RecordFetch(s.Type(), stream, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
	}

	var msgs []*Message
	if rs.group != "" {
		msgs, err = s.readGroup(ctx, stream, rs)
	} else {
		msgs, err = s.xrange(ctx, stream, rs.start, rs.end, rs.count)
	}
	if err != nil {
		metrics.RecordFetch(s.Type(), stream, metrics.OutcomeError, 0)
		span.RecordError(err)
		return nil, err
	}

	items := toItems(msgs)
	s.Attachments().Attach(s, items)
	metrics.RecordFetch(s.Type(), stream, metrics.OutcomeOK, len(items))
	span.SetAttribute("records", len(items))
	return items, nil
}

// GetEntityPage walks the stream with exclusive XRANGE cursors to the
// requested page. Without start/end filters the total comes from XLEN.
// Group reads deliver the next batch of pending entries regardless of page.
func (s *Source) GetEntityPage(ctx context.Context, stream string, filters []core.Filter, page, pageSize int) (*core.PagedResult, error) {
	preq := webapi.NewPageRequest(page, s.pageSize(pageSize))

	ctx, _ = logger.ContextWithRequestID(ctx)
	ctx = logger.ContextWithEntity(ctx, s.Type(), stream)
	ctx, span := s.Tracer().StartSpan(ctx, "get_entity_page")
	span.SetAttribute("entity", stream)
	span.SetAttribute("page", preq.Number)
	span.SetAttribute("page_size", preq.Size)
	defer span.End()

	if err := s.ensureOpen(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	rs, err := s.spec(filters, preq.Size)
	if err != nil {
		metrics.RecordFetch(s.Type(), stream, metrics.OutcomeInvalid, 0)
		span.RecordError(err)
		return nil, err
	}
	rs.count = preq.Size

	result, err := s.page(ctx, stream, rs, preq)
	if err != nil {
		metrics.RecordFetch(s.Type(), stream, metrics.OutcomeError, 0)
		span.RecordError(err)
		return nil, err
	}

	s.Attachments().Attach(s, result.Data)
	metrics.RecordFetch(s.Type(), stream, metrics.OutcomeOK, len(result.Data))
	span.SetAttribute("records", len(result.Data))
	return result, nil
}

func (s *Source) page(ctx context.Context, stream string, rs readSpec, preq webapi.PageRequest) (*core.PagedResult, error) {
	if rs.group != "" {
		msgs, err := s.readGroup(ctx, stream, rs)
		if err != nil {
			return nil, err
		}
		return webapi.BuildPage(toItems(msgs), preq, -1, nil), nil
	}

	total := -1
	if !rs.ranged {
		n, err := redis.Int(s.do(ctx, "XLEN", stream))
		if err != nil {
			return nil, err
		}
		total = n
		if preq.Offset() >= total {
			return webapi.BuildPage(nil, preq, total, nil), nil
		}
	}

	cursor := rs.start
	for n := 1; ; n++ {
		msgs, err := s.xrange(ctx, stream, cursor, rs.end, preq.Size)
		if err != nil {
			return nil, err
		}
		if n == preq.Number {
			return webapi.BuildPage(toItems(msgs), preq, total, nil), nil
		}
		if len(msgs) < preq.Size {
			more := false
			return webapi.BuildPage(nil, preq, total, &more), nil
		}
		cursor = "(" + msgs[len(msgs)-1].ID
	}
}

func (s *Source) xrange(ctx context.Context, stream, start, end string, count int) ([]*Message, error) {
	args := []any{stream, start, end}
	if count > 0 {
		args = append(args, "COUNT", count)
	}
	reply, err := s.do(ctx, "XRANGE", args...)
	if err != nil {
		return nil, err
	}
	return parseEntries(stream, reply)
}

func (s *Source) readGroup(ctx context.Context, stream string, rs readSpec) ([]*Message, error) {
	args := []any{"GROUP", rs.group, rs.consumer, "COUNT", rs.count}
	if rs.noAck {
		args = append(args, "NOACK")
	}
	args = append(args, "STREAMS", stream, rs.id)

	reply, err := s.do(ctx, "XREADGROUP", args...)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}
	streams, err := redis.Values(reply, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "parse XREADGROUP reply")
	}
	var out []*Message
	for _, st := range streams {
		pair, err := redis.Values(st, nil)
		if err != nil || len(pair) != 2 {
			return nil, errors.New(errors.ErrorTypeData, "unexpected XREADGROUP stream reply")
		}
		name, _ := redis.String(pair[0], nil)
		msgs, err := parseEntries(name, pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
	}
	return out, nil
}

// parseEntries decodes an XRANGE style reply: [[id, [field, value, ...]], ...].
// Entries deleted while pending come back with nil fields.
func parseEntries(stream string, reply any) ([]*Message, error) {
	if reply == nil {
		return nil, nil
	}
	rows, err := redis.Values(reply, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "parse stream entries")
	}
	out := make([]*Message, 0, len(rows))
	for _, row := range rows {
		rec, err := redis.Values(row, nil)
		if err != nil || len(rec) != 2 {
			return nil, errors.Newf(errors.ErrorTypeData, "unexpected stream entry %v", row)
		}
		id, err := redis.String(rec[0], nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "parse entry id")
		}
		fields := map[string]string{}
		if rec[1] != nil {
			if fields, err = redis.StringMap(rec[1], nil); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "parse entry fields")
			}
		}
		out = append(out, &Message{ID: id, Stream: stream, Fields: fields, Time: idTime(id)})
	}
	return out, nil
}

func toItems(msgs []*Message) []any {
	items := make([]any, len(msgs))
	for i, m := range msgs {
		items[i] = m
	}
	return items
}

// GetEntityStructure describes stream entries. The field names of the newest
// entry are listed under "fields"; results are cached until refresh.
func (s *Source) GetEntityStructure(ctx context.Context, stream string, refresh bool) (*core.EntityStructure, error) {
	s.structMu.Lock()
	cached, ok := s.structures[stream]
	s.structMu.Unlock()
	if ok && !refresh {
		return cached, nil
	}

	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	reply, err := s.do(ctx, "XREVRANGE", stream, "+", "-", "COUNT", 1)
	if err != nil {
		return nil, err
	}
	latest, err := parseEntries(stream, reply)
	if err != nil {
		return nil, err
	}

	var sample []core.Field
	if len(latest) > 0 {
		names := make([]string, 0, len(latest[0].Fields))
		for k := range latest[0].Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			sample = append(sample, core.Field{Name: k, Type: core.FieldTypeString, Nullable: true})
		}
	}

	st := &core.EntityStructure{
		Entity:   stream,
		Endpoint: "XRANGE " + stream,
		Fields: []core.Field{
			{Name: "id", Type: core.FieldTypeString, Primary: true},
			{Name: "stream", Type: core.FieldTypeString},
			{Name: "fields", Type: core.FieldTypeObject, Fields: sample},
			{Name: "time", Type: core.FieldTypeTimestamp},
		},
		RetrievedAt: time.Now().UTC(),
	}
	s.structMu.Lock()
	s.structures[stream] = st
	s.structMu.Unlock()
	return st, nil
}

// Publish appends an entry with XADD, trimming the stream to about maxlen.
// A JSON object without attributes is spread into fields; anything else is
// stored under "data" next to the attributes.
func (s *Source) Publish(ctx context.Context, stream string, data []byte, attributes map[string]string) (string, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return "", err
	}

	args := []any{stream}
	if s.maxLen > 0 {
		args = append(args, "MAXLEN", "~", s.maxLen)
	}
	args = append(args, "*")
	args = append(args, entryFields(data, attributes)...)

	id, err := redis.String(s.do(ctx, "XADD", args...))
	if err != nil {
		return "", err
	}
	logger.FromContext(ctx, s.GetLogger()).Debug("published entry", zap.String("stream", stream), zap.String("id", id))
	return id, nil
}

func entryFields(data []byte, attributes map[string]string) []any {
	if len(attributes) == 0 {
		var obj map[string]jsonpool.RawMessage
		if err := jsonpool.Unmarshal(data, &obj); err == nil && len(obj) > 0 {
			return flatten(obj)
		}
	}

	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		if k != "data" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := []any{"data", string(data)}
	for _, k := range keys {
		out = append(out, k, attributes[k])
	}
	return out
}

func flatten(obj map[string]jsonpool.RawMessage) []any {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		raw := obj[k]
		var str string
		if err := jsonpool.Unmarshal(raw, &str); err == nil {
			out = append(out, k, str)
		} else {
			out = append(out, k, string(raw))
		}
	}
	return out
}

// Acknowledge marks entries of the configured consumer group as processed
func (s *Source) Acknowledge(ctx context.Context, stream string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if s.group == "" {
		return errors.New(errors.ErrorTypeConfig, "options.consumer_group is required to acknowledge")
	}
	if err := s.ensureOpen(ctx); err != nil {
		return err
	}

	args := make([]any, 0, len(ids)+2)
	args = append(args, stream, s.group)
	for _, id := range ids {
		args = append(args, id)
	}
	n, err := redis.Int(s.do(ctx, "XACK", args...))
	if err != nil {
		return err
	}
	if n < len(ids) {
		logger.FromContext(ctx, s.GetLogger()).Warn("some entries were not pending",
			zap.String("stream", stream), zap.Int("acked", n), zap.Int("requested", len(ids)))
	}
	return nil
}

// EnsureGroup creates group on stream (and the stream itself) if missing.
// start is the first ID the group delivers; "$" means new entries only.
func (s *Source) EnsureGroup(ctx context.Context, stream, group, start string) error {
	if start == "" {
		start = "$"
	}
	if err := s.ensureOpen(ctx); err != nil {
		return err
	}
	_, err := s.do(ctx, "XGROUP", "CREATE", stream, group, start, "MKSTREAM")
	if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// redactURL hides the password of a redis URL
func redactURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return raw
	}
	user, _, _ := strings.Cut(rest[:at], ":")
	return scheme + "://" + user + ":***@" + rest[at+1:]
}
