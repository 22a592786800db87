package redisstreams

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gomodule/redigo/redis"
)

type fakeEntry struct {
	id     string
	fields []string
}

type fakeGroup struct {
	delivered int
	pending   map[string]bool
}

// fakeRedis is an in-memory server for the stream commands the source uses
type fakeRedis struct {
	mu      sync.Mutex
	seq     int64
	streams map[string][]fakeEntry
	groups  map[string]map[string]*fakeGroup
	calls   [][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		seq:     1700000000000,
		streams: map[string][]fakeEntry{},
		groups:  map[string]map[string]*fakeGroup{},
	}
}

func (f *fakeRedis) dial(context.Context) (redis.Conn, error) {
	return &fakeConn{srv: f}, nil
}

func (f *fakeRedis) commands(name string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, c := range f.calls {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRedis) pending(stream, group string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g := f.groups[stream][group]; g != nil {
		return len(g.pending)
	}
	return 0
}

type fakeConn struct {
	srv *fakeRedis
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }

func (c *fakeConn) Do(cmd string, args ...any) (any, error) {
	return c.DoContext(context.Background(), cmd, args...)
}

func (c *fakeConn) DoContext(ctx context.Context, cmd string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cmd == "" {
		return nil, nil
	}
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = fmt.Sprint(a)
	}
	return c.srv.exec(strings.ToUpper(cmd), strs)
}

func (c *fakeConn) Send(string, ...any) error { return fmt.Errorf("pipelining not supported") }
func (c *fakeConn) Flush() error              { return nil }
func (c *fakeConn) Receive() (any, error)     { return nil, fmt.Errorf("pipelining not supported") }
func (c *fakeConn) ReceiveContext(context.Context) (any, error) {
	return nil, fmt.Errorf("pipelining not supported")
}

func parseID(id string) (int64, int64) {
	ms, seq, _ := strings.Cut(id, "-")
	a, _ := strconv.ParseInt(ms, 10, 64)
	b, _ := strconv.ParseInt(seq, 10, 64)
	return a, b
}

func lessID(a, b string) bool {
	am, as := parseID(a)
	bm, bs := parseID(b)
	if am != bm {
		return am < bm
	}
	return as < bs
}

func entryReply(e fakeEntry) any {
	fields := make([]any, len(e.fields))
	for i, v := range e.fields {
		fields[i] = []byte(v)
	}
	return []any{[]byte(e.id), fields}
}

func (f *fakeRedis) selectRange(entries []fakeEntry, start, end string) []fakeEntry {
	var out []fakeEntry
	for _, e := range entries {
		switch {
		case start == "-":
		case strings.HasPrefix(start, "("):
			if !lessID(start[1:], e.id) {
				continue
			}
		default:
			if lessID(e.id, start) {
				continue
			}
		}
		if end != "+" && lessID(end, e.id) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func countArg(args []string) int {
	for i := 0; i+1 < len(args); i++ {
		if strings.EqualFold(args[i], "COUNT") {
			n, _ := strconv.Atoi(args[i+1])
			return n
		}
	}
	return -1
}

func (f *fakeRedis) exec(cmd string, args []string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{cmd}, args...))

	switch cmd {
	case "PING":
		return "PONG", nil

	case "XADD":
		key := args[0]
		i := 1
		if args[i] == "MAXLEN" {
			i += 3
		}
		i++ // "*"
		f.seq++
		id := fmt.Sprintf("%d-0", f.seq)
		f.streams[key] = append(f.streams[key], fakeEntry{id: id, fields: append([]string(nil), args[i:]...)})
		return []byte(id), nil

	case "XLEN":
		return int64(len(f.streams[args[0]])), nil

	case "XRANGE":
		entries := f.selectRange(f.streams[args[0]], args[1], args[2])
		if n := countArg(args[3:]); n >= 0 && n < len(entries) {
			entries = entries[:n]
		}
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = entryReply(e)
		}
		return out, nil

	case "XREVRANGE":
		entries := f.streams[args[0]]
		n := countArg(args[3:])
		out := []any{}
		for i := len(entries) - 1; i >= 0 && (n < 0 || len(out) < n); i-- {
			out = append(out, entryReply(entries[i]))
		}
		return out, nil

	case "SCAN":
		pattern := "*"
		for i := 1; i+1 < len(args); i++ {
			if args[i] == "MATCH" {
				pattern = args[i+1]
			}
		}
		var keys []string
		for k := range f.streams {
			if ok, _ := path.Match(pattern, k); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		half := len(keys) / 2
		batch, next := keys[half:], "0"
		if args[0] == "0" {
			batch, next = keys[:half], "17"
		}
		out := make([]any, len(batch))
		for i, k := range batch {
			out[i] = []byte(k)
		}
		return []any{[]byte(next), out}, nil

	case "XGROUP":
		key, group, start := args[1], args[2], args[3]
		if f.groups[key] == nil {
			f.groups[key] = map[string]*fakeGroup{}
		}
		if f.groups[key][group] != nil {
			return nil, redis.Error("BUSYGROUP Consumer Group name already exists")
		}
		g := &fakeGroup{pending: map[string]bool{}}
		if start == "$" {
			g.delivered = len(f.streams[key])
		}
		f.groups[key][group] = g
		if _, ok := f.streams[key]; !ok {
			f.streams[key] = nil
		}
		return "OK", nil

	case "XREADGROUP":
		group, count := args[1], countArg(args)
		key := args[len(args)-2]
		g := f.groups[key][group]
		if g == nil {
			return nil, redis.Error("NOGROUP No such key '" + key + "' or consumer group '" + group + "'")
		}
		entries := f.streams[key][g.delivered:]
		if count >= 0 && count < len(entries) {
			entries = entries[:count]
		}
		if len(entries) == 0 {
			return nil, nil
		}
		g.delivered += len(entries)
		out := make([]any, len(entries))
		for i, e := range entries {
			g.pending[e.id] = true
			out[i] = entryReply(e)
		}
		return []any{[]any{[]byte(key), out}}, nil

	case "XACK":
		g := f.groups[args[0]][args[1]]
		var n int64
		for _, id := range args[2:] {
			if g != nil && g.pending[id] {
				delete(g.pending, id)
				n++
			}
		}
		return n, nil
	}
	return nil, redis.Error("ERR unknown command '" + cmd + "'")
}
