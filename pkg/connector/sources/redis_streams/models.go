package redisstreams

import (
	"strconv"
	"strings"
	"time"
)

// Message is one stream entry
type Message struct {
	ID     string            `json:"id"`
	Stream string            `json:"stream"`
	Fields map[string]string `json:"fields"`
	Time   time.Time         `json:"time"`
}

func (m *Message) EntityID() string { return m.ID }

// idTime reads the millisecond timestamp encoded in an entry ID ("<ms>-<seq>")
func idTime(id string) time.Time {
	ms, _, _ := strings.Cut(id, "-")
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(n).UTC()
}
