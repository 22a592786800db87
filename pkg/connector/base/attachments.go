package base

import (
	"container/list"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
)

// DefaultAttachmentLimit bounds how many record IDs a source remembers
const DefaultAttachmentLimit = 10000

// Attachments maps record IDs to the data source that produced them, so hosts
// can route follow-up calls without records holding a reference to the source.
// Once the limit is reached the least recently attached IDs are forgotten;
// CloseConnection clears the index.
type Attachments struct {
	mu      sync.RWMutex
	limit   int
	order   *list.List
	entries map[string]*list.Element
}

type attachment struct {
	id  string
	src core.DataSource
}

// NewAttachments creates an empty index holding at most limit IDs.
// A limit <= 0 uses DefaultAttachmentLimit.
func NewAttachments(limit int) *Attachments {
	if limit <= 0 {
		limit = DefaultAttachmentLimit
	}
	return &Attachments{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Attach records src as the origin of every identifiable item and returns how many were attached
func (a *Attachments) Attach(src core.DataSource, items []any) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, item := range items {
		id, ok := item.(core.Identifiable)
		if !ok {
			continue
		}
		key := id.EntityID()
		if key == "" {
			continue
		}
		if el, ok := a.entries[key]; ok {
			el.Value.(*attachment).src = src
			a.order.MoveToBack(el)
		} else {
			a.entries[key] = a.order.PushBack(&attachment{id: key, src: src})
		}
		n++
	}

	for a.order.Len() > a.limit {
		oldest := a.order.Front()
		a.order.Remove(oldest)
		delete(a.entries, oldest.Value.(*attachment).id)
	}
	return n
}

// Lookup returns the source that produced the record with id
func (a *Attachments) Lookup(id string) (core.DataSource, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	el, ok := a.entries[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*attachment).src, true
}

// SourceOf returns the source that produced item, if item is identifiable
func (a *Attachments) SourceOf(item any) (core.DataSource, bool) {
	id, ok := item.(core.Identifiable)
	if !ok {
		return nil, false
	}
	return a.Lookup(id.EntityID())
}

// Len returns the number of attached records
func (a *Attachments) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Clear drops every attachment
func (a *Attachments) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.order.Init()
	a.entries = make(map[string]*list.Element)
}
