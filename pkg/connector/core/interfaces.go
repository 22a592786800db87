package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ConnectorType represents the type of connector
type ConnectorType string

const (
	// ConnectorTypeWebAPI marks HTTP/JSON vendor connectors
	ConnectorTypeWebAPI ConnectorType = "webapi"
	// ConnectorTypeStream marks message stream connectors (Redis Streams, Pub/Sub)
	ConnectorTypeStream ConnectorType = "stream"
)

// ConnectionState is the lifecycle state of a data source
type ConnectionState string

const (
	ConnectionStateClosed     ConnectionState = "closed"
	ConnectionStateConnecting ConnectionState = "connecting"
	ConnectionStateOpen       ConnectionState = "open"
	ConnectionStateBroken     ConnectionState = "broken"
)

// ConnectionStates lists every state, in lifecycle order
func ConnectionStates() []ConnectionState {
	return []ConnectionState{
		ConnectionStateClosed,
		ConnectionStateConnecting,
		ConnectionStateOpen,
		ConnectionStateBroken,
	}
}

// Filter is a caller-supplied (field, operator, value) triple.
// Connectors translate filters into path or query parameters; the operator is
// carried for hosts that need it but web connectors only match on Field.
type Filter struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    string `json:"value" yaml:"value"`
}

// Eq builds an equality filter
func Eq(field, value string) Filter {
	return Filter{Field: field, Operator: "=", Value: value}
}

// ParseFilter parses "field=value" or "field<op>value" for op in =, !=, >=, <=, >, <
func ParseFilter(s string) (Filter, error) {
	for _, op := range []string{"!=", ">=", "<=", "=", ">", "<"} {
		if i := strings.Index(s, op); i > 0 {
			return Filter{
				Field:    strings.TrimSpace(s[:i]),
				Operator: op,
				Value:    strings.TrimSpace(s[i+len(op):]),
			}, nil
		}
	}
	return Filter{}, fmt.Errorf("invalid filter %q: expected field=value", s)
}

// PagedResult is the uniform page envelope returned by GetEntityPage
type PagedResult struct {
	Data            []any `json:"data"`
	PageNumber      int   `json:"page_number"`
	PageSize        int   `json:"page_size"`
	TotalRecords    int   `json:"total_records"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
	// Estimated is true when TotalRecords was derived from the page rather than
	// reported by the vendor.
	Estimated bool `json:"estimated"`
}

// EntityStructure describes the fields of an entity
type EntityStructure struct {
	Entity      string    `json:"entity"`
	Description string    `json:"description,omitempty"`
	Endpoint    string    `json:"endpoint"`
	Required    []string  `json:"required_filters,omitempty"`
	Fields      []Field   `json:"fields"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Field represents a field in an entity structure
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Nullable bool      `json:"nullable"`
	Primary  bool      `json:"primary,omitempty"`
	// Fields describes nested objects
	Fields []Field `json:"fields,omitempty"`
}

// FieldType represents the data type of a field
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBool      FieldType = "bool"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeJSON      FieldType = "json"
	FieldTypeObject    FieldType = "object"
	FieldTypeArray     FieldType = "array"
	FieldTypeBinary    FieldType = "binary"
)

// Identifiable is implemented by typed records that carry a vendor ID
type Identifiable interface {
	EntityID() string
}

// DataSource is the host-facing interface every connector implements.
// All operations block until the vendor answers or ctx is done.
type DataSource interface {
	// Name returns the configured instance name
	Name() string
	// Type returns the registered connector type
	Type() string

	// OpenConnection prepares the source (sign-in, metadata caches) and reports the new state
	OpenConnection(ctx context.Context) (ConnectionState, error)
	// CloseConnection releases resources and reports the new state
	CloseConnection(ctx context.Context) (ConnectionState, error)
	// ConnectionState reports the current state
	ConnectionState() ConnectionState

	// GetEntitiesList returns the entity keys the source can serve
	GetEntitiesList(ctx context.Context) ([]string, error)
	// GetEntity fetches an entity with the vendor's default paging
	GetEntity(ctx context.Context, entity string, filters []Filter) ([]any, error)
	// GetEntityPage fetches one 1-based page of an entity
	GetEntityPage(ctx context.Context, entity string, filters []Filter, page, pageSize int) (*PagedResult, error)
	// GetEntityStructure describes an entity's fields
	GetEntityStructure(ctx context.Context, entity string, refresh bool) (*EntityStructure, error)
}

// Publisher is implemented by stream sources that can also emit messages
type Publisher interface {
	Publish(ctx context.Context, target string, data []byte, attributes map[string]string) (string, error)
}

// Acknowledger is implemented by stream sources whose reads must be acknowledged
type Acknowledger interface {
	Acknowledge(ctx context.Context, entity string, ids ...string) error
}

// ConnectorMetadata provides metadata about a registered connector
type ConnectorMetadata struct {
	Name        string        `json:"name"`
	Type        ConnectorType `json:"type"`
	Description string        `json:"description"`
	Credentials []string      `json:"credentials,omitempty"`
}
