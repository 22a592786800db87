package milvus

// CollectionName is one entry of the collection listing
type CollectionName struct {
	Name string `json:"name"`
}

func (c *CollectionName) EntityID() string { return c.Name }

// Field describes one field of a collection schema
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	PrimaryKey  bool   `json:"primaryKey"`
	AutoID      bool   `json:"autoId"`
	Description string `json:"description,omitempty"`
}

// Index describes a vector index
type Index struct {
	FieldName  string `json:"fieldName"`
	IndexName  string `json:"indexName"`
	MetricType string `json:"metricType"`
}

// Collection is a described collection
type Collection struct {
	CollectionName     string  `json:"collectionName"`
	Description        string  `json:"description,omitempty"`
	ShardsNum          int     `json:"shardsNum"`
	ConsistencyLevel   string  `json:"consistencyLevel,omitempty"`
	EnableDynamicField bool    `json:"enableDynamicField"`
	Load               string  `json:"load,omitempty"`
	Fields             []Field `json:"fields"`
	Indexes            []Index `json:"indexes,omitempty"`
}

func (c *Collection) EntityID() string { return c.CollectionName }

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
