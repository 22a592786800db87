package rockset

// Workspace groups collections
type Workspace struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	CreatedBy       string `json:"created_by,omitempty"`
	CollectionCount int    `json:"collection_count"`
}

func (w *Workspace) EntityID() string { return w.Name }

// Collection is a queryable set of documents
type Collection struct {
	Name        string `json:"name"`
	Workspace   string `json:"workspace"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	Stats       *struct {
		DocCount          int64 `json:"doc_count"`
		TotalSize         int64 `json:"total_size"`
		LastUpdatedMillis int64 `json:"last_updated_ms"`
	} `json:"stats,omitempty"`
}

func (c *Collection) EntityID() string { return c.Workspace + "." + c.Name }

// QueryLambda is a saved, parameterized SQL query
type QueryLambda struct {
	Name          string `json:"name"`
	Workspace     string `json:"workspace"`
	LastUpdated   string `json:"last_updated,omitempty"`
	LastUpdatedBy string `json:"last_updated_by,omitempty"`
	VersionCount  int    `json:"version_count"`
	LatestVersion *struct {
		Version string `json:"version"`
		SQL     struct {
			Query string `json:"query"`
		} `json:"sql"`
		State string `json:"state"`
	} `json:"latest_version,omitempty"`
}

func (q *QueryLambda) EntityID() string { return q.Workspace + "." + q.Name }

// QueryParameter is a named SQL parameter
type QueryParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
