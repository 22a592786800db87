package contentful

import "time"

// Link references another resource by type and ID
type Link struct {
	Sys struct {
		Type     string `json:"type"`
		LinkType string `json:"linkType"`
		ID       string `json:"id"`
	} `json:"sys"`
}

// Sys is the system metadata carried by every resource
type Sys struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Revision    int       `json:"revision,omitempty"`
	Locale      string    `json:"locale,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
	ContentType *Link     `json:"contentType,omitempty"`
	Environment *Link     `json:"environment,omitempty"`
	Space       *Link     `json:"space,omitempty"`
}

// Entry is a content entry. Field values depend on its content type.
type Entry struct {
	Sys    Sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

func (e *Entry) EntityID() string { return e.Sys.ID }

// ContentTypeID returns the ID of the entry's content type
func (e *Entry) ContentTypeID() string {
	if e.Sys.ContentType == nil {
		return ""
	}
	return e.Sys.ContentType.Sys.ID
}

// File describes an asset's binary
type File struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Details     struct {
		Size  int64 `json:"size"`
		Image *struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"image,omitempty"`
	} `json:"details"`
}

// Asset is a media asset
type Asset struct {
	Sys    Sys `json:"sys"`
	Fields struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		File        *File  `json:"file,omitempty"`
	} `json:"fields"`
}

func (a *Asset) EntityID() string { return a.Sys.ID }

// ContentTypeField is one field definition of a content type
type ContentTypeField struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	LinkType  string `json:"linkType,omitempty"`
	Required  bool   `json:"required"`
	Localized bool   `json:"localized"`
	Disabled  bool   `json:"disabled"`
}

// ContentType describes the shape of entries
type ContentType struct {
	Sys          Sys                `json:"sys"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	DisplayField string             `json:"displayField,omitempty"`
	Fields       []ContentTypeField `json:"fields"`
}

func (c *ContentType) EntityID() string { return c.Sys.ID }

// Locale is a configured locale
type Locale struct {
	Sys          Sys    `json:"sys"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Default      bool   `json:"default"`
	FallbackCode string `json:"fallbackCode,omitempty"`
}

func (l *Locale) EntityID() string { return l.Sys.ID }

// Space is a Contentful space
type Space struct {
	Sys     Sys    `json:"sys"`
	Name    string `json:"name"`
	Locales []struct {
		Code    string `json:"code"`
		Default bool   `json:"default"`
		Name    string `json:"name"`
	} `json:"locales,omitempty"`
}

func (s *Space) EntityID() string { return s.Sys.ID }
