package wordpress

import "strconv"

// Rendered is a field WordPress returns as rendered HTML
type Rendered struct {
	Rendered  string `json:"rendered"`
	Protected bool   `json:"protected,omitempty"`
}

// Post is a blog post
type Post struct {
	ID            int64    `json:"id"`
	Date          string   `json:"date"`
	DateGMT       string   `json:"date_gmt,omitempty"`
	Modified      string   `json:"modified,omitempty"`
	Slug          string   `json:"slug"`
	Status        string   `json:"status"`
	Type          string   `json:"type"`
	Link          string   `json:"link"`
	Title         Rendered `json:"title"`
	Content       Rendered `json:"content"`
	Excerpt       Rendered `json:"excerpt"`
	Author        int64    `json:"author"`
	FeaturedMedia int64    `json:"featured_media"`
	Sticky        bool     `json:"sticky"`
	Format        string   `json:"format,omitempty"`
	Categories    []int64  `json:"categories,omitempty"`
	Tags          []int64  `json:"tags,omitempty"`
}

func (p *Post) EntityID() string { return strconv.FormatInt(p.ID, 10) }

// Page is a static page
type Page struct {
	ID        int64    `json:"id"`
	Date      string   `json:"date"`
	Modified  string   `json:"modified,omitempty"`
	Slug      string   `json:"slug"`
	Status    string   `json:"status"`
	Link      string   `json:"link"`
	Title     Rendered `json:"title"`
	Content   Rendered `json:"content"`
	Author    int64    `json:"author"`
	Parent    int64    `json:"parent"`
	MenuOrder int      `json:"menu_order"`
	Template  string   `json:"template,omitempty"`
}

func (p *Page) EntityID() string { return strconv.FormatInt(p.ID, 10) }

// Term is a category or tag
type Term struct {
	ID          int64  `json:"id"`
	Count       int    `json:"count"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Parent      int64  `json:"parent,omitempty"`
}

func (t *Term) EntityID() string { return strconv.FormatInt(t.ID, 10) }

// User is a site author
type User struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description,omitempty"`
	Link        string            `json:"link"`
	Slug        string            `json:"slug"`
	AvatarURLs  map[string]string `json:"avatar_urls,omitempty"`
}

func (u *User) EntityID() string { return strconv.FormatInt(u.ID, 10) }

// Comment is a comment on a post
type Comment struct {
	ID         int64    `json:"id"`
	Post       int64    `json:"post"`
	Parent     int64    `json:"parent"`
	Author     int64    `json:"author"`
	AuthorName string   `json:"author_name"`
	AuthorURL  string   `json:"author_url,omitempty"`
	Date       string   `json:"date"`
	Content    Rendered `json:"content"`
	Link       string   `json:"link"`
	Status     string   `json:"status"`
	Type       string   `json:"type"`
}

func (c *Comment) EntityID() string { return strconv.FormatInt(c.ID, 10) }

// Media is an uploaded attachment
type Media struct {
	ID        int64    `json:"id"`
	Date      string   `json:"date"`
	Slug      string   `json:"slug"`
	Title     Rendered `json:"title"`
	Author    int64    `json:"author"`
	AltText   string   `json:"alt_text,omitempty"`
	MediaType string   `json:"media_type"`
	MimeType  string   `json:"mime_type"`
	SourceURL string   `json:"source_url"`
	Post      *int64   `json:"post"`
}

func (m *Media) EntityID() string { return strconv.FormatInt(m.ID, 10) }
