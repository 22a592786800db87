package tableau

import "time"

// Ref is the {id, name} reference Tableau nests for owners and projects
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Tag is a content tag
type Tag struct {
	Label string `json:"label"`
}

// Tags wraps the tag list the way the REST API nests it
type Tags struct {
	Tag []Tag `json:"tag,omitempty"`
}

// Site is a Tableau site
type Site struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentURL   string `json:"contentUrl"`
	AdminMode    string `json:"adminMode,omitempty"`
	State        string `json:"state,omitempty"`
	StorageQuota string `json:"storageQuota,omitempty"`
}

func (s *Site) EntityID() string { return s.ID }

// Project is a content project
type Project struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	ParentProjectID    string     `json:"parentProjectId,omitempty"`
	ContentPermissions string     `json:"contentPermissions,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
	Owner              *Ref       `json:"owner,omitempty"`
}

func (p *Project) EntityID() string { return p.ID }

// Workbook is a published workbook
type Workbook struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ContentURL  string     `json:"contentUrl"`
	WebpageURL  string     `json:"webpageUrl,omitempty"`
	Size        string     `json:"size,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Project     *Ref       `json:"project,omitempty"`
	Owner       *Ref       `json:"owner,omitempty"`
	Tags        *Tags      `json:"tags,omitempty"`
}

func (w *Workbook) EntityID() string { return w.ID }

// View is a sheet or dashboard inside a workbook
type View struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ContentURL string     `json:"contentUrl"`
	ViewURL    string     `json:"viewUrlName,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	Workbook   *Ref       `json:"workbook,omitempty"`
	Owner      *Ref       `json:"owner,omitempty"`
	Project    *Ref       `json:"project,omitempty"`
}

func (v *View) EntityID() string { return v.ID }

// Datasource is a published data source
type Datasource struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ContentURL  string     `json:"contentUrl"`
	Type        string     `json:"type,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Project     *Ref       `json:"project,omitempty"`
	Owner       *Ref       `json:"owner,omitempty"`
}

func (d *Datasource) EntityID() string { return d.ID }

// User is a site user
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	FullName    string     `json:"fullName,omitempty"`
	Email       string     `json:"email,omitempty"`
	SiteRole    string     `json:"siteRole"`
	AuthSetting string     `json:"authSetting,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) EntityID() string { return u.ID }

// Group is a user group
type Group struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain *struct {
		Name string `json:"name"`
	} `json:"domain,omitempty"`
}

func (g *Group) EntityID() string { return g.ID }

// Job is a background job
type Job struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	JobType   string     `json:"jobType"`
	Priority  int        `json:"priority,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Title     string     `json:"title,omitempty"`
	Subtitle  string     `json:"subtitle,omitempty"`
}

func (j *Job) EntityID() string { return j.ID }

// signInResponse is the body of POST auth/signin
type signInResponse struct {
	Credentials struct {
		Token string `json:"token"`
		Site  struct {
			ID         string `json:"id"`
			ContentURL string `json:"contentUrl"`
		} `json:"site"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"credentials"`
}
