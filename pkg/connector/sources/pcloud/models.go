package pcloud

import "strconv"

// UserInfo is the account behind the access token
type UserInfo struct {
	UserID         int64  `json:"userid"`
	Email          string `json:"email"`
	EmailVerified  bool   `json:"emailverified"`
	Premium        bool   `json:"premium"`
	Quota          int64  `json:"quota"`
	UsedQuota      int64  `json:"usedquota"`
	Language       string `json:"language,omitempty"`
	RegisteredDate string `json:"registered,omitempty"`
}

func (u *UserInfo) EntityID() string { return strconv.FormatInt(u.UserID, 10) }

// Metadata describes a file or folder
type Metadata struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Path           string      `json:"path,omitempty"`
	IsFolder       bool        `json:"isfolder"`
	FolderID       int64       `json:"folderid,omitempty"`
	FileID         int64       `json:"fileid,omitempty"`
	ParentFolderID int64       `json:"parentfolderid,omitempty"`
	Size           int64       `json:"size,omitempty"`
	ContentType    string      `json:"contenttype,omitempty"`
	Hash           uint64      `json:"hash,omitempty"`
	Created        string      `json:"created,omitempty"`
	Modified       string      `json:"modified,omitempty"`
	Thumb          bool        `json:"thumb"`
	IsShared       bool        `json:"isshared"`
	Contents       []*Metadata `json:"contents,omitempty"`
}

func (m *Metadata) EntityID() string { return m.ID }

// FileLink is a download link for a file
type FileLink struct {
	Path    string   `json:"path"`
	Expires string   `json:"expires"`
	Hosts   []string `json:"hosts"`
}

// URL returns the first download URL
func (l *FileLink) URL() string {
	if len(l.Hosts) == 0 {
		return ""
	}
	return "https://" + l.Hosts[0] + l.Path
}

// Revision is a stored revision of a file
type Revision struct {
	RevisionID int64  `json:"revisionid"`
	Size       int64  `json:"size"`
	Hash       uint64 `json:"hash"`
	Created    string `json:"created"`
}

func (r *Revision) EntityID() string { return strconv.FormatInt(r.RevisionID, 10) }

// Share is an outgoing folder share
type Share struct {
	ShareID   int64  `json:"shareid"`
	FolderID  int64  `json:"folderid"`
	ToMail    string `json:"tomail"`
	ShareName string `json:"sharename"`
	Created   string `json:"created"`
	CanRead   bool   `json:"canread"`
	CanModify bool   `json:"canmodify"`
	CanDelete bool   `json:"candelete"`
	CanCreate bool   `json:"cancreate"`
}

func (s *Share) EntityID() string { return strconv.FormatInt(s.ShareID, 10) }

// PublicLink is a public download link
type PublicLink struct {
	LinkID    int64     `json:"linkid"`
	Code      string    `json:"code"`
	Link      string    `json:"link"`
	Traffic   int64     `json:"traffic"`
	Downloads int64     `json:"downloads"`
	Created   string    `json:"created"`
	Modified  string    `json:"modified"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

func (p *PublicLink) EntityID() string { return strconv.FormatInt(p.LinkID, 10) }
