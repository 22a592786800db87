package sendinblue

import "strconv"

// Account is the Brevo account with its plan and credits
type Account struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Plan        []struct {
		Type        string  `json:"type"`
		CreditsType string  `json:"creditsType,omitempty"`
		Credits     float64 `json:"credits"`
	} `json:"plan,omitempty"`
}

func (a *Account) EntityID() string { return a.Email }

// Contact is a marketing contact
type Contact struct {
	ID               int64          `json:"id"`
	Email            string         `json:"email,omitempty"`
	EmailBlacklisted bool           `json:"emailBlacklisted"`
	SMSBlacklisted   bool           `json:"smsBlacklisted"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	ModifiedAt       string         `json:"modifiedAt,omitempty"`
	ListIDs          []int64        `json:"listIds,omitempty"`
	Attributes       map[string]any `json:"attributes,omitempty"`
}

func (c *Contact) EntityID() string { return strconv.FormatInt(c.ID, 10) }

// List is a contact list
type List struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	FolderID          int64  `json:"folderId"`
	UniqueSubscribers int64  `json:"uniqueSubscribers"`
	TotalBlacklisted  int64  `json:"totalBlacklisted"`
	TotalSubscribers  int64  `json:"totalSubscribers"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

func (l *List) EntityID() string { return strconv.FormatInt(l.ID, 10) }

// Folder groups lists
type Folder struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	UniqueSubscribers int64  `json:"uniqueSubscribers"`
	TotalBlacklisted  int64  `json:"totalBlacklisted"`
	TotalSubscribers  int64  `json:"totalSubscribers"`
}

func (f *Folder) EntityID() string { return strconv.FormatInt(f.ID, 10) }

// Campaign is an email or SMS campaign
type Campaign struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject,omitempty"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	SentDate    string `json:"sentDate,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	ModifiedAt  string `json:"modifiedAt,omitempty"`
	Sender      *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender,omitempty"`
	Content string `json:"content,omitempty"`
}

func (c *Campaign) EntityID() string { return strconv.FormatInt(c.ID, 10) }

// Sender is a verified sender identity
type Sender struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

func (s *Sender) EntityID() string { return strconv.FormatInt(s.ID, 10) }

// Template is a transactional email template
type Template struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	IsActive    bool   `json:"isActive"`
	TestSent    bool   `json:"testSent"`
	Tag         string `json:"tag,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	ModifiedAt  string `json:"modifiedAt,omitempty"`
	HTMLContent string `json:"htmlContent,omitempty"`
}

func (t *Template) EntityID() string { return strconv.FormatInt(t.ID, 10) }
