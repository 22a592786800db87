package copper

import "strconv"

// EmailAddress is an address with its category (work, personal, other)
type EmailAddress struct {
	Email    string `json:"email"`
	Category string `json:"category,omitempty"`
}

// PhoneNumber is a number with its category
type PhoneNumber struct {
	Number   string `json:"number"`
	Category string `json:"category,omitempty"`
}

// Address is a postal address
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CustomField is a custom field value on a record
type CustomField struct {
	DefinitionID int64 `json:"custom_field_definition_id"`
	Value        any   `json:"value"`
}

// Lead is a Copper lead
type Lead struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Title         string         `json:"title,omitempty"`
	CompanyName   string         `json:"company_name,omitempty"`
	Email         *EmailAddress  `json:"email,omitempty"`
	PhoneNumbers  []PhoneNumber  `json:"phone_numbers,omitempty"`
	Address       *Address       `json:"address,omitempty"`
	AssigneeID    *int64         `json:"assignee_id,omitempty"`
	Status        string         `json:"status,omitempty"`
	StatusID      int64          `json:"status_id,omitempty"`
	MonetaryValue *float64       `json:"monetary_value,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	CustomFields  []CustomField  `json:"custom_fields,omitempty"`
	DateCreated   int64          `json:"date_created"`
	DateModified  int64          `json:"date_modified"`
}

func (l *Lead) EntityID() string { return strconv.FormatInt(l.ID, 10) }

// Person is a Copper contact
type Person struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Title        string         `json:"title,omitempty"`
	CompanyID    *int64         `json:"company_id,omitempty"`
	CompanyName  string         `json:"company_name,omitempty"`
	Emails       []EmailAddress `json:"emails,omitempty"`
	PhoneNumbers []PhoneNumber  `json:"phone_numbers,omitempty"`
	Address      *Address       `json:"address,omitempty"`
	AssigneeID   *int64         `json:"assignee_id,omitempty"`
	ContactType  *int64         `json:"contact_type_id,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CustomFields []CustomField  `json:"custom_fields,omitempty"`
	DateCreated  int64          `json:"date_created"`
	DateModified int64          `json:"date_modified"`
}

func (p *Person) EntityID() string { return strconv.FormatInt(p.ID, 10) }

// Company is a Copper company
type Company struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	EmailDomain  string        `json:"email_domain,omitempty"`
	Details      string        `json:"details,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	AssigneeID   *int64        `json:"assignee_id,omitempty"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
	DateCreated  int64         `json:"date_created"`
	DateModified int64         `json:"date_modified"`
}

func (c *Company) EntityID() string { return strconv.FormatInt(c.ID, 10) }

// Opportunity is a deal in a pipeline
type Opportunity struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	CompanyID       *int64        `json:"company_id,omitempty"`
	CompanyName     string        `json:"company_name,omitempty"`
	PrimaryContact  *int64        `json:"primary_contact_id,omitempty"`
	PipelineID      int64         `json:"pipeline_id"`
	PipelineStageID int64         `json:"pipeline_stage_id"`
	Status          string        `json:"status"`
	Priority        string        `json:"priority,omitempty"`
	MonetaryValue   *float64      `json:"monetary_value,omitempty"`
	WinProbability  *int          `json:"win_probability,omitempty"`
	CloseDate       string        `json:"close_date,omitempty"`
	AssigneeID      *int64        `json:"assignee_id,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	CustomFields    []CustomField `json:"custom_fields,omitempty"`
	DateCreated     int64         `json:"date_created"`
	DateModified    int64         `json:"date_modified"`
}

func (o *Opportunity) EntityID() string { return strconv.FormatInt(o.ID, 10) }

// Project is a Copper project
type Project struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Details      string   `json:"details,omitempty"`
	Status       string   `json:"status"`
	AssigneeID   *int64   `json:"assignee_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	DateCreated  int64    `json:"date_created"`
	DateModified int64    `json:"date_modified"`
}

func (p *Project) EntityID() string { return strconv.FormatInt(p.ID, 10) }

// ResourceRef points at the record an activity or task belongs to
type ResourceRef struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Task is a to-do item
type Task struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	RelatedTo    *ResourceRef `json:"related_resource,omitempty"`
	AssigneeID   *int64       `json:"assignee_id,omitempty"`
	DueDate      *int64       `json:"due_date,omitempty"`
	ReminderDate *int64       `json:"reminder_date,omitempty"`
	CompletedAt  *int64       `json:"completed_date,omitempty"`
	Priority     string       `json:"priority,omitempty"`
	Status       string       `json:"status"`
	Details      string       `json:"details,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	DateCreated  int64        `json:"date_created"`
	DateModified int64        `json:"date_modified"`
}

func (t *Task) EntityID() string { return strconv.FormatInt(t.ID, 10) }

// Activity is a logged call, note or meeting
type Activity struct {
	ID           int64        `json:"id"`
	Parent       *ResourceRef `json:"parent,omitempty"`
	Type         *ResourceRef `json:"type,omitempty"`
	UserID       int64        `json:"user_id"`
	Details      string       `json:"details,omitempty"`
	ActivityDate int64        `json:"activity_date"`
	DateCreated  int64        `json:"date_created"`
	DateModified int64        `json:"date_modified"`
}

func (a *Activity) EntityID() string { return strconv.FormatInt(a.ID, 10) }

// User is a Copper user
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) EntityID() string { return strconv.FormatInt(u.ID, 10) }

// Stage is a pipeline stage
type Stage struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	WinProbability int    `json:"win_probability"`
}

// Pipeline is a sales pipeline
type Pipeline struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

func (p *Pipeline) EntityID() string { return strconv.FormatInt(p.ID, 10) }

// Account is the Copper account the key belongs to
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomFieldDefinition describes a custom field
type CustomFieldDefinition struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	DataType       string   `json:"data_type"`
	AvailableOn    []string `json:"available_on,omitempty"`
	CanFilter      bool     `json:"is_filterable"`
	Options        []Option `json:"options,omitempty"`
}

// Option is a dropdown choice
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}
