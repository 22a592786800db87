package dynamics365

import "time"

// Account is a Dataverse account row
type Account struct {
	AccountID     string     `json:"accountid"`
	Name          string     `json:"name"`
	AccountNumber string     `json:"accountnumber,omitempty"`
	Telephone     string     `json:"telephone1,omitempty"`
	Email         string     `json:"emailaddress1,omitempty"`
	Website       string     `json:"websiteurl,omitempty"`
	City          string     `json:"address1_city,omitempty"`
	Country       string     `json:"address1_country,omitempty"`
	Revenue       *float64   `json:"revenue,omitempty"`
	Employees     *int       `json:"numberofemployees,omitempty"`
	StateCode     int        `json:"statecode"`
	CreatedOn     *time.Time `json:"createdon,omitempty"`
	ModifiedOn    *time.Time `json:"modifiedon,omitempty"`
}

func (a *Account) EntityID() string { return a.AccountID }

// Contact is a Dataverse contact row
type Contact struct {
	ContactID       string     `json:"contactid"`
	FullName        string     `json:"fullname"`
	FirstName       string     `json:"firstname,omitempty"`
	LastName        string     `json:"lastname,omitempty"`
	Email           string     `json:"emailaddress1,omitempty"`
	JobTitle        string     `json:"jobtitle,omitempty"`
	MobilePhone     string     `json:"mobilephone,omitempty"`
	ParentAccountID string     `json:"_parentcustomerid_value,omitempty"`
	StateCode       int        `json:"statecode"`
	CreatedOn       *time.Time `json:"createdon,omitempty"`
	ModifiedOn      *time.Time `json:"modifiedon,omitempty"`
}

func (c *Contact) EntityID() string { return c.ContactID }

// Lead is a Dataverse lead row
type Lead struct {
	LeadID      string     `json:"leadid"`
	Subject     string     `json:"subject,omitempty"`
	FullName    string     `json:"fullname,omitempty"`
	CompanyName string     `json:"companyname,omitempty"`
	Email       string     `json:"emailaddress1,omitempty"`
	LeadSource  *int       `json:"leadsourcecode,omitempty"`
	StatusCode  int        `json:"statuscode"`
	CreatedOn   *time.Time `json:"createdon,omitempty"`
	ModifiedOn  *time.Time `json:"modifiedon,omitempty"`
}

func (l *Lead) EntityID() string { return l.LeadID }

// Opportunity is a Dataverse opportunity row
type Opportunity struct {
	OpportunityID      string     `json:"opportunityid"`
	Name               string     `json:"name"`
	EstimatedValue     *float64   `json:"estimatedvalue,omitempty"`
	EstimatedCloseDate string     `json:"estimatedclosedate,omitempty"`
	CloseProbability   *int       `json:"closeprobability,omitempty"`
	CustomerID         string     `json:"_customerid_value,omitempty"`
	StatusCode         int        `json:"statuscode"`
	CreatedOn          *time.Time `json:"createdon,omitempty"`
	ModifiedOn         *time.Time `json:"modifiedon,omitempty"`
}

func (o *Opportunity) EntityID() string { return o.OpportunityID }

// Incident is a Dataverse case row
type Incident struct {
	IncidentID   string     `json:"incidentid"`
	Title        string     `json:"title"`
	TicketNumber string     `json:"ticketnumber"`
	PriorityCode *int       `json:"prioritycode,omitempty"`
	CaseOrigin   *int       `json:"caseorigincode,omitempty"`
	CustomerID   string     `json:"_customerid_value,omitempty"`
	StatusCode   int        `json:"statuscode"`
	CreatedOn    *time.Time `json:"createdon,omitempty"`
	ModifiedOn   *time.Time `json:"modifiedon,omitempty"`
}

func (i *Incident) EntityID() string { return i.IncidentID }

// SystemUser is a Dataverse user
type SystemUser struct {
	SystemUserID string `json:"systemuserid"`
	FullName     string `json:"fullname"`
	DomainName   string `json:"domainname"`
	Email        string `json:"internalemailaddress,omitempty"`
	Title        string `json:"title,omitempty"`
	IsDisabled   bool   `json:"isdisabled"`
}

func (u *SystemUser) EntityID() string { return u.SystemUserID }
