package sugarcrm

// Common holds the fields every Sugar bean carries
type Common struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DateEntered    string `json:"date_entered,omitempty"`
	DateModified   string `json:"date_modified,omitempty"`
	AssignedUserID string `json:"assigned_user_id,omitempty"`
	Deleted        bool   `json:"deleted"`
	Module         string `json:"_module,omitempty"`
}

func (c *Common) EntityID() string { return c.ID }

// Account is a Sugar account
type Account struct {
	Common
	AccountType     string `json:"account_type,omitempty"`
	Industry        string `json:"industry,omitempty"`
	AnnualRevenue   string `json:"annual_revenue,omitempty"`
	Employees       string `json:"employees,omitempty"`
	Website         string `json:"website,omitempty"`
	PhoneOffice     string `json:"phone_office,omitempty"`
	BillingCity     string `json:"billing_address_city,omitempty"`
	BillingCountry  string `json:"billing_address_country,omitempty"`
}

// Contact is a Sugar contact
type Contact struct {
	Common
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email1,omitempty"`
	PhoneWork   string `json:"phone_work,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	LeadSource  string `json:"lead_source,omitempty"`
}

// Lead is a Sugar lead
type Lead struct {
	Common
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email1,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Status      string `json:"status,omitempty"`
	LeadSource  string `json:"lead_source,omitempty"`
}

// Opportunity is a Sugar opportunity
type Opportunity struct {
	Common
	Amount      string `json:"amount,omitempty"`
	CurrencyID  string `json:"currency_id,omitempty"`
	SalesStage  string `json:"sales_stage,omitempty"`
	Probability string `json:"probability,omitempty"`
	DateClosed  string `json:"date_closed,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
}

// Case is a Sugar support case
type Case struct {
	Common
	CaseNumber int    `json:"case_number"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Type       string `json:"type,omitempty"`
	AccountID  string `json:"account_id,omitempty"`
}

// User is a Sugar user
type User struct {
	Common
	UserName  string `json:"user_name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email1,omitempty"`
	Status    string `json:"status,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}
