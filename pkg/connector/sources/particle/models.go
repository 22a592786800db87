package particle

import (
	"strconv"
	"time"
)

// Device is a Particle device
type Device struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastIPAddr   string    `json:"last_ip_address,omitempty"`
	LastHeard    time.Time `json:"last_heard,omitempty"`
	ProductID    int       `json:"product_id"`
	PlatformID   int       `json:"platform_id"`
	Online       bool      `json:"online"`
	Connected    bool      `json:"connected"`
	Cellular     bool      `json:"cellular"`
	Notes        string    `json:"notes,omitempty"`
	Serial       string    `json:"serial_number,omitempty"`
	ICCID        string    `json:"iccid,omitempty"`
	FirmwareVer  int       `json:"firmware_version,omitempty"`
	SystemFwVer  string    `json:"system_firmware_version,omitempty"`
	Functions    []string  `json:"functions,omitempty"`
	Variables    Variables `json:"variables,omitempty"`
	Status       string    `json:"status,omitempty"`
	Development  bool      `json:"development"`
	Quarantined  bool      `json:"quarantined"`
	Denied       bool      `json:"denied"`
	Owner        string    `json:"owner,omitempty"`
	Groups       []string  `json:"groups,omitempty"`
	TargetedFwID int       `json:"targeted_firmware_release_version,omitempty"`
}

func (d *Device) EntityID() string { return d.ID }

// PlatformName resolves the device's platform ID through the type registry
func (d *Device) PlatformName() string {
	return PlatformName(d.PlatformID)
}

// Variables maps exposed cloud variable names to their types
type Variables map[string]string

// Product is a fleet of devices
type Product struct {
	ID           int      `json:"id"`
	PlatformID   int      `json:"platform_id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Organization string   `json:"org,omitempty"`
	Groups       []string `json:"groups,omitempty"`
}

func (p *Product) EntityID() string { return strconv.Itoa(p.ID) }

// Sim is a Particle SIM card
type Sim struct {
	ICCID       string `json:"_id"`
	ActivatedAt string `json:"activated_at,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	DeviceID    string `json:"last_device_id,omitempty"`
	DeviceName  string `json:"last_device_name,omitempty"`
	Status      string `json:"status"`
	Owner       string `json:"user_id,omitempty"`
	Product     int    `json:"product_id,omitempty"`
}

func (s *Sim) EntityID() string { return s.ICCID }

// Integration is a webhook or cloud integration
type Integration struct {
	ID              string `json:"id"`
	Event           string `json:"event"`
	URL             string `json:"url,omitempty"`
	IntegrationType string `json:"integration_type"`
	RequestType     string `json:"requestType,omitempty"`
	NoDefaults      bool   `json:"noDefaults"`
	Created         string `json:"created_at,omitempty"`
}

func (i *Integration) EntityID() string { return i.ID }

// User is the account behind the token
type User struct {
	Username        string `json:"username"`
	SubscriptionIDs []int  `json:"subscription_ids,omitempty"`
	AccountInfo     struct {
		FirstName   string `json:"first_name,omitempty"`
		LastName    string `json:"last_name,omitempty"`
		CompanyName string `json:"company_name,omitempty"`
	} `json:"account_info"`
	MFA struct {
		Enabled bool `json:"enabled"`
	} `json:"mfa"`
}

func (u *User) EntityID() string { return u.Username }

// OAuthClient is an API client registered on the account
type OAuthClient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Scope   string `json:"scope,omitempty"`
	Product int    `json:"product_id,omitempty"`
}

func (c *OAuthClient) EntityID() string { return c.ID }
