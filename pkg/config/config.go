// Package config provides the configuration structure shared by every data source.
// A single BaseConfig describes one configured connector instance.
//
// The configuration is organized into logical sections:
//   - Connection: base URL, API version and static headers
//   - Security: authentication type and credentials
//   - Timeouts: request, connection and idle timeouts
//   - Reliability: client-side rate limiting
//   - Paging: default and maximum page sizes
//   - Observability: logging, metrics and tracing switches
//   - Options: vendor-specific knobs
//
// Example usage:
//
//	cfg := config.NewBaseConfig("crm", "copper")
//	cfg.Security.Credentials["api_key"] = os.Getenv("COPPER_API_KEY")
//	cfg.Security.Credentials["user_email"] = "ops@example.com"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BaseConfig is the configuration of one data source instance.
// Connector constructors receive it from the registry.
type BaseConfig struct {
	// Name identifies the data source instance
	Name    string `yaml:"name" json:"name"`
	// Type selects the registered connector (e.g., "copper", "tableau")
	Type    string `yaml:"type" json:"type"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Connection settings for the vendor endpoint
	Connection ConnectionConfig `yaml:"connection" json:"connection"`

	// Timeouts define various timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Reliability settings for client-side throttling
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability"`

	// Security configuration for authentication and encryption
	Security SecurityConfig `yaml:"security" json:"security"`

	// Paging defaults applied when callers pass no page size
	Paging PagingConfig `yaml:"paging" json:"paging"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`

	// Options holds vendor-specific settings such as default parameters
	Options map[string]string `yaml:"options" json:"options"`
}

// ConnectionConfig locates the vendor API.
type ConnectionConfig struct {
	// BaseURL overrides the vendor's public endpoint
	BaseURL    string            `yaml:"base_url" json:"base_url"`
	// APIVersion selects a vendor API version where the URL embeds one
	APIVersion string            `yaml:"api_version" json:"api_version"`
	// Headers are sent with every request
	Headers    map[string]string `yaml:"headers" json:"headers"`
}

// TimeoutConfig contains all timeout-related settings.
type TimeoutConfig struct {
	// Request timeout for individual calls
	Request    time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
	// Idle timeout before closing inactive connections
	Idle       time.Duration `yaml:"idle" json:"idle"`
}

// ReliabilityConfig contains client-side throttling settings.
// Nothing retries; failed calls surface according to the connector's error policy.
type ReliabilityConfig struct {
	// RateLimitPerSec limits requests per second (0 = unlimited)
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
	// RateBurst is the token bucket size
	RateBurst       int     `yaml:"rate_burst" json:"rate_burst"`
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	// TLSSkipVerify disables certificate verification (insecure)
	TLSSkipVerify bool              `yaml:"tls_skip_verify" json:"tls_skip_verify"`
	// AuthType specifies authentication method where a vendor supports several
	AuthType      string            `yaml:"auth_type" json:"auth_type"`
	// Credentials stores authentication credentials (use env vars in production)
	Credentials   map[string]string `yaml:"credentials" json:"credentials"`
	// CAPath for custom CA certificate
	CAPath        string            `yaml:"ca_path" json:"ca_path"`
}

// PagingConfig contains page size defaults.
type PagingConfig struct {
	// DefaultPageSize is used when a caller passes a size below 1
	DefaultPageSize int `yaml:"default_page_size" json:"default_page_size"`
	// MaxPageSize caps caller page sizes (0 = no cap)
	MaxPageSize     int `yaml:"max_page_size" json:"max_page_size"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates Prometheus collection
	EnableMetrics     bool    `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing activates OpenTelemetry spans
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel          string  `yaml:"log_level" json:"log_level"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
	// LogResponseBodies includes truncated error bodies in warnings
	LogResponseBodies bool    `yaml:"log_response_bodies" json:"log_response_bodies"`
}

// NewBaseConfig creates a new BaseConfig with defaults.
//
// Parameters:
//   - name: The data source instance name
//   - connectorType: The registered connector type (e.g., "copper")
func NewBaseConfig(name, connectorType string) *BaseConfig {
	return &BaseConfig{
		Name:    name,
		Type:    connectorType,
		Version: "1.0.0",
		Connection: ConnectionConfig{
			Headers: make(map[string]string),
		},
		Timeouts: TimeoutConfig{
			Request:    60 * time.Second,
			Connection: 30 * time.Second,
			Idle:       90 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RateLimitPerSec: 0,
			RateBurst:       1,
		},
		Security: SecurityConfig{
			Credentials: make(map[string]string),
		},
		Paging: PagingConfig{
			DefaultPageSize: 100,
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     true,
			LogLevel:          "info",
			TracingSampleRate: 1.0,
		},
		Options: make(map[string]string),
	}
}

// ApplyDefaults fills zero values left by a partial YAML document.
func (bc *BaseConfig) ApplyDefaults() {
	def := NewBaseConfig(bc.Name, bc.Type)
	if bc.Version == "" {
		bc.Version = def.Version
	}
	if bc.Timeouts.Request == 0 {
		bc.Timeouts.Request = def.Timeouts.Request
	}
	if bc.Timeouts.Connection == 0 {
		bc.Timeouts.Connection = def.Timeouts.Connection
	}
	if bc.Timeouts.Idle == 0 {
		bc.Timeouts.Idle = def.Timeouts.Idle
	}
	if bc.Reliability.RateBurst == 0 {
		bc.Reliability.RateBurst = def.Reliability.RateBurst
	}
	if bc.Paging.DefaultPageSize == 0 {
		bc.Paging.DefaultPageSize = def.Paging.DefaultPageSize
	}
	if bc.Observability.LogLevel == "" {
		bc.Observability.LogLevel = def.Observability.LogLevel
	}
	if bc.Connection.Headers == nil {
		bc.Connection.Headers = make(map[string]string)
	}
	if bc.Security.Credentials == nil {
		bc.Security.Credentials = make(map[string]string)
	}
	if bc.Options == nil {
		bc.Options = make(map[string]string)
	}
}

// Validate validates the configuration for correctness.
func (bc *BaseConfig) Validate() error {
	if bc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if bc.Type == "" {
		return fmt.Errorf("type is required")
	}
	if bc.Reliability.RateLimitPerSec < 0 {
		return fmt.Errorf("rate_limit_per_sec cannot be negative")
	}
	if bc.Paging.DefaultPageSize < 0 {
		return fmt.Errorf("default_page_size cannot be negative")
	}
	if bc.Paging.MaxPageSize > 0 && bc.Paging.DefaultPageSize > bc.Paging.MaxPageSize {
		return fmt.Errorf("default_page_size %d exceeds max_page_size %d", bc.Paging.DefaultPageSize, bc.Paging.MaxPageSize)
	}
	return nil
}

// IsRateLimited returns true if rate limiting is enabled
func (r *ReliabilityConfig) IsRateLimited() bool {
	return r.RateLimitPerSec > 0
}

// HasCredentials returns true if credentials are configured
func (s *SecurityConfig) HasCredentials() bool {
	return len(s.Credentials) > 0
}

// Credential returns a trimmed credential value
func (bc *BaseConfig) Credential(key string) string {
	return strings.TrimSpace(bc.Security.Credentials[key])
}

// RequireCredentials returns an error naming every listed credential that is blank.
func (bc *BaseConfig) RequireCredentials(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if bc.Credential(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing credential(s): %s", strings.Join(missing, ", "))
}

// Option returns a vendor option or def when unset
func (bc *BaseConfig) Option(key, def string) string {
	if v, ok := bc.Options[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// OptionInt returns a vendor option parsed as an int, or def
func (bc *BaseConfig) OptionInt(key string, def int) int {
	if v := bc.Option(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// OptionBool returns a vendor option parsed as a bool, or def
func (bc *BaseConfig) OptionBool(key string, def bool) bool {
	if v := bc.Option(key, ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// BaseURL returns the configured base URL without a trailing slash, or def
func (bc *BaseConfig) BaseURL(def string) string {
	u := strings.TrimSpace(bc.Connection.BaseURL)
	if u == "" {
		u = def
	}
	return strings.TrimRight(u, "/")
}
