package config_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
)

// ExampleNewBaseConfig demonstrates the defaults of a new data source.
func ExampleNewBaseConfig() {
	cfg := config.NewBaseConfig("crm", "copper")

	fmt.Printf("Page Size: %d\n", cfg.Paging.DefaultPageSize)
	fmt.Printf("Request Timeout: %s\n", cfg.Timeouts.Request)
	fmt.Printf("Rate Limited: %v\n", cfg.Reliability.IsRateLimited())

	// Output:
	// Page Size: 100
	// Request Timeout: 1m0s
	// Rate Limited: false
}

// ExampleBaseConfig_RequireCredentials shows that every missing key is reported.
func ExampleBaseConfig_RequireCredentials() {
	cfg := config.NewBaseConfig("crm", "copper")
	cfg.Security.Credentials["api_key"] = "k"

	fmt.Println(cfg.RequireCredentials("api_key", "user_email", "application"))

	// Output:
	// missing credential(s): application, user_email
}

// ExampleLoadBaseConfig demonstrates loading YAML with environment substitution.
func ExampleLoadBaseConfig() {
	dir, _ := os.MkdirTemp("", "nebula-connect")
	defer os.RemoveAll(dir)

	os.Setenv("EXAMPLE_SPACE", "space-1")
	defer os.Unsetenv("EXAMPLE_SPACE")

	path := filepath.Join(dir, "contentful.yaml")
	_ = os.WriteFile(path, []byte(`
name: cms
type: contentful
options:
  space_id: ${EXAMPLE_SPACE}
  environment_id: ${EXAMPLE_ENV:-master}
`), 0o600)

	cfg, err := config.LoadBaseConfig(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Option("space_id", ""), cfg.Option("environment_id", ""), cfg.Paging.DefaultPageSize)

	// Output:
	// space-1 master 100
}
