// Package config provides configuration management for nebula-connect data sources.
//
// # Usage
//
// ## Loading a data source
//
//	cfg, err := config.LoadBaseConfig("copper.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	src, err := registry.Create(cfg)
//
// ## YAML layout
//
//	name: crm
//	type: copper
//	security:
//	  credentials:
//	    api_key: ${COPPER_API_KEY}
//	    user_email: ${COPPER_USER:-ops@example.com}
//	paging:
//	  default_page_size: 50
//	options:
//	  keep_path_params: "false"
//
// ## Environment Variable Substitution
//
// ${VAR} is replaced by the variable's value and ${VAR:-fallback} falls back when
// the variable is unset or empty. Substitution happens before YAML parsing.
//
// # Credentials
//
// Connectors read credentials through BaseConfig.Credential and validate them with
// RequireCredentials, which reports every missing key at once.
package config
