// Package nebula provides nebula-connect, a library and CLI that expose SaaS
// APIs and message streams as uniform data sources.
//
// Every connector answers the same questions: which entities exist, what
// their records look like, and what a given page of an entity contains.
// Vendor differences (endpoint templates, required identifiers, pagination
// style, response envelopes, authentication, failure handling) stay inside
// the connector.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/nebula-connect/pkg/config"
//	    "github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
//	    _ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources"
//	)
//
//	cfg, _ := config.LoadBaseConfig("teams.yaml")
//	src, _ := registry.Create(cfg)
//	_, _ = src.OpenConnection(ctx)
//
//	filters := []core.Filter{core.Eq("team_id", "T1"), core.Eq("channel_id", "C9")}
//	page, err := src.GetEntityPage(ctx, "channel_messages", filters, 1, 50)
//
// # Key Packages
//
//	pkg/connector/core      - DataSource contract, filters, page envelope
//	pkg/connector/webapi    - Generic HTTP/JSON source: catalogs, pagers, unwrapping
//	pkg/connector/sources   - Vendor and stream connectors
//	pkg/connector/registry  - Connector factories by type name
//	pkg/clients             - HTTP client with auth, rate limiting and metrics
//	pkg/config              - YAML data source configuration
//	pkg/errors              - Structured error handling
//	pkg/logger              - Structured logging
//	pkg/metrics             - Prometheus collectors
//	pkg/observability       - OpenTelemetry tracing
//
// # Connectors
//
// Web API sources:
//   - Copper, SugarCRM, Dynamics 365 (CRM)
//   - Microsoft Teams, Google Chat (collaboration)
//   - Contentful, WordPress (content)
//   - Sendinblue (marketing)
//   - Tableau (analytics)
//   - Particle (IoT)
//   - pCloud (storage)
//   - Milvus, Rockset (vector and analytics databases)
//
// Stream sources, which can also publish and acknowledge:
//   - Redis Streams
//   - Google Cloud Pub/Sub
//
// # Configuration
//
// Each data source is a YAML file:
//
//	name: crm
//	type: copper
//	connection:
//	  base_url: https://api.copper.com/developer_api/v1
//	security:
//	  credentials:
//	    api_key: ${COPPER_API_KEY}
//	    user_email: ops@example.com
//	paging:
//	  default_page_size: 50
//
// Environment variables are supported with ${VAR_NAME} syntax.
//
// # CLI
//
//	nebula-connect list
//	nebula-connect entities -c crm.yaml
//	nebula-connect structure -c crm.yaml -e people
//	nebula-connect fetch -c crm.yaml -e people --page 1 --page-size 20
//	nebula-connect publish -c redis.yaml -e orders -d '{"id":42}'
package nebula
