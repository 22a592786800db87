// Package connector is the framework behind nebula-connect data sources.
//
// # Architecture Overview
//
// The connector package is organized into several sub-packages:
//
//   - core: the DataSource contract every connector satisfies, plus the
//     optional Publisher and Acknowledger capabilities of stream sources,
//     filters, page envelopes and entity structures.
//
//   - base: BaseConnector, embedded by every source. It carries the
//     configuration, a named logger, a tracer, the connection state machine
//     and the attachment store used to hand auxiliary data to callers.
//
//   - webapi: the generic HTTP/JSON source. Vendors declare a catalog of
//     entities and pick a pager, error policy and authenticator.
//
//   - sources: the vendor connectors (Copper, SugarCRM, Dynamics 365,
//     Microsoft Teams, Google Chat, Contentful, WordPress, Sendinblue,
//     Tableau, Particle, pCloud, Milvus, Rockset) and the stream connectors
//     (Redis Streams, Google Cloud Pub/Sub).
//
//   - registry: maps connector type names to factories. Connectors register
//     themselves from init().
//
// # Core Concepts
//
// Entities: every source exposes named entities ("people", "channel_messages",
// "workbooks"). GetEntitiesList enumerates them and GetEntityStructure
// describes their fields.
//
// Filters: callers pass field/value pairs. A filter whose field matches a
// {placeholder} in the entity endpoint fills the path; the rest become query
// parameters unless the entity declares otherwise.
//
// Paging: GetEntityPage takes a 1-based page number and a page size and
// returns a PagedResult whatever the vendor's own pagination style is.
//
// Failures: each source chooses whether vendor failures raise a structured
// error or are logged and turned into an empty result.
//
// # Example Usage
//
//	cfg, err := config.LoadBaseConfig("copper.yaml")
//	if err != nil {
//		return err
//	}
//	src, err := registry.Create(cfg)
//	if err != nil {
//		return err
//	}
//	if _, err := src.OpenConnection(ctx); err != nil {
//		return err
//	}
//	defer src.CloseConnection(ctx)
//
//	page, err := src.GetEntityPage(ctx, "people", nil, 1, 50)
package connector
