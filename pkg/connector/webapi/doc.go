// Package webapi is the shared plumbing behind every HTTP/JSON data source.
//
// A vendor connector declares a Catalog of entities. Each Entity names an
// endpoint template ("sites/{site_id}/workbooks"), the filters it requires, the
// dotted root path where records live in the response and, optionally, a typed
// model. The generic Source then handles the rest:
//
//   - Resolve turns filters into a concrete path and query string
//   - Pager implementations translate a 1-based page request into the vendor's
//     pagination style (offset/limit, page number, cursor, or client-side slicing)
//   - Extract and Decode unwrap the response envelope into typed records,
//     falling back to map[string]any
//   - ErrorPolicy decides whether vendor failures surface as errors or as
//     empty results
//
// Vendor differences stay explicit: each connector picks its pager, policy,
// authenticator and envelope check.
package webapi
