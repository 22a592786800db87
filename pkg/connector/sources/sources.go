// Package sources links every data source connector into a binary. Importing
// it for side effects registers each vendor with the connector registry.
package sources

import (
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/contentful"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/copper"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/dynamics365"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/google_chat"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/milvus"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/ms_teams"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/particle"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/pcloud"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/pubsub"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/redis_streams"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/rockset"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/sendinblue"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/sugarcrm"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/tableau"
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/wordpress"
)
