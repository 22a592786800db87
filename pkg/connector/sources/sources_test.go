package sources

import (
	"strings"
	"testing"

	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/contentful"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/copper"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/dynamics365"
	googlechat "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/google_chat"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/milvus"
	msteams "github.com/ajitpratap0/nebula-connect/pkg/connector/sources/ms_teams"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/particle"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/pcloud"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/rockset"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/sendinblue"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/sugarcrm"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/tableau"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/sources/wordpress"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/webapi"
	"github.com/ajitpratap0/nebula-connect/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllVendorsRegistered(t *testing.T) {
	want := []string{
		"contentful", "copper", "dynamics365", "googlechat", "milvus", "msteams", "particle", "pcloud",
		"pubsub", "redisstreams", "rockset", "sendinblue", "sugarcrm", "tableau", "wordpress",
	}
	for _, name := range want {
		assert.True(t, registry.Has(name), name)
	}

	streams := 0
	for _, name := range registry.List() {
		if info, _ := registry.Info(name); info.Type == core.ConnectorTypeStream {
			streams++
		}
	}
	assert.Equal(t, 2, streams)
}

// Every HTTP entity must resolve to a concrete path once its required
// filters are present, whatever spelling the caller uses for them.
func TestCatalogPathsFullySubstituted(t *testing.T) {
	milvusSrc, err := milvus.New(testutil.Config(milvus.Name, "", nil))
	require.NoError(t, err)
	sugarSrc, err := sugarcrm.New(testutil.Config(sugarcrm.Name, "https://crm.example.com",
		map[string]string{"username": "u", "password": "p"}))
	require.NoError(t, err)

	catalogs := map[string]*webapi.Catalog{
		"contentful":  contentful.Catalog,
		"copper":      copper.Catalog,
		"dynamics365": dynamics365.Catalog,
		"googlechat":  googlechat.Catalog,
		"milvus":      milvusSrc.Catalog(),
		"msteams":     msteams.Catalog,
		"particle":    particle.Catalog,
		"pcloud":      pcloud.Catalog,
		"rockset":     rockset.Catalog,
		"sendinblue":  sendinblue.Catalog,
		"sugarcrm":    sugarSrc.Catalog(),
		"tableau":     tableau.Catalog,
		"wordpress":   wordpress.Catalog,
	}

	for vendor, catalog := range catalogs {
		for _, e := range catalog.Entities() {
			if e.Exec != nil {
				continue
			}
			t.Run(vendor+"/"+e.Name, func(t *testing.T) {
				params := webapi.NewParams()
				for _, key := range e.Required {
					params.Set(strings.ToUpper(key), "v1")
				}

				req, err := webapi.Resolve(e, params, webapi.ResolveOptions{})
				require.NoError(t, err)
				assert.NotContains(t, req.Path, "{")
				assert.NotContains(t, req.Path, "}")
				for key, values := range req.Query {
					assert.NotContains(t, key, "{")
					for _, v := range values {
						assert.NotContains(t, v, "{")
					}
				}
			})
		}
	}
}
