package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/registry"
	jsonpool "github.com/ajitpratap0/nebula-connect/pkg/json"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered connectors",
		Run: func(cmd *cobra.Command, _ []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tCREDENTIALS\tDESCRIPTION")
			for _, name := range registry.List() {
				info, _ := registry.Info(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Type, strings.Join(info.Credentials, ","), info.Description)
			}
			_ = w.Flush()
		},
	}
}

// openSource loads a data source config and opens the connector it names
func (a *app) openSource(ctx context.Context, path string) (core.DataSource, func(), error) {
	cfg, err := config.LoadBaseConfig(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opening source", zap.String("source", cfg.Name), zap.String("type", cfg.Type), zap.String("config", path))

	ds, err := registry.Create(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s source: %w", cfg.Type, err)
	}
	if _, err := ds.OpenConnection(ctx); err != nil {
		return nil, nil, err
	}
	closer := func() {
		if _, err := ds.CloseConnection(context.Background()); err != nil {
			logger.Warn("close failed", zap.String("source", cfg.Name), zap.Error(err))
		}
	}
	return ds, closer, nil
}

func withTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func writeJSON(w io.Writer, v any) error {
	data, err := jsonpool.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseFilters turns "field=value" arguments into filters
func parseFilters(args []string) ([]core.Filter, error) {
	filters := make([]core.Filter, 0, len(args))
	for _, arg := range args {
		f, err := core.ParseFilter(arg)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// parseAttributes turns "key=value" arguments into a map
func parseAttributes(args []string) (map[string]string, error) {
	attrs := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid attribute %q: expected key=value", arg)
		}
		attrs[strings.TrimSpace(k)] = v
	}
	return attrs, nil
}

type sourceFlags struct {
	config  string
	timeout time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Path to the data source YAML file (required)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "Give up after this long (0 = no limit)")
	_ = cmd.MarkFlagRequired("config")
}

func entitiesCmd(a *app) *cobra.Command {
	var sf sourceFlags
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List the entities a data source serves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, sf.timeout)
			defer cancel()

			ds, closeSource, err := a.openSource(ctx, sf.config)
			if err != nil {
				return err
			}
			defer closeSource()

			names, err := ds.GetEntitiesList(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func structureCmd(a *app) *cobra.Command {
	var (
		sf      sourceFlags
		entity  string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Describe the fields of an entity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, sf.timeout)
			defer cancel()

			ds, closeSource, err := a.openSource(ctx, sf.config)
			if err != nil {
				return err
			}
			defer closeSource()

			st, err := ds.GetEntityStructure(ctx, entity, refresh)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), st)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&entity, "entity", "e", "", "Entity key (required)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild a cached description")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func fetchCmd(a *app) *cobra.Command {
	var (
		sf       sourceFlags
		entity   string
		filters  []string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch an entity, or one page of it",
		Example: `  nebula-connect fetch -c copper.yaml -e people
  nebula-connect fetch -c teams.yaml -e channel_messages -f team_id=T1 -f channel_id=C9 --page 2 --page-size 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := parseFilters(filters)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd, sf.timeout)
			defer cancel()

			ds, closeSource, err := a.openSource(ctx, sf.config)
			if err != nil {
				return err
			}
			defer closeSource()

			if page > 0 || pageSize > 0 {
				result, err := ds.GetEntityPage(ctx, entity, fs, page, pageSize)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			}
			items, err := ds.GetEntity(ctx, entity, fs)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&entity, "entity", "e", "", "Entity key (required)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as field=value (repeatable)")
	cmd.Flags().IntVar(&page, "page", 0, "1-based page number; fetches a single page when set")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Page size (default from the config's paging section)")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func publishCmd(a *app) *cobra.Command {
	var (
		sf     sourceFlags
		target string
		data   string
		file   string
		attrs  []string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a message to a stream or topic",
		Example: `  nebula-connect publish -c redis.yaml -e orders -d '{"id":42}'
  nebula-connect publish -c pubsub.yaml -e orders --data-file order.json -a origin=cli`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attributes, err := parseAttributes(attrs)
			if err != nil {
				return err
			}
			payload := []byte(data)
			if file != "" {
				if payload, err = os.ReadFile(file); err != nil { //nolint:gosec // path supplied by the operator
					return fmt.Errorf("read data file: %w", err)
				}
			}

			ctx, cancel := withTimeout(cmd, sf.timeout)
			defer cancel()

			ds, closeSource, err := a.openSource(ctx, sf.config)
			if err != nil {
				return err
			}
			defer closeSource()

			pub, ok := ds.(core.Publisher)
			if !ok {
				return fmt.Errorf("%s sources cannot publish", ds.Type())
			}
			id, err := pub.Publish(ctx, target, payload, attributes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&target, "entity", "e", "", "Stream key or topic (required)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Message payload")
	cmd.Flags().StringVar(&file, "data-file", "", "Read the payload from a file")
	cmd.Flags().StringArrayVarP(&attrs, "attribute", "a", nil, "Attribute as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("entity")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")
	return cmd
}
