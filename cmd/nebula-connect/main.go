package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"github.com/ajitpratap0/nebula-connect/pkg/observability"

	// Register every data source connector
	_ "github.com/ajitpratap0/nebula-connect/pkg/connector/sources"
)

var version = "0.1.0"

// app carries the settings shared by all commands. Flags win over NEBULA_*
// environment variables, which win over defaults.
type app struct {
	v       *viper.Viper
	metrics *http.Server
	tracing bool
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("NEBULA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "nebula-connect",
		Short: "Query SaaS and streaming data sources through one interface",
		Long: `nebula-connect exposes vendor APIs (CRMs, collaboration tools, content
platforms, vector and analytics databases, message streams) as entities that
can be listed, described and fetched page by page.

Each data source is described by a YAML file:

  name: crm
  type: copper
  security:
    credentials:
      api_key: ${COPPER_API_KEY}
      user_email: ops@example.com`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) { a.teardown(cmd.Context()) },
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs (e.g. :9090)")
	pf.Bool("trace", false, "Export OpenTelemetry spans to stderr")
	for _, name := range []string{"log-level", "metrics-addr", "trace"} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		versionCmd(),
		listCmd(),
		entitiesCmd(a),
		structureCmd(a),
		fetchCmd(a),
		publishCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(logger.Config{Level: a.v.GetString("log-level"), Encoding: "console"}); err != nil {
		return err
	}

	if addr := a.v.GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		a.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", addr))
	}

	if a.v.GetBool("trace") {
		if err := observability.InitTracing(observability.DefaultTracingConfig(version)); err != nil {
			return err
		}
		a.tracing = true
	}
	return nil
}

func (a *app) teardown(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if a.tracing {
		if err := observability.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	if a.metrics != nil {
		_ = a.metrics.Shutdown(ctx)
	}
	_ = logger.Sync()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nebula-connect v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
