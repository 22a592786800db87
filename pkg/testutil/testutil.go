// Package testutil provides testing utilities for nebula-connect connectors
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout, cancelled on cleanup.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Config builds a connector config pointing at baseURL with the given credentials.
// Metrics stay enabled so collectors are exercised the way production runs them.
func Config(connectorType, baseURL string, credentials map[string]string) *config.BaseConfig {
	cfg := config.NewBaseConfig("test-"+connectorType, connectorType)
	cfg.Connection.BaseURL = baseURL
	for k, v := range credentials {
		cfg.Security.Credentials[k] = v
	}
	return cfg
}
