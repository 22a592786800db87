// Package base provides the foundation every data source embeds: identity,
// configuration, a connector-scoped logger, the connection state machine,
// a tracer and the attachment index.
//
// # Usage
//
//	type MySource struct {
//	    *base.BaseConnector
//	}
//
//	func New(cfg *config.BaseConfig) *MySource {
//	    return &MySource{BaseConnector: base.NewBaseConnector(cfg, core.ConnectorTypeWebAPI)}
//	}
//
// State transitions are logged and exported through the
// nebula_connect_connection_state gauge.
package base

import (
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"github.com/ajitpratap0/nebula-connect/pkg/metrics"
	"github.com/ajitpratap0/nebula-connect/pkg/observability"
	"go.uber.org/zap"
)

// BaseConnector holds what every data source shares
type BaseConnector struct {
	name          string             // Instance name from config
	connectorType string             // Registered connector type
	kind          core.ConnectorType // webapi or stream
	config        *config.BaseConfig // Instance configuration
	logger        *zap.Logger        // Connector-scoped logger

	state   core.ConnectionState
	stateMu sync.RWMutex

	tracer      *observability.ConnectorTracer
	attachments *Attachments
}

// NewBaseConnector creates a base for cfg. A nil logger falls back to the global one.
func NewBaseConnector(cfg *config.BaseConfig, kind core.ConnectorType, log *zap.Logger) *BaseConnector {
	if log == nil {
		log = logger.Get()
	}
	bc := &BaseConnector{
		name:          cfg.Name,
		connectorType: cfg.Type,
		kind:          kind,
		config:        cfg,
		logger:        log.With(zap.String("connector", cfg.Type), zap.String("source", cfg.Name)),
		state:         core.ConnectionStateClosed,
		tracer:        observability.NewConnectorTracer(cfg.Type, cfg.Name),
		attachments:   NewAttachments(DefaultAttachmentLimit),
	}
	return bc
}

// Name returns the instance name
func (bc *BaseConnector) Name() string {
	return bc.name
}

// Type returns the registered connector type
func (bc *BaseConnector) Type() string {
	return bc.connectorType
}

// Kind returns whether this is a web API or stream connector
func (bc *BaseConnector) Kind() core.ConnectorType {
	return bc.kind
}

// GetConfig returns the instance configuration
func (bc *BaseConnector) GetConfig() *config.BaseConfig {
	return bc.config
}

// GetLogger returns the connector-scoped logger
func (bc *BaseConnector) GetLogger() *zap.Logger {
	return bc.logger
}

// Tracer returns the connector's span factory
func (bc *BaseConnector) Tracer() *observability.ConnectorTracer {
	return bc.tracer
}

// Attachments returns the record-to-source index
func (bc *BaseConnector) Attachments() *Attachments {
	return bc.attachments
}

// ConnectionState reports the current state
func (bc *BaseConnector) ConnectionState() core.ConnectionState {
	bc.stateMu.RLock()
	defer bc.stateMu.RUnlock()
	return bc.state
}

// SetConnectionState moves to state and returns it
func (bc *BaseConnector) SetConnectionState(state core.ConnectionState) core.ConnectionState {
	bc.stateMu.Lock()
	prev := bc.state
	bc.state = state
	bc.stateMu.Unlock()

	if prev != state {
		bc.logger.Debug("connection state changed",
			zap.String("from", string(prev)),
			zap.String("to", string(state)))
	}
	if bc.config.Observability.EnableMetrics {
		all := core.ConnectionStates()
		names := make([]string, len(all))
		for i, s := range all {
			names[i] = string(s)
		}
		metrics.SetConnectionState(bc.name, string(state), names)
	}
	return state
}

// IsOpen reports whether the connection is open
func (bc *BaseConnector) IsOpen() bool {
	return bc.ConnectionState() == core.ConnectionStateOpen
}
