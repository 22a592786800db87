// Package registry maps connector type names to factories. Connector packages
// register themselves from init(); hosts create data sources from a BaseConfig.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/connector/core"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"github.com/ajitpratap0/nebula-connect/pkg/logger"
	"go.uber.org/zap"
)

// Factory creates a data source from its configuration
type Factory func(config *config.BaseConfig) (core.DataSource, error)

type entry struct {
	info    core.ConnectorMetadata
	factory Factory
}

// Registry manages connector registration and instantiation
type Registry struct {
	connectors map[string]entry
	mu         sync.RWMutex
	logger     *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return &Registry{
		connectors: make(map[string]entry),
		logger:     logger.Get().With(zap.String("component", "connector_registry")),
	}
}

// Register registers a connector factory under info.Name
func (r *Registry) Register(info core.ConnectorMetadata, factory Factory) error {
	name := strings.ToLower(strings.TrimSpace(info.Name))
	if name == "" {
		return errors.New(errors.ErrorTypeConfig, "connector name is required")
	}
	if factory == nil {
		return errors.Newf(errors.ErrorTypeConfig, "connector %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.connectors[name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "connector %s already registered", name)
	}

	info.Name = name
	r.connectors[name] = entry{info: info, factory: factory}
	r.logger.Debug("connector registered", zap.String("name", name))
	return nil
}

// Create instantiates the connector named by cfg.Type
func (r *Registry) Create(cfg *config.BaseConfig) (core.DataSource, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "config is required")
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Type))

	r.mu.RLock()
	e, exists := r.connectors[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "connector %s not found", cfg.Type).
			WithDetail("available", r.List())
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("invalid config for %s", name))
	}

	src, err := e.factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create connector %s", name))
	}
	return src, nil
}

// List returns the sorted names of registered connectors
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.connectors))
	for name := range r.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns the metadata of a registered connector
func (r *Registry) Info(name string) (core.ConnectorMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.connectors[strings.ToLower(name)]
	return e.info, ok
}

// Has checks if a connector is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Info(name)
	return ok
}

// Clear removes all registered connectors (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors = make(map[string]entry)
}

// Register registers a connector in the global registry
func Register(info core.ConnectorMetadata, factory Factory) error {
	return globalRegistry.Register(info, factory)
}

// MustRegister registers a connector in the global registry and panics on conflict.
// Connector packages call it from init().
func MustRegister(info core.ConnectorMetadata, factory Factory) {
	if err := globalRegistry.Register(info, factory); err != nil {
		panic(err)
	}
}

// Create creates a data source from the global registry
func Create(cfg *config.BaseConfig) (core.DataSource, error) {
	return globalRegistry.Create(cfg)
}

// List returns registered connector names from the global registry
func List() []string {
	return globalRegistry.List()
}

// Info returns connector metadata from the global registry
func Info(name string) (core.ConnectorMetadata, bool) {
	return globalRegistry.Info(name)
}

// Has checks if a connector is registered in the global registry
func Has(name string) bool {
	return globalRegistry.Has(name)
}

// GetRegistry returns the global registry instance.
func GetRegistry() *Registry {
	return globalRegistry
}
