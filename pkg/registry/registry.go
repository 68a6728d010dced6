// Package registry tracks the node factories available to the engine and
// validates node configuration before instantiation.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

type Registry struct {
	logger        *slog.Logger
	nodeFactories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        logger,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode registers a node factory under its type ID.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.nodeFactories[factory.ID()] = factory
}

// CreateNode validates the node's configuration against the factory schema
// and instantiates the node.
func (r *Registry) CreateNode(node *models.Node, deps protocol.Dependencies) (protocol.Node, error) {
	factory, ok := r.nodeFactories[node.Type]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", node.Type)
	}

	if err := r.ValidateNode(node); err != nil {
		return nil, err
	}

	return factory.Create(node, deps)
}

// ValidateNode checks a node's type and configuration without instantiating
// it. Used at workflow write time so bad graphs are rejected up front.
func (r *Registry) ValidateNode(node *models.Node) error {
	factory, ok := r.nodeFactories[node.Type]
	if !ok {
		return fmt.Errorf("node type '%s' not registered", node.Type)
	}

	if err := r.validateNodeData(node, factory.Schema()); err != nil {
		return fmt.Errorf("node %s configuration invalid: %w", node.ID, err)
	}

	return nil
}

// IsNodeRegistered checks if a node type is registered.
func (r *Registry) IsNodeRegistered(nodeType string) bool {
	_, exists := r.nodeFactories[nodeType]

	return exists
}

// NodeFactories returns all registered factories sorted by ID.
func (r *Registry) NodeFactories() []protocol.NodeFactory {
	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

// HealthCheck reports whether the registry has node factories loaded.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.nodeFactories) == 0 {
		return "No node factories registered", false
	}

	return fmt.Sprintf("%d node types registered", len(r.nodeFactories)), true
}

// validateNodeData validates node configuration against the factory schema.
func (r *Registry) validateNodeData(node *models.Node, schema map[string]any) error {
	if schema == nil {
		return nil
	}

	data := node.Data
	if data == nil {
		data = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
