package cmd

import (
	"log/slog"

	"github.com/superdash/flowengine/pkg/registry"
)

// NewRegistry creates a registry with all built-in node factories.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultNodes()

	return reg
}
