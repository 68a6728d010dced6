// Package cmd provides common initialization for the flowengine binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/persistence/file"
	"github.com/superdash/flowengine/pkg/persistence/postgresql"
)

// NewPersistence creates the persistence implementation matching the URL
// scheme: postgres://... for PostgreSQL, anything else is treated as a file
// path (optionally prefixed file://).
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		store, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to initialize postgresql persistence: %w", err))
		}

		return store
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	return parts[0]
}
