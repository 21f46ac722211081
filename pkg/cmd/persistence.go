package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/persistence/file"
	"github.com/autofy/autofy/pkg/persistence/postgresql"
)

// NewPersistence picks the persistence implementation from the URL
// scheme: postgres URLs get PostgreSQL, everything else is file-based.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(err)
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	return parts[0]
}
