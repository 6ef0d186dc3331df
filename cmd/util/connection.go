package util

import (
	"context"
	"errors"
	"fmt"

	"github.com/entitydiff/entitydiff/internal/logger"
	"github.com/entitydiff/entitydiff/internal/store"
)

// ErrMissingDatabaseURL is returned when a command needs the snapshot store but no URL is configured
var ErrMissingDatabaseURL = errors.New("database URL is required (use --database-url flag or " + EnvDatabaseURL + " environment variable)")

// OpenStore connects to the snapshot store and applies pending migrations
func OpenStore(ctx context.Context, databaseURL string) (*store.Store, error) {
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	log := logger.Get()

	log.Debug("Connecting to snapshot store", "max_conns", GetEnvIntWithDefault(EnvMaxConns, 0))
	st, err := store.New(ctx, store.Config{
		URL:      databaseURL,
		MaxConns: int32(GetEnvIntWithDefault(EnvMaxConns, 0)),
	})
	if err != nil {
		log.Debug("Snapshot store connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to snapshot store: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate snapshot store: %w", err)
	}

	log.Debug("Snapshot store ready")
	return st, nil
}
