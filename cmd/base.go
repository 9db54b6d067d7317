package cmd

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/objseed/internal/config"
	"github.com/Lumos-Labs-HQ/objseed/internal/database"
	"github.com/rs/zerolog/log"
)

// connect loads the configuration and opens a verified connection to the
// configured store. Callers own the returned adapter and must Close it.
func connect(ctx context.Context) (database.DatabaseAdapter, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, nil, err
	}

	log.Debug().
		Str("provider", cfg.Database.Provider).
		Str("target", cfg.Redacted(dbURL)).
		Msg("connecting")

	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, nil, err
	}
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return adapter, cfg, nil
}
