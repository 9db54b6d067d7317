package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
)

type SeedTx = common.SeedTx

// Store is what the seeder needs from a database.
type Store interface {
	Begin(ctx context.Context) (SeedTx, error)
}

type DatabaseAdapter interface {
	Store

	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema operations
	ApplySchema(ctx context.Context) error
	ClearTables(ctx context.Context) error

	// Read-back
	GetStats(ctx context.Context) (*types.TableStats, error)
	ListClassIDs(ctx context.Context) ([]int64, error)
	ReadClass(ctx context.Context, classID int64) (*types.ClassTree, error)
}
