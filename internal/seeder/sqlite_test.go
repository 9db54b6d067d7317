package seeder_test

import (
	"context"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/objseed/internal/testhelpers"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSQLite(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	report, err := seeder.New(adapter, seeder.WithGenerator(seeder.NewDataGenerator(1))).Seed(ctx)
	require.NoError(t, err)

	stats, err := adapter.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, report.Counts, stats.Counts)
	assert.Equal(t, int64(10), stats.Counts.Classes)
	assert.GreaterOrEqual(t, stats.Counts.Objects, int64(10))
	assert.LessOrEqual(t, stats.Counts.Objects, int64(100))
	assert.Equal(t, stats.Counts.Items, stats.Counts.Links)
	assert.Zero(t, stats.SharedItems)
	assert.Empty(t, seeder.Check(stats, seeder.DefaultPlan()))
}

func TestSeedSQLiteReadBack(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)
	now := time.Now().UTC().Truncate(time.Second)

	report, err := seeder.New(adapter,
		seeder.WithGenerator(seeder.NewDataGenerator(2)),
		seeder.WithClock(func() time.Time { return now }),
	).Seed(ctx)
	require.NoError(t, err)

	ids, err := adapter.ListClassIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, len(report.Classes))

	for i, class := range report.Classes {
		assert.Equal(t, class.ID, ids[i])

		tree, err := adapter.ReadClass(ctx, class.ID)
		require.NoError(t, err)
		assert.Equal(t, class.ID, tree.ID)
		require.Len(t, tree.Objects, len(class.Objects))

		for j, object := range class.Objects {
			got := tree.Objects[j]
			assert.Equal(t, object.ID, got.ID)
			require.NotNil(t, got.DateTime)
			assert.False(t, got.DateTime.After(now))

			itemIDs := make([]int64, 0, len(got.Items))
			for _, item := range got.Items {
				itemIDs = append(itemIDs, item.ID)
				assert.GreaterOrEqual(t, item.Value, seeder.MinValue)
				assert.LessOrEqual(t, item.Value, seeder.MaxValue)
			}
			assert.Equal(t, object.ItemIDs, itemIDs)
		}
	}
}

func TestSeedSQLiteRunsAreDisjoint(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	first, err := seeder.New(adapter).Seed(ctx)
	require.NoError(t, err)
	second, err := seeder.New(adapter).Seed(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	seen := make(map[int64]bool)
	for _, class := range first.Classes {
		for _, object := range class.Objects {
			for _, id := range object.ItemIDs {
				seen[id] = true
			}
		}
	}
	for _, class := range second.Classes {
		for _, object := range class.Objects {
			for _, id := range object.ItemIDs {
				assert.False(t, seen[id], "item %d reused across runs", id)
			}
		}
	}

	stats, err := adapter.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.Counts.Classes)
	assert.Empty(t, seeder.Check(stats, seeder.DefaultPlan()))
}

func TestSeedSQLiteRollsBack(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, false)

	// No link table: the run fails on its first link insert.
	require.NoError(t, adapter.ExecScript(ctx, `
		CREATE TABLE CLASSES (ID INTEGER PRIMARY KEY AUTOINCREMENT, NAME TEXT);
		CREATE TABLE OBJECTS (ID INTEGER PRIMARY KEY AUTOINCREMENT, NAME TEXT, VALUE NUMERIC, DATETIME DATETIME, CLASS_ID INTEGER);
		CREATE TABLE ITEMS (ID INTEGER PRIMARY KEY AUTOINCREMENT, NAME TEXT, VALUE NUMERIC, DATETIME DATETIME);
	`))

	_, err := seeder.New(adapter).Seed(ctx)
	require.Error(t, err)

	var seedErr *seeder.Error
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, seeder.StageInsert, seedErr.Stage)
	assert.Equal(t, types.TableObjectItemLink, seedErr.Table)
	assert.Nil(t, seedErr.RollbackErr)

	for _, table := range []string{types.TableClasses, types.TableObjects, types.TableItems} {
		var n int
		require.NoError(t, adapter.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, "%s should be empty after rollback", table)
	}
}
