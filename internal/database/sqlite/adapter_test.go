package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/objseed/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/objseed/internal/testhelpers"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySchemaIsIdempotent(t *testing.T) {
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	require.NoError(t, adapter.ApplySchema(context.Background()))
	require.NoError(t, adapter.Ping(context.Background()))
}

func TestInsertAndReadClass(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)
	at := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)

	classID, err := tx.InsertClass(ctx, types.ClassRecord{Name: "Class_1"})
	require.NoError(t, err)
	objectID, err := tx.InsertObject(ctx, types.ObjectRecord{Name: "Object_1", Value: 42.25, DateTime: at, ClassID: classID})
	require.NoError(t, err)
	emptyID, err := tx.InsertObject(ctx, types.ObjectRecord{Name: "Object_2", Value: 10, DateTime: at, ClassID: classID})
	require.NoError(t, err)
	itemID, err := tx.InsertItem(ctx, types.ItemRecord{Name: "Item_1", Value: 99.99, DateTime: at})
	require.NoError(t, err)
	require.NoError(t, tx.LinkObjectItem(ctx, types.ObjectItemLink{ObjectID: objectID, ItemID: itemID}))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	tree, err := adapter.ReadClass(ctx, classID)
	require.NoError(t, err)

	assert.Equal(t, "Class_1", tree.Name)
	require.Len(t, tree.Objects, 2)
	assert.Equal(t, objectID, tree.Objects[0].ID)
	assert.Equal(t, 42.25, tree.Objects[0].Value)
	require.NotNil(t, tree.Objects[0].DateTime)
	assert.True(t, at.Equal(*tree.Objects[0].DateTime))
	require.Len(t, tree.Objects[0].Items, 1)
	assert.Equal(t, itemID, tree.Objects[0].Items[0].ID)
	assert.Equal(t, 99.99, tree.Objects[0].Items[0].Value)
	assert.Equal(t, emptyID, tree.Objects[1].ID)
	assert.Empty(t, tree.Objects[1].Items)

	ids, err := adapter.ListClassIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{classID}, ids)
}

func TestReadClassNotFound(t *testing.T) {
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	_, err := adapter.ReadClass(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrClassNotFound)
}

func TestRollbackDiscardsInserts(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertClass(ctx, types.ClassRecord{Name: "Class_1"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	ids, err := adapter.ListClassIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetStatsAndClearTables(t *testing.T) {
	ctx := context.Background()
	adapter := testhelpers.NewSQLiteAdapter(t, true)

	stats, err := adapter.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.TableCounts{}, stats.Counts)
	assert.True(t, stats.ObjectsPerClass.Empty)
	assert.True(t, stats.ItemsPerObject.Empty)

	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)
	classID, err := tx.InsertClass(ctx, types.ClassRecord{Name: "Class_1"})
	require.NoError(t, err)
	var objectIDs []int64
	for i := 0; i < 2; i++ {
		id, err := tx.InsertObject(ctx, types.ObjectRecord{Name: "Object", ClassID: classID, DateTime: time.Now()})
		require.NoError(t, err)
		objectIDs = append(objectIDs, id)
	}
	for n, objectID := range objectIDs {
		for k := 0; k < n+2; k++ {
			itemID, err := tx.InsertItem(ctx, types.ItemRecord{Name: "Item", DateTime: time.Now()})
			require.NoError(t, err)
			require.NoError(t, tx.LinkObjectItem(ctx, types.ObjectItemLink{ObjectID: objectID, ItemID: itemID}))
		}
	}
	require.NoError(t, tx.Commit(ctx))

	stats, err = adapter.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.TableCounts{Classes: 1, Objects: 2, Items: 5, Links: 5}, stats.Counts)
	assert.Equal(t, types.Range{Min: 2, Max: 2}, stats.ObjectsPerClass)
	assert.Equal(t, types.Range{Min: 2, Max: 3}, stats.ItemsPerObject)
	assert.Zero(t, stats.SharedItems)

	require.NoError(t, adapter.ClearTables(ctx))

	stats, err = adapter.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.TableCounts{}, stats.Counts)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare path",
			input: "/tmp/seed.db",
			want:  "/tmp/seed.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL",
		},
		{
			name:  "url with other params",
			input: "sqlite:///tmp/seed.db?cache=shared",
			want:  "/tmp/seed.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&cache=shared",
		},
		{
			name:  "caller options kept",
			input: "seed.db?_fk=1&_journal=DELETE&_timeout=100",
			want:  "seed.db?_fk=1&_journal=DELETE&_timeout=100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlite.DSN(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForeignKeysEnforcedWithExtraParams(t *testing.T) {
	ctx := context.Background()

	for _, suffix := range []string{"", "?cache=shared"} {
		t.Run("suffix="+suffix, func(t *testing.T) {
			adapter := sqlite.New()
			require.NoError(t, adapter.Connect(ctx, filepath.Join(t.TempDir(), "objseed.db")+suffix))
			t.Cleanup(func() { _ = adapter.Close() })
			require.NoError(t, adapter.ApplySchema(ctx))

			tx, err := adapter.Begin(ctx)
			require.NoError(t, err)
			defer tx.Rollback(ctx)

			_, err = tx.InsertObject(ctx, types.ObjectRecord{Name: "Object_1", ClassID: 999, DateTime: time.Now()})
			assert.ErrorContains(t, err, "FOREIGN KEY constraint failed")
		})
	}
}
