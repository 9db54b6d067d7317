package common

import (
	"errors"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertBuilders(t *testing.T) {
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := InsertObject(qb, types.ObjectRecord{Name: "Object_1", Value: 12.5, DateTime: at, ClassID: 4}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO OBJECTS (NAME,VALUE,DATETIME,CLASS_ID) VALUES ($1,$2,$3,$4)", query)
	assert.Equal(t, []any{"Object_1", 12.5, at, int64(4)}, args)

	query, args, err = InsertLink(qb.PlaceholderFormat(squirrel.Question), types.ObjectItemLink{ObjectID: 1, ItemID: 2}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO OBJECT_ITEM_LINK (OBJECT_ID,ITEM_ID) VALUES (?,?)", query)
	assert.Equal(t, []any{int64(1), int64(2)}, args)
}

func TestSelectClassTree(t *testing.T) {
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := SelectClassTree(qb, 7).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM CLASSES c LEFT JOIN OBJECTS o ON c.ID = o.CLASS_ID")
	assert.Contains(t, query, "WHERE c.ID = $1")
	assert.Contains(t, query, "ORDER BY o.ID, i.ID")
	assert.Equal(t, []any{int64(7)}, args)
}

// fakeRows replays fixed rows through Scan.
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		case **int64:
			if row[i] != nil {
				v := row[i].(int64)
				*p = &v
			}
		case **string:
			if row[i] != nil {
				v := row[i].(string)
				*p = &v
			}
		case **float64:
			if row[i] != nil {
				v := row[i].(float64)
				*p = &v
			}
		case **time.Time:
			if row[i] != nil {
				v := row[i].(time.Time)
				*p = &v
			}
		}
	}
	return nil
}

func (r *fakeRows) Err() error {
	return r.err
}

func TestScanClassTree(t *testing.T) {
	at := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{
		{int64(1), "Class_1", int64(10), "Object_1", at, 20.5, int64(100), "Item_1", at, 11.0},
		{int64(1), "Class_1", int64(10), "Object_1", at, 20.5, int64(101), "Item_2", at, 12.0},
		{int64(1), "Class_1", int64(11), "Object_2", at, 30.0, nil, nil, nil, nil},
	}}

	tree, err := ScanClassTree(rows)
	require.NoError(t, err)

	assert.Equal(t, int64(1), tree.ID)
	assert.Equal(t, "Class_1", tree.Name)
	require.Len(t, tree.Objects, 2)
	assert.Equal(t, int64(10), tree.Objects[0].ID)
	require.Len(t, tree.Objects[0].Items, 2)
	assert.Equal(t, "Item_2", tree.Objects[0].Items[1].Name)
	assert.Equal(t, 12.0, tree.Objects[0].Items[1].Value)
	assert.Equal(t, int64(11), tree.Objects[1].ID)
	assert.Empty(t, tree.Objects[1].Items)
}

func TestScanClassTreeClassWithoutObjects(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		{int64(3), "Class_3", nil, nil, nil, nil, nil, nil, nil, nil},
	}}

	tree, err := ScanClassTree(rows)
	require.NoError(t, err)
	assert.Equal(t, int64(3), tree.ID)
	assert.Empty(t, tree.Objects)
}

func TestScanClassTreeNotFound(t *testing.T) {
	_, err := ScanClassTree(&fakeRows{})
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestScanIDsPropagatesIterationError(t *testing.T) {
	_, err := ScanIDs(&fakeRows{err: errors.New("conn reset")})
	assert.ErrorContains(t, err, "conn reset")
}
