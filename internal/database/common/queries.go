package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"
)

var ErrClassNotFound = errors.New("class not found")

// SeedTx is one open store transaction. Every insert returns the id the
// store generated for the new row.
type SeedTx interface {
	InsertClass(ctx context.Context, class types.ClassRecord) (int64, error)
	InsertObject(ctx context.Context, object types.ObjectRecord) (int64, error)
	InsertItem(ctx context.Context, item types.ItemRecord) (int64, error)
	LinkObjectItem(ctx context.Context, link types.ObjectItemLink) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Row and Rows are the subset shared by database/sql and pgx results.
type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type RowFunc func(ctx context.Context, query string, args ...any) Row

func InsertClass(qb squirrel.StatementBuilderType, class types.ClassRecord) squirrel.InsertBuilder {
	return qb.Insert(types.TableClasses).
		Columns("NAME").
		Values(class.Name)
}

func InsertObject(qb squirrel.StatementBuilderType, object types.ObjectRecord) squirrel.InsertBuilder {
	return qb.Insert(types.TableObjects).
		Columns("NAME", "VALUE", "DATETIME", "CLASS_ID").
		Values(object.Name, object.Value, object.DateTime, object.ClassID)
}

func InsertItem(qb squirrel.StatementBuilderType, item types.ItemRecord) squirrel.InsertBuilder {
	return qb.Insert(types.TableItems).
		Columns("NAME", "VALUE", "DATETIME").
		Values(item.Name, item.Value, item.DateTime)
}

func InsertLink(qb squirrel.StatementBuilderType, link types.ObjectItemLink) squirrel.InsertBuilder {
	return qb.Insert(types.TableObjectItemLink).
		Columns("OBJECT_ID", "ITEM_ID").
		Values(link.ObjectID, link.ItemID)
}

func SelectClassIDs(qb squirrel.StatementBuilderType) squirrel.SelectBuilder {
	return qb.Select("ID").From(types.TableClasses).OrderBy("ID")
}

// SelectClassTree loads a class, its objects and their linked items in one
// query. LEFT JOINs keep a class without objects (and an object without
// items) in the result.
func SelectClassTree(qb squirrel.StatementBuilderType, classID int64) squirrel.SelectBuilder {
	return qb.Select(
		"c.ID", "c.NAME",
		"o.ID", "o.NAME", "o.DATETIME", "o.VALUE",
		"i.ID", "i.NAME", "i.DATETIME", "i.VALUE",
	).
		From(types.TableClasses + " c").
		LeftJoin(types.TableObjects + " o ON c.ID = o.CLASS_ID").
		LeftJoin(types.TableObjectItemLink + " l ON o.ID = l.OBJECT_ID").
		LeftJoin(types.TableItems + " i ON i.ID = l.ITEM_ID").
		Where(squirrel.Eq{"c.ID": classID}).
		OrderBy("o.ID", "i.ID")
}

// ScanClassTree folds the rows of SelectClassTree into a ClassTree, keeping
// objects in id order.
func ScanClassTree(rows Rows) (*types.ClassTree, error) {
	var class *types.ClassTree
	index := make(map[int64]int)

	for rows.Next() {
		var (
			cID                  int64
			cName                string
			oID, iID             *int64
			oName, iName         *string
			oDateTime, iDateTime *time.Time
			oValue, iValue       *float64
		)
		if err := rows.Scan(&cID, &cName, &oID, &oName, &oDateTime, &oValue, &iID, &iName, &iDateTime, &iValue); err != nil {
			return nil, fmt.Errorf("failed to scan class row: %w", err)
		}

		if class == nil {
			class = &types.ClassTree{ID: cID, Name: cName}
		}
		if oID == nil {
			continue
		}

		pos, ok := index[*oID]
		if !ok {
			class.Objects = append(class.Objects, types.ObjectTree{
				ID:       *oID,
				Name:     deref(oName),
				Value:    deref(oValue),
				DateTime: oDateTime,
			})
			pos = len(class.Objects) - 1
			index[*oID] = pos
		}

		if iID != nil {
			item := types.ItemRecord{ID: *iID, Name: deref(iName), Value: deref(iValue)}
			if iDateTime != nil {
				item.DateTime = *iDateTime
			}
			class.Objects[pos].Items = append(class.Objects[pos].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	if class == nil {
		return nil, ErrClassNotFound
	}
	return class, nil
}

func ScanIDs(rows Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}

const (
	countsQuery = `SELECT
		(SELECT COUNT(*) FROM CLASSES),
		(SELECT COUNT(*) FROM OBJECTS),
		(SELECT COUNT(*) FROM ITEMS),
		(SELECT COUNT(*) FROM OBJECT_ITEM_LINK)`

	objectsPerClassQuery = `SELECT MIN(n), MAX(n) FROM (
		SELECT COUNT(o.ID) AS n
		FROM CLASSES c LEFT JOIN OBJECTS o ON o.CLASS_ID = c.ID
		GROUP BY c.ID
	) per_class`

	itemsPerObjectQuery = `SELECT MIN(n), MAX(n) FROM (
		SELECT COUNT(l.ITEM_ID) AS n
		FROM OBJECTS o LEFT JOIN OBJECT_ITEM_LINK l ON l.OBJECT_ID = o.ID
		GROUP BY o.ID
	) per_object`

	sharedItemsQuery = `SELECT COUNT(*) FROM (
		SELECT ITEM_ID FROM OBJECT_ITEM_LINK
		GROUP BY ITEM_ID
		HAVING COUNT(*) > 1
	) shared`
)

// CollectStats runs the status queries through queryRow. The queries are
// plain SQL understood by every supported provider.
func CollectStats(ctx context.Context, queryRow RowFunc) (*types.TableStats, error) {
	stats := &types.TableStats{}

	c := &stats.Counts
	if err := queryRow(ctx, countsQuery).Scan(&c.Classes, &c.Objects, &c.Items, &c.Links); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	var err error
	if stats.ObjectsPerClass, err = scanRange(ctx, queryRow, objectsPerClassQuery); err != nil {
		return nil, fmt.Errorf("failed to measure objects per class: %w", err)
	}
	if stats.ItemsPerObject, err = scanRange(ctx, queryRow, itemsPerObjectQuery); err != nil {
		return nil, fmt.Errorf("failed to measure items per object: %w", err)
	}
	if err := queryRow(ctx, sharedItemsQuery).Scan(&stats.SharedItems); err != nil {
		return nil, fmt.Errorf("failed to count shared items: %w", err)
	}

	return stats, nil
}

func scanRange(ctx context.Context, queryRow RowFunc, query string) (types.Range, error) {
	var lo, hi *int64
	if err := queryRow(ctx, query).Scan(&lo, &hi); err != nil {
		return types.Range{}, err
	}
	if lo == nil || hi == nil {
		return types.Range{Empty: true}, nil
	}
	return types.Range{Min: int(*lo), Max: int(*hi)}, nil
}

// LogQuery writes a statement and its arguments at debug level.
func LogQuery(query string, args []any) {
	log.Debug().Str("query", query).Interface("args", args).Msg("exec")
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
