package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/Masterminds/squirrel"
)

// SQLStore implements the provider-neutral operations for database/sql
// drivers that report generated keys through LastInsertId.
type SQLStore struct {
	DB *sql.DB
	QB squirrel.StatementBuilderType
}

func (s *SQLStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Begin(ctx context.Context) (SeedTx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &SQLTx{tx: tx, qb: s.QB}, nil
}

// ExecScript runs every statement of script inside one transaction.
func (s *SQLStore) ExecScript(ctx context.Context, script string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range SplitStatements(script) {
		LogQuery(stmt, nil)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement '%s': %w", stmt, err)
		}
	}

	return tx.Commit()
}

func (s *SQLStore) ClearTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range types.DeleteOrder {
		query, args, err := s.QB.Delete(table).ToSql()
		if err != nil {
			return err
		}
		LogQuery(query, args)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func (s *SQLStore) GetStats(ctx context.Context) (*types.TableStats, error) {
	return CollectStats(ctx, func(ctx context.Context, query string, args ...any) Row {
		return s.DB.QueryRowContext(ctx, query, args...)
	})
}

func (s *SQLStore) ListClassIDs(ctx context.Context) ([]int64, error) {
	query, args, err := SelectClassIDs(s.QB).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	return ScanIDs(rows)
}

func (s *SQLStore) ReadClass(ctx context.Context, classID int64) (*types.ClassTree, error) {
	query, args, err := SelectClassTree(s.QB, classID).ToSql()
	if err != nil {
		return nil, err
	}
	LogQuery(query, args)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read class %d: %w", classID, err)
	}
	defer rows.Close()

	return ScanClassTree(rows)
}

// SQLTx is a SeedTx over *sql.Tx.
type SQLTx struct {
	tx *sql.Tx
	qb squirrel.StatementBuilderType
}

func (t *SQLTx) InsertClass(ctx context.Context, class types.ClassRecord) (int64, error) {
	return t.insert(ctx, InsertClass(t.qb, class))
}

func (t *SQLTx) InsertObject(ctx context.Context, object types.ObjectRecord) (int64, error) {
	return t.insert(ctx, InsertObject(t.qb, object))
}

func (t *SQLTx) InsertItem(ctx context.Context, item types.ItemRecord) (int64, error) {
	return t.insert(ctx, InsertItem(t.qb, item))
}

func (t *SQLTx) LinkObjectItem(ctx context.Context, link types.ObjectItemLink) error {
	_, err := t.exec(ctx, InsertLink(t.qb, link))
	return err
}

func (t *SQLTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

// Rollback is a no-op on a transaction that already finished.
func (t *SQLTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (t *SQLTx) insert(ctx context.Context, b squirrel.InsertBuilder) (int64, error) {
	res, err := t.exec(ctx, b)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	return id, nil
}

func (t *SQLTx) exec(ctx context.Context, b squirrel.InsertBuilder) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	LogQuery(query, args)
	return t.tx.ExecContext(ctx, query, args...)
}
