package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS CLASSES (
	ID SERIAL PRIMARY KEY,
	NAME TEXT
);

CREATE TABLE IF NOT EXISTS OBJECTS (
	ID SERIAL PRIMARY KEY,
	NAME TEXT,
	VALUE NUMERIC(10,2),
	DATETIME TIMESTAMP,
	CLASS_ID INTEGER REFERENCES CLASSES(ID)
);

CREATE TABLE IF NOT EXISTS ITEMS (
	ID SERIAL PRIMARY KEY,
	NAME TEXT,
	VALUE NUMERIC(10,2),
	DATETIME TIMESTAMP
);

CREATE TABLE IF NOT EXISTS OBJECT_ITEM_LINK (
	OBJECT_ID INTEGER REFERENCES OBJECTS(ID),
	ITEM_ID INTEGER REFERENCES ITEMS(ID)
);
`

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	// One connection: the whole seeding run happens on it.
	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) Begin(ctx context.Context) (common.SeedTx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, qb: p.qb}, nil
}

func (p *Adapter) ApplySchema(ctx context.Context) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range common.SplitStatements(schemaSQL) {
		common.LogQuery(stmt, nil)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement '%s': %w", stmt, describe(err))
		}
	}

	return tx.Commit(ctx)
}

func (p *Adapter) ClearTables(ctx context.Context) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range types.DeleteOrder {
		query, args, err := p.qb.Delete(table).ToSql()
		if err != nil {
			return err
		}
		common.LogQuery(query, args)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, describe(err))
		}
	}

	return tx.Commit(ctx)
}

func (p *Adapter) GetStats(ctx context.Context) (*types.TableStats, error) {
	return common.CollectStats(ctx, func(ctx context.Context, query string, args ...any) common.Row {
		return p.pool.QueryRow(ctx, query, args...)
	})
}

func (p *Adapter) ListClassIDs(ctx context.Context) ([]int64, error) {
	query, args, err := common.SelectClassIDs(p.qb).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	return common.ScanIDs(rows)
}

func (p *Adapter) ReadClass(ctx context.Context, classID int64) (*types.ClassTree, error) {
	query, args, err := common.SelectClassTree(p.qb, classID).ToSql()
	if err != nil {
		return nil, err
	}
	common.LogQuery(query, args)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read class %d: %w", classID, err)
	}
	defer rows.Close()

	return common.ScanClassTree(rows)
}

// Tx is a SeedTx over a pgx transaction. Inserts use RETURNING ID.
type Tx struct {
	tx pgx.Tx
	qb squirrel.StatementBuilderType
}

func (t *Tx) InsertClass(ctx context.Context, class types.ClassRecord) (int64, error) {
	return t.insert(ctx, common.InsertClass(t.qb, class))
}

func (t *Tx) InsertObject(ctx context.Context, object types.ObjectRecord) (int64, error) {
	return t.insert(ctx, common.InsertObject(t.qb, object))
}

func (t *Tx) InsertItem(ctx context.Context, item types.ItemRecord) (int64, error) {
	return t.insert(ctx, common.InsertItem(t.qb, item))
}

func (t *Tx) LinkObjectItem(ctx context.Context, link types.ObjectItemLink) error {
	query, args, err := common.InsertLink(t.qb, link).ToSql()
	if err != nil {
		return err
	}
	common.LogQuery(query, args)
	if _, err := t.tx.Exec(ctx, query, args...); err != nil {
		return describe(err)
	}
	return nil
}

func (t *Tx) Commit(ctx context.Context) error {
	return describe(t.tx.Commit(ctx))
}

// Rollback is a no-op on a transaction that already finished.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (t *Tx) insert(ctx context.Context, b squirrel.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING ID").ToSql()
	if err != nil {
		return 0, err
	}
	common.LogQuery(query, args)

	var id int64
	if err := t.tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, describe(err)
	}
	return id, nil
}

// describe adds the server-side detail and constraint of a PostgreSQL error
// to its message.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Detail == "" && pgErr.ConstraintName == "" {
		return err
	}
	return fmt.Errorf("%w (detail: %s, constraint: %s)", err, pgErr.Detail, pgErr.ConstraintName)
}
