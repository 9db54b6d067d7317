package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS CLASSES (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	NAME TEXT
);

CREATE TABLE IF NOT EXISTS OBJECTS (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	NAME TEXT,
	VALUE NUMERIC,
	DATETIME DATETIME,
	CLASS_ID INTEGER REFERENCES CLASSES(ID)
);

CREATE TABLE IF NOT EXISTS ITEMS (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	NAME TEXT,
	VALUE NUMERIC,
	DATETIME DATETIME
);

CREATE TABLE IF NOT EXISTS OBJECT_ITEM_LINK (
	OBJECT_ID INTEGER REFERENCES OBJECTS(ID),
	ITEM_ID INTEGER REFERENCES ITEMS(ID)
);
`

type Adapter struct {
	common.SQLStore
}

func New() *Adapter {
	return &Adapter{
		SQLStore: common.SQLStore{
			QB: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		},
	}
}

// defaultParams are added to every DSN unless the caller set the same
// option under any of its names.
var defaultParams = []struct {
	names []string
	value string
}{
	{names: []string{"_journal_mode", "_journal"}, value: "WAL"},
	{names: []string{"_foreign_keys", "_fk"}, value: "on"},
	{names: []string{"_busy_timeout", "_timeout"}, value: "5000"},
}

// DSN turns a path or sqlite:// URL into a go-sqlite3 DSN with foreign keys,
// WAL and a busy timeout enabled.
func DSN(dbURL string) (string, error) {
	path, rawQuery, _ := strings.Cut(strings.TrimPrefix(dbURL, "sqlite://"), "?")

	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid SQLite connection parameters: %w", err)
	}

	for _, p := range defaultParams {
		set := false
		for _, name := range p.names {
			if params.Has(name) {
				set = true
				break
			}
		}
		if !set {
			params.Set(p.names[0], p.value)
		}
	}

	return path + "?" + params.Encode(), nil
}

func (s *Adapter) Connect(ctx context.Context, dbURL string) error {
	dbPath, err := DSN(dbURL)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// One connection: the whole seeding run happens on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.DB = db
	return nil
}

func (s *Adapter) ApplySchema(ctx context.Context) error {
	return s.ExecScript(ctx, schemaSQL)
}
