package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/database/common"
	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS CLASSES (
	ID INT AUTO_INCREMENT PRIMARY KEY,
	NAME VARCHAR(255)
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS OBJECTS (
	ID INT AUTO_INCREMENT PRIMARY KEY,
	NAME VARCHAR(255),
	VALUE DECIMAL(10,2),
	DATETIME DATETIME,
	CLASS_ID INT,
	FOREIGN KEY (CLASS_ID) REFERENCES CLASSES(ID)
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS ITEMS (
	ID INT AUTO_INCREMENT PRIMARY KEY,
	NAME VARCHAR(255),
	VALUE DECIMAL(10,2),
	DATETIME DATETIME
) ENGINE=InnoDB;

CREATE TABLE IF NOT EXISTS OBJECT_ITEM_LINK (
	OBJECT_ID INT,
	ITEM_ID INT,
	FOREIGN KEY (OBJECT_ID) REFERENCES OBJECTS(ID),
	FOREIGN KEY (ITEM_ID) REFERENCES ITEMS(ID)
) ENGINE=InnoDB;
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

func (m *Adapter) Connect(ctx context.Context, url string) error {
	dsn, err := ToDSN(url)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.DB = db
	return nil
}

func (m *Adapter) ApplySchema(ctx context.Context) error {
	return m.ExecScript(ctx, schemaSQL)
}

// ToDSN accepts either a driver DSN or a mysql:// URL and returns a DSN with
// parseTime enabled so DATETIME columns scan into time.Time.
func ToDSN(url string) (string, error) {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = strings.TrimPrefix(url, "mysql://")

		atIndex := strings.LastIndex(dsn, "@")
		if atIndex > 0 {
			credentials := dsn[:atIndex]
			remainder := dsn[atIndex+1:]

			slashIndex := strings.Index(remainder, "/")
			if slashIndex > 0 {
				hostPort := remainder[:slashIndex]
				dbAndParams := remainder[slashIndex+1:]

				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=REQUIRED", "tls=skip-verify")
				dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=DISABLED", "tls=false")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=require", "tls=skip-verify")
				dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=disable", "tls=false")

				dsn = fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
			}
		}
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}
