// Package mysql es el backend MySQL del Record Store (una fila por registro).
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

// Open conecta a MySQL y verifica la conexión.
// El DSN se valida antes de abrir para que un typo no termine en un ping con timeout.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("open mysql: empty DSN (MYSQL_DSN)")
	}

	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}

	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS health_records (
	seq            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	age            INT NULL,
	weight         DOUBLE NULL,
	height         DOUBLE NULL,
	blood_pressure TEXT NULL,
	notes          TEXT NULL
) DEFAULT CHARSET=utf8mb4`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure mysql schema: %w", err)
	}
	return nil
}
