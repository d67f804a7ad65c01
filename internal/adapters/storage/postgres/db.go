package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx (database/sql) y verifica la conexión.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("open postgres: empty DSN (DB_DSN)")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS health_records (
	seq            BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	age            INTEGER NULL,
	weight         DOUBLE PRECISION NULL,
	height         DOUBLE PRECISION NULL,
	blood_pressure TEXT NULL,
	notes          TEXT NULL
)`

// EnsureSchema crea la tabla si no existe. No hay migraciones.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure postgres schema: %w", err)
	}
	return nil
}
