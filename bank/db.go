// Package bank owns the account ledger: a Postgres store for the real
// deployment and an in-memory twin for tests, the REPL and demo mode.
// Business outcomes of a transfer travel as marker strings, transport
// problems as errors.
package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" default:"postgres://postgres:@localhost:5432/bankbot?sslmode=disable"`
}

// Open connects to Postgres and verifies the connection. The returned DB is
// shared between the bank store and the interaction recorder.
func Open(ctx context.Context, cfg *Config) (*bun.DB, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, errors.New("database dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
