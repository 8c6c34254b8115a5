package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"helpmarket/internal/db/migrations"
	"helpmarket/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect opens a pgx pool and verifies the server is reachable
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, errors.New("postgres connection string is empty")
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrator applies the embedded goose migrations
type Migrator struct {
	db *sql.DB
}

// NewMigrator wraps the pool in a database/sql handle for goose
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	utils.Info("database migrated", map[string]any{"version": version})
	return nil
}

// Close releases the database/sql handle but leaves the pool open
func (m *Migrator) Close() error {
	return m.db.Close()
}
