package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported driver names.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// Config configures the connection pool.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

// DB is a connection pool with a per-query timeout.
type DB struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens a pool and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	switch cfg.Driver {
	case DriverPgx, DriverPQ:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := New(sqlDB, cfg.QueryTimeout)
	if err := db.Ping(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// New wraps an existing pool.
func New(db *sql.DB, queryTimeout time.Duration) *DB {
	return &DB{db: db, queryTimeout: queryTimeout}
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Stats returns pool statistics.
func (d *DB) Stats() sql.DBStats {
	return d.db.Stats()
}

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}
