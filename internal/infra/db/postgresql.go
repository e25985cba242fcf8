// Package db manages the engine's PostgreSQL connection.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/engine/config"
)

// Database wraps the gorm connection the repositories run on.
type Database struct {
	conn *gorm.DB
}

// NewPostgresConnection opens the connection, sizes the pool from the config
// and verifies the server answers before the engine starts ticking.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pool, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	d := &Database{conn: conn}
	if err := d.ping(5 * time.Second); err != nil {
		return nil, err
	}

	slog.Info("Database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return d, nil
}

// DB returns the underlying gorm handle.
func (d *Database) DB() *gorm.DB {
	return d.conn
}

// HealthCheck reports whether the database still answers a ping. The
// scheduler consults it after a failed tick to tell a store outage apart from
// a rule-level failure.
func (d *Database) HealthCheck() bool {
	if err := d.ping(2 * time.Second); err != nil {
		slog.Error("Database health check failed", "error", err)
		return false
	}
	return true
}

// Close closes the connection pool.
func (d *Database) Close() error {
	pool, err := d.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := pool.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed")
	return nil
}

// AutoMigrate runs gorm auto-migration for the engine's models.
func (d *Database) AutoMigrate(models ...interface{}) error {
	if err := d.conn.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

func (d *Database) ping(timeout time.Duration) error {
	pool, err := d.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
