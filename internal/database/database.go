// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	nuts "github.com/vaudience/go-nuts"
	"github.com/waterlab/sensorlog/internal/config"
)

// DB is the connection pool shared by all repositories
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

type sqlDB struct {
	db *sqlx.DB
}

// Wrap adapts an already opened pool
func Wrap(db *sqlx.DB) DB {
	return &sqlDB{db: db}
}

// NewDB opens the database selected by cfg.Driver
func NewDB(cfg config.DatabaseConfig) (DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresDB(cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &sqlDB{db: db}, nil
}

// NewSQLiteDB opens (and creates if needed) a SQLite database file
func NewSQLiteDB(cfg config.SQLiteConfig) (DB, error) {
	db, err := sqlx.Connect(config.DriverSQLite, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening SQLite database: %w", err)
	}
	// sqlite serialises writers; a single connection also keeps ":memory:" on one database
	db.SetMaxOpenConns(1)

	nuts.L.Infof("[SQLiteDB] Opened %s", cfg.Path)
	return &sqlDB{db: db}, nil
}

func (d *sqlDB) Close() error {
	return d.db.Close()
}

func (d *sqlDB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *sqlDB) GetDB() *sqlx.DB {
	return d.db
}
