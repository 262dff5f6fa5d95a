package sqlstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/waterlab/sensorlog/internal/database"
	"github.com/waterlab/sensorlog/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// BaseRepo holds the shared pool and the driver-neutral query helpers.
// Queries are written with "?" bindvars and rebound for the active driver.
// The helpers return driver errors as-is; callers wrap them once.
type BaseRepo struct {
	db database.DB
}

func (r *BaseRepo) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db := r.db.GetDB()
	return db.ExecContext(ctx, db.Rebind(query), args...)
}

func (r *BaseRepo) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	db := r.db.GetDB()
	return db.QueryxContext(ctx, db.Rebind(query), args...)
}

func (r *BaseRepo) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	db := r.db.GetDB()
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}

func (r *BaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func closeRows(rows *sqlx.Rows, what string) {
	if err := rows.Close(); err != nil {
		nuts.L.Errorf("[SQLStore] close %s rows: %v", what, err)
	}
}
