package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/waterlab/sensorlog/internal/config"
)

func TestNewDB_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.db")
	db, err := NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Fatalf("close db: %v", closeErr)
		}
	}()

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got := db.GetDB().DriverName(); got != config.DriverSQLite {
		t.Fatalf("DriverName = %q, want %q", got, config.DriverSQLite)
	}
}

func TestNewDB_UnknownDriver(t *testing.T) {
	if _, err := NewDB(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("NewDB accepted an unknown driver")
	}
}
