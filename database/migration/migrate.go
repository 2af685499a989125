// Package migration applies versioned SQL migrations with golang-migrate.
//
// Migration files are read from an fs.FS (usually an embed.FS) and follow the
// VERSION_name.up.sql / VERSION_name.down.sql convention.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// DriverFunc creates a migrate database driver from the open pool.
type DriverFunc func(*sql.DB) (database.Driver, error)

// Postgres is the DriverFunc for PostgreSQL.
func Postgres(db *sql.DB) (database.Driver, error) {
	return migratepg.WithInstance(db, &migratepg.Config{})
}

// Source describes where migration files live.
type Source struct {
	FS   fs.FS
	Path string
}

// Up applies every pending migration. No pending migrations is not an error.
func Up(gormDB *gorm.DB, src Source, driver DriverFunc) error {
	m, err := newMigrator(gormDB, src, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back n migrations, or all of them when n <= 0.
func Down(gormDB *gorm.DB, src Source, driver DriverFunc, n int) error {
	m, err := newMigrator(gormDB, src, driver)
	if err != nil {
		return err
	}
	if n > 0 {
		err = m.Steps(-n)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the applied version and whether the schema is dirty.
// A database with no migrations applied reports version 0.
func Version(gormDB *gorm.DB, src Source, driver DriverFunc) (uint, bool, error) {
	m, err := newMigrator(gormDB, src, driver)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// newMigrator builds a migrator over the shared pool. Callers must not Close
// it: that would close the pool.
func newMigrator(gormDB *gorm.DB, src Source, driverFunc DriverFunc) (*migrate.Migrate, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := driverFunc(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}
	source, err := iofs.New(src.FS, src.Path)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "capsule", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
