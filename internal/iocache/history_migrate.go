package iocache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/mindscore/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult describes what a migration run did.
type MigrationResult struct {
	FromVersion uint
	ToVersion   uint
	Changed     bool
}

// newMigrator builds a migrate instance over an open database. The release
// func frees migrate's resources without closing db.
func newMigrator(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, func(), error) {
	var driver database.Driver
	release := func() {}

	switch backend {
	case schema.SQLiteBackend:
		// The SQLite driver closes the *sql.DB on Close, so it is never closed here.
		d, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}
		driver = d

	case schema.MySQLBackend:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reserve MySQL connection: %w", err)
		}
		d, err := mysql.WithConnection(ctx, conn, &mysql.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}
		driver = d
		release = func() { _ = d.Close() }

	case schema.PostgreSQLBackend:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reserve PostgreSQL connection: %w", err)
		}
		d, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}
		driver = d
		release = func() { _ = d.Close() }

	default:
		return nil, nil, fmt.Errorf("migrations are not supported for backend %q", backend)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "mindscore", driver)
	if err != nil {
		_ = sourceDriver.Close()
		release()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, func() {
		_ = sourceDriver.Close()
		release()
	}, nil
}

// migrateDB moves the schema of db to targetVersion.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func migrateDB(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend, targetVersion int) (MigrationResult, error) {
	var result MigrationResult

	m, release, err := newMigrator(ctx, db, backend)
	if err != nil {
		return result, err
	}
	defer release()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", current)
	}
	result.FromVersion = current

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}
	result.Changed = err == nil

	newVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to read migrated version: %w", err)
	}
	result.ToVersion = newVersion
	return result, nil
}

// MigrateHistory runs database migrations for the history store.
// See migrateDB for the meaning of targetVersion.
func MigrateHistory(ctx context.Context, backend schema.DatabaseBackend, connStr string, targetVersion int) (MigrationResult, error) {
	if backend == schema.NoneBackend {
		return MigrationResult{}, fmt.Errorf("migrations are not supported for the none backend")
	}
	db, err := openDB(ctx, backend, connStr)
	if err != nil {
		return MigrationResult{}, err
	}
	defer func() { _ = db.Close() }()

	return migrateDB(ctx, db, backend, targetVersion)
}
