// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"accounts/internal/errors"

	"github.com/pressly/goose/v3"
)

// Goose dialects used by this service.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

//go:embed *.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func setup(dialect string) error {
	goose.SetBaseFS(Migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrapf(err, "goose.SetDialect(%s)", dialect)
	}

	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(dialect); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "goose up")
	}

	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, dialect string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(dialect); err != nil {
		return err
	}

	if err := goose.DownContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "goose down")
	}

	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(dialect); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, errors.Wrap(err, "goose version")
	}

	return version, nil
}
