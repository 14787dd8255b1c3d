package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"accounts/config"
	"accounts/internal/infra/persistence/migrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a private in-memory SQLite database migrated with the production goose files.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	db = configureSession(db, newDiscardLogger(), nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(context.Background(), sqlDB, migrations.DialectSQLite))

	return db
}

// readTracker records, per executed query, whether it was pinned to the primary.
type readTracker struct {
	pinned []bool
}

func (r *readTracker) reset() {
	r.pinned = nil
}

func trackPrimaryReads(t *testing.T, db *gorm.DB) *readTracker {
	t.Helper()

	tracker := &readTracker{}
	err := db.Callback().Query().Before("gorm:query").Register("test:track_primary_reads", func(tx *gorm.DB) {
		_, pinned := tx.Statement.Settings.Load("gorm:db_resolver:write")
		tracker.pinned = append(tracker.pinned, pinned)
	})
	require.NoError(t, err)

	return tracker
}

func TestOpen_RequiresPostgresConfig(t *testing.T) {
	_, err := Open(&config.Config{}, newDiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres config is missing")
}
