package orders

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsCreateOrderTables(t *testing.T) {
	files, err := fs.Glob(migrations, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	sqlText := string(raw)
	require.True(t, strings.HasPrefix(sqlText, "-- +goose Up"))
	require.Contains(t, sqlText, "stripe_session_id TEXT NOT NULL UNIQUE")
	require.Contains(t, sqlText, "CREATE TABLE IF NOT EXISTS order_items")
}

func TestMigrateRunsGooseOnEmbeddedDir(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, db *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		require.NotNil(t, db)
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil))
	require.Equal(t, migrationsDir, gotDir)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err := Migrate(context.Background(), nil)
	require.ErrorContains(t, err, "migrate orders: boom")
}
