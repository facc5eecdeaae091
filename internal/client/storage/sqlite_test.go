package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := openSQLite(t)

	require.True(t, tableExists(t, db, "kv"))
	require.True(t, tableExists(t, db, "goose_db_version"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")
	require.True(t, tableExists(t, db, "kv"))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Set(ctx, "access_token", []byte("a1")))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	v, err := NewSQLiteStore(db).Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, []byte("a1"), v)
}

func TestSQLiteStore_ClosedDBReturnsErrors(t *testing.T) {
	db := openSQLite(t)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	ctx := context.Background()
	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	require.Error(t, s.Set(ctx, "k", []byte("v")))
	require.Error(t, s.SetMany(ctx, map[string][]byte{"k": {1}}))
	require.Error(t, s.Clear(ctx))
}
