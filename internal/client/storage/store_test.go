package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, NewSQLiteStore(openSQLite(t))) })
}

func TestStore_SetThenGet(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k1", []byte{0x01, 0x02}))

		v, err := s.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, v)
	})
}

func TestStore_GetMissingReturnsNilNil(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		v, err := s.Get(context.Background(), "absent")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestStore_EmptyValueIsPresent(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "empty", nil))

		v, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		assert.NotNil(t, v)
		assert.Empty(t, v)
	})
}

func TestStore_SetOverwrites(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("old")))
		require.NoError(t, s.Set(ctx, "k", []byte("new")))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})
}

func TestStore_SetManyAndDeleteMany(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "keep", []byte("x")))
		require.NoError(t, s.SetMany(ctx, map[string][]byte{
			"a": []byte("1"),
			"b": []byte("2"),
		}))

		m, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"keep": []byte("x"), "a": []byte("1"), "b": []byte("2")}, m)

		require.NoError(t, s.DeleteMany(ctx, "a", "b", "never-set"))

		m, err = s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"keep": []byte("x")}, m)
	})
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))

		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestStore_Clear(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": {1}, "b": {2}}))
		require.NoError(t, s.Clear(ctx))

		m, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, m)
	})
}

func TestStore_ConcurrentWriters(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.SetMany(ctx, map[string][]byte{
					"access":  {byte(i)},
					"refresh": {byte(i)},
				}))
			}(i)
		}
		wg.Wait()

		a, err := s.Get(ctx, "access")
		require.NoError(t, err)
		r, err := s.Get(ctx, "refresh")
		require.NoError(t, err)
		assert.Equal(t, a, r, "batched keys must always be written together")
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	v, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), v)
	v[0] = 'Y'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}
