// Package storage provides the synchronous key-value substrate the
// credential record is persisted in.
//
// Two implementations exist: MemoryStore for tests and ephemeral sessions,
// and SQLiteStore for the CLI, backed by a goose-migrated SQLite file.
// Both are safe for concurrent use. Get returns (nil, nil) for a missing
// key; SetMany and DeleteMany apply all keys or none.
package storage

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
