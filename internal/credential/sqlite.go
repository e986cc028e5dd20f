package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"splitspecs/internal/common"
	"splitspecs/internal/util"
)

// busyTimeoutMS is the SQLite busy_timeout applied to every connection.
const busyTimeoutMS = 5000

// LocalStorageModel represents the local_storage table
type LocalStorageModel struct {
	bun.BaseModel `bun:"table:local_storage"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// SQLiteStore keeps items in a libsql database file.
type SQLiteStore struct {
	db *bun.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// libsql ignores DSN-based pragmas, so set busy_timeout explicitly.
	rows, err := sqlDB.Query(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS))
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	rows.Close()

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	ctx := context.Background()
	if _, err := db.NewCreateTable().
		Model((*LocalStorageModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetItem(key string) (string, error) {
	ctx := context.Background()
	item, err := util.RetryWithResult(ctx, func() (LocalStorageModel, error) {
		var item LocalStorageModel
		err := s.db.NewSelect().
			Model(&item).
			Where("key = ?", key).
			Scan(ctx)
		return item, err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return item.Value, nil
}

// SetItem upserts the item. Lock contention with another process is retried.
func (s *SQLiteStore) SetItem(key, value string) error {
	if key == "" {
		return common.ErrInvalidKey
	}
	ctx := context.Background()
	return util.Retry(ctx, func() error {
		_, err := s.db.NewInsert().
			Model(&LocalStorageModel{Key: key, Value: value}).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Exec(ctx)
		return err
	})
}

func (s *SQLiteStore) RemoveItem(key string) error {
	ctx := context.Background()
	return util.Retry(ctx, func() error {
		_, err := s.db.NewDelete().
			Model((*LocalStorageModel)(nil)).
			Where("key = ?", key).
			Exec(ctx)
		return err
	})
}
