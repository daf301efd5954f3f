package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Repository on a single SQLite table.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates the registry database at path.
func NewSQLiteStorage(path string) (Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, oops.With("path", path, "context", "failed to create storage directory").Wrap(err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)")
	if err != nil {
		return nil, oops.With("path", path, "context", "failed to open sqlite").Wrap(storageError(err))
	}
	// one writer keeps every statement observing a committed snapshot
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS channels (id INTEGER PRIMARY KEY)`); err != nil {
		_ = db.Close()
		return nil, oops.With("path", path, "context", "failed to init schema").Wrap(storageError(err))
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Register(ctx context.Context, channelID int64) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO channels (id) VALUES (?)`, channelID); err != nil {
		return oops.In("channel-repository").With("channel_id", channelID, "context", "failed to register channel").Wrap(storageError(err))
	}
	return nil
}

func (s *SQLiteStorage) Unregister(ctx context.Context, channelID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, channelID); err != nil {
		return oops.In("channel-repository").With("channel_id", channelID, "context", "failed to unregister channel").Wrap(storageError(err))
	}
	return nil
}

func (s *SQLiteStorage) ListAll(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM channels ORDER BY id`)
	if err != nil {
		return nil, oops.In("channel-repository").With("context", "failed to list channels").Wrap(storageError(err))
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, oops.In("channel-repository").With("context", "failed to scan channel").Wrap(storageError(err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("channel-repository").With("context", "failed to iterate channels").Wrap(storageError(err))
	}
	return ids, nil
}

// Close flushes and closes the database.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
