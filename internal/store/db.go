package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const FileName = "salarydash.db"

type DB struct {
	Pool *sql.DB
}

// OpenDir opens (and migrates) the database file inside dataDir.
func OpenDir(dataDir string) (*DB, error) {
	d, err := Open(filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}
	if err := Migrate(d.Pool); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func (d *DB) SaveSnapshot(ctx context.Context, s Snapshot) error {
	return SaveSnapshot(ctx, d.Pool, s)
}

func (d *DB) LoadSnapshot(ctx context.Context) (Snapshot, bool, error) {
	return LoadSnapshot(ctx, d.Pool)
}
