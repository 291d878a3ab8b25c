package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"salarydash/internal/domain"
)

// Snapshot is the last dataset that loaded successfully.
type Snapshot struct {
	Records   []domain.Record
	FetchedAt time.Time
	SourceURL string
	Rejected  int
}

func Migrate(db *sql.DB) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS records (
  idx INTEGER PRIMARY KEY,
  work_year INTEGER NOT NULL,
  salary TEXT NOT NULL,
  job_title TEXT NOT NULL,
  extra TEXT NOT NULL DEFAULT '{}'
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS snapshot (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  fetched_at TEXT NOT NULL,
  source_url TEXT NOT NULL,
  rejected INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_records_work_year
ON records(work_year);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveSnapshot replaces the stored dataset in one transaction.
func SaveSnapshot(ctx context.Context, db *sql.DB, s Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records;`); err != nil {
		return fmt.Errorf("save snapshot: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (idx, work_year, salary, job_title, extra)
VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer stmt.Close()

	for i, r := range s.Records {
		extra := []byte("{}")
		if len(r.Extra) > 0 {
			if extra, err = json.Marshal(r.Extra); err != nil {
				return fmt.Errorf("save snapshot: record %d: %w", i, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, i, r.Year, r.Salary, r.Title, string(extra)); err != nil {
			return fmt.Errorf("save snapshot: record %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot (id, fetched_at, source_url, rejected)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  fetched_at = excluded.fetched_at,
  source_url = excluded.source_url,
  rejected = excluded.rejected;`,
		s.FetchedAt.UTC().Format(time.RFC3339Nano), s.SourceURL, s.Rejected,
	); err != nil {
		return fmt.Errorf("save snapshot: meta: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the stored dataset. found is false when nothing has
// been saved yet.
func LoadSnapshot(ctx context.Context, db *sql.DB) (s Snapshot, found bool, err error) {
	var fetchedAt string
	err = db.QueryRowContext(ctx,
		`SELECT fetched_at, source_url, rejected FROM snapshot WHERE id = 1;`,
	).Scan(&fetchedAt, &s.SourceURL, &s.Rejected)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	s.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)

	rows, err := db.QueryContext(ctx, `
SELECT work_year, salary, job_title, extra
FROM records
ORDER BY idx ASC;`)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Record
		var extra string
		if err := rows.Scan(&r.Year, &r.Salary, &r.Title, &extra); err != nil {
			return Snapshot{}, false, err
		}
		if extra != "" && extra != "{}" {
			_ = json.Unmarshal([]byte(extra), &r.Extra)
		}
		s.Records = append(s.Records, r)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, err
	}
	return s, true, nil
}

// YearCounts returns the number of stored records per year, ascending.
func YearCounts(ctx context.Context, db *sql.DB) (map[int]int, error) {
	rows, err := db.QueryContext(ctx, `
SELECT work_year, COUNT(*)
FROM records
GROUP BY work_year
ORDER BY work_year ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var y, n int
		if err := rows.Scan(&y, &n); err != nil {
			return nil, err
		}
		out[y] = n
	}
	return out, rows.Err()
}
