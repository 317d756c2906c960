package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/vlquery/vlq/internal/model"
)

// schema is the whole story: snapshot files are single-shot export
// artifacts created fresh, so there is no migration history to version.
const schema = `CREATE TABLE IF NOT EXISTS records (
	captured_at TIMESTAMP NOT NULL,
	kind        VARCHAR   NOT NULL,
	position    INTEGER   NOT NULL,
	record      JSON      NOT NULL
)`

// Store writes query results into a local DuckDB database for offline SQL
// analysis.
type Store struct {
	db           *sql.DB
	mu           sync.Mutex
	dbPath       string
	QueryTimeout time.Duration
}

// NewStore opens or creates a snapshot database.
// If dbPath is empty, an in-memory database is used.
// An optional queryTimeout can be passed; it defaults to 30s.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	qt := 30 * time.Second
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		qt = queryTimeout[0]
	}

	return &Store{
		db:           db,
		dbPath:       dbPath,
		QueryTimeout: qt,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct query access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// InsertBatch appends one result set in a single transaction, preserving
// record order through the position column. If any record fails, the batch
// is rolled back and retried record-by-record to salvage what it can.
func (s *Store) InsertBatch(kind model.QueryKind, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.QueryTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	capturedAt := time.Now().UTC()

	err := s.insertBatchTx(ctx, capturedAt, kind, 0, records)
	if err == nil {
		return nil
	}

	var failed int
	for i, rec := range records {
		if rerr := s.insertBatchTx(ctx, capturedAt, kind, i, []model.Record{rec}); rerr != nil {
			failed++
			log.Printf("snapshot: dropping record %d (kind=%s): %v", i, kind, rerr)
		}
	}
	if failed > 0 {
		log.Printf("snapshot: batch partially failed — %d/%d records dropped", failed, len(records))
	}
	return nil
}

// insertBatchTx inserts records in a single transaction, numbering
// positions from basePos.
func (s *Store) insertBatchTx(ctx context.Context, capturedAt time.Time, kind model.QueryKind, basePos int, records []model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (captured_at, kind, position, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		data, merr := json.Marshal(rec)
		if merr != nil {
			log.Printf("snapshot: failed to marshal record %d, skipping: %v", basePos+i, merr)
			continue
		}
		if _, err := stmt.ExecContext(ctx, capturedAt, kind.String(), basePos+i, string(data)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Count reports the total number of stored records.
func (s *Store) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.QueryTimeout)
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}

// CountByKind reports stored record counts grouped by query kind.
func (s *Store) CountByKind() (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM records GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}
