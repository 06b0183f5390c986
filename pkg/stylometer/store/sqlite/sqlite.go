package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/store"
)

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// single connection serializes writers
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	n INTEGER NOT NULL,
	subject TEXT NOT NULL,
	candidates TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_method ON reports(method, created_at);

CREATE TABLE IF NOT EXISTS report_scores (
	report_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	label TEXT NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY(report_id, position),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport inserts or replaces a report and its scores
func (s *sqliteStore) SaveReport(ctx context.Context, r store.Report) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: report without ID", internalerr.ErrInvalidInput)
	}
	candidates, err := json.Marshal(r.Candidates)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO reports (id, method, n, subject, candidates, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	method=excluded.method,
	n=excluded.n,
	subject=excluded.subject,
	candidates=excluded.candidates,
	created_at=excluded.created_at;
`
	if _, err := tx.ExecContext(ctx, stmt,
		r.ID,
		r.Method,
		r.N,
		r.Subject,
		string(candidates),
		r.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_scores WHERE report_id = ?`, r.ID); err != nil {
		return err
	}
	for i, sc := range r.Scores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_scores (report_id, position, label, value) VALUES (?, ?, ?, ?)`,
			r.ID, i, sc.Label, sc.Value,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetReport returns a report by ID
func (s *sqliteStore) GetReport(ctx context.Context, id string) (store.Report, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, method, n, subject, candidates, created_at FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return store.Report{}, false, nil
	}
	if err != nil {
		return store.Report{}, false, err
	}

	if r.Scores, err = s.loadScores(ctx, r.ID); err != nil {
		return store.Report{}, false, err
	}
	return r, true, nil
}

// ListReports returns reports newest first
func (s *sqliteStore) ListReports(ctx context.Context, method string, limit int) ([]store.Report, error) {
	query := `SELECT id, method, n, subject, candidates, created_at FROM reports`
	var args []any
	if method != "" {
		query += ` WHERE method = ?`
		args = append(args, method)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []store.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range reports {
		if reports[i].Scores, err = s.loadScores(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (s *sqliteStore) loadScores(ctx context.Context, id string) ([]store.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, value FROM report_scores WHERE report_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []store.Score
	for rows.Next() {
		var sc store.Score
		if err := rows.Scan(&sc.Label, &sc.Value); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (store.Report, error) {
	var (
		r          store.Report
		candidates string
		created    string
	)
	if err := row.Scan(&r.ID, &r.Method, &r.N, &r.Subject, &candidates, &created); err != nil {
		return store.Report{}, err
	}
	if err := json.Unmarshal([]byte(candidates), &r.Candidates); err != nil {
		return store.Report{}, fmt.Errorf("decode candidates of %s: %w", r.ID, err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return store.Report{}, fmt.Errorf("decode created_at of %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}
