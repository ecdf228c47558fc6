package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, configures WAL mode,
// and applies the schema.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "reports.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	report       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_company_name ON reports(company_name);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

func (s *SQLiteStore) Save(ctx context.Context, report *model.Report) (string, error) {
	id := uuid.New().String()

	raw, err := json.Marshal(report)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, company_name, report, created_at) VALUES (?, ?, ?, ?)`,
		id, report.Meta.CompanyName, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert report")
	}
	return id, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_name, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var summary Summary
		if err := rows.Scan(&summary.ID, &summary.CompanyName, &summary.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report row")
		}
		summary.DisplayName = displayName(summary.CompanyName)
		summaries = append(summaries, summary)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list reports")
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*model.Report, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM reports WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: report %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load report %s", id)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse report %s", id)
	}
	return &report, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete report %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: report %s not found", id)
	}
	return nil
}

// IsConfigured reports whether the database handle is usable.
func (s *SQLiteStore) IsConfigured() bool {
	return s.db != nil && s.db.Ping() == nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
