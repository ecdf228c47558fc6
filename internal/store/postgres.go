package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// Pool abstracts the pgxpool operations the store uses, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reports_company_name ON reports(company_name);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// NewPostgres connects a pool, pings it, and applies the schema.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresWithPool wraps an existing pool without migrating. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Save(ctx context.Context, report *model.Report) (string, error) {
	id := uuid.New().String()

	raw, err := json.Marshal(report)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal report")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, company_name, report, created_at) VALUES ($1, $2, $3, $4)`,
		id, report.Meta.CompanyName, raw, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert report")
	}
	return id, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_name, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var summary Summary
		if err := rows.Scan(&summary.ID, &summary.CompanyName, &summary.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report row")
		}
		summary.DisplayName = displayName(summary.CompanyName)
		summaries = append(summaries, summary)
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: list reports")
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*model.Report, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM reports WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: report %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load report %s", id)
	}

	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, eris.Wrapf(err, "postgres: parse report %s", id)
	}
	return &report, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete report %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: report %s not found", id)
	}
	return nil
}

// IsConfigured reports whether the pool is reachable.
func (s *PostgresStore) IsConfigured() bool {
	return s.pool != nil && s.pool.Ping(context.Background()) == nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
