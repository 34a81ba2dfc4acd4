package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
	"github.com/hamed0406/pingme/internal/repo"
)

var _ repo.Registry = (*Store)(nil)
var _ repo.StatusStore = (*Store)(nil)

// SchemaSQL creates the two tables the store needs. Safe to run repeatedly.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS targets (
  name       TEXT PRIMARY KEY,
  url        TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS target_status (
  name       TEXT PRIMARY KEY,
  record     TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	s.log.Info("postgres_schema_ready")
	return nil
}

// ---- Registry ----

func (s *Store) Add(ctx context.Context, t domain.Target) error {
	if err := repo.ValidateTarget(t); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO targets (name, url)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET url = EXCLUDED.url`,
		t.Name, t.URL,
	)
	if err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM targets WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) (map[string]string, error) {
	return s.pairs(ctx, `SELECT name, url FROM targets`)
}

// ---- StatusStore ----

func (s *Store) GetAll(ctx context.Context) (map[string]string, error) {
	return s.pairs(ctx, `SELECT name, record FROM target_status`)
}

func (s *Store) Set(ctx context.Context, name, record string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO target_status (name, record, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`,
		name, record,
	)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM target_status WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

func (s *Store) pairs(ctx context.Context, q string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}
