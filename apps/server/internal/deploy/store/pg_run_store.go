// Package store provides the RunStore implementations: PostgreSQL for
// deployed environments and Redis for lightweight setups. Both persist the
// same api.RunRecord.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/pkg/api"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations exposes the SQL migration files for platform/postgres.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrationFiles, "migrations")
}

// Compile-time check: *PGRunStore implements deploy.RunStore.
var _ deploy.RunStore = (*PGRunStore)(nil)

// PGRunStore persists deployment runs in PostgreSQL.
type PGRunStore struct {
	pool *pgxpool.Pool
}

// NewPGRunStore creates a PGRunStore.
func NewPGRunStore(pool *pgxpool.Pool) *PGRunStore {
	return &PGRunStore{pool: pool}
}

// Save inserts a run record. Runs are immutable once written.
func (s *PGRunStore) Save(ctx context.Context, r api.RunRecord) error {
	skipsJSON, err := json.Marshal(r.Skips)
	if err != nil {
		return fmt.Errorf("marshal skips: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO deploy_runs
			(id, repository, repository_url, branch, private, status,
			 files_uploaded, files_skipped, skips, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.Id, r.Repository, r.RepositoryUrl, r.Branch, r.Private, string(r.Status),
		r.FilesUploaded, r.FilesSkipped, skipsJSON, r.Error, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %q: %w", r.Id, err)
	}
	return nil
}

// Get retrieves a run by ID, returning nil when not found.
func (s *PGRunStore) Get(ctx context.Context, id string) (*api.RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, repository, repository_url, branch, private, status,
		       files_uploaded, files_skipped, skips, error, created_at
		FROM deploy_runs WHERE id = $1`, id)

	r, err := scanRun(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil //nolint:nilnil // caller checks nil value to detect "not found"
		}
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}
	return r, nil
}

// List returns all runs, newest first.
func (s *PGRunStore) List(ctx context.Context) ([]api.RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, repository, repository_url, branch, private, status,
		       files_uploaded, files_skipped, skips, error, created_at
		FROM deploy_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []api.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// pgScanner is implemented by both pgx.Row and pgx.Rows.
type pgScanner interface {
	Scan(dest ...any) error
}

func scanRun(row pgScanner) (*api.RunRecord, error) {
	var r api.RunRecord
	var status string
	var skipsJSON []byte

	err := row.Scan(&r.Id, &r.Repository, &r.RepositoryUrl, &r.Branch, &r.Private, &status,
		&r.FilesUploaded, &r.FilesSkipped, &skipsJSON, &r.Error, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = api.RunStatus(status)

	if len(skipsJSON) > 0 {
		if err := json.Unmarshal(skipsJSON, &r.Skips); err != nil {
			return nil, fmt.Errorf("unmarshal skips: %w", err)
		}
	}
	return &r, nil
}
