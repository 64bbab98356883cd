// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sqlite implements storage.JobRepository on an embedded SQLite
// database via the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL,
	location    TEXT NOT NULL,
	description TEXT NOT NULL,
	url         TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

const upsertStmt = `
INSERT OR REPLACE INTO jobs (id, title, company, location, description, url, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Store is the SQLite-backed job repository.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	closed atomic.Bool
}

var _ storage.JobRepository = (*Store)(nil)

// Open opens (or creates) the job database at path and applies the schema.
// Pass ":memory:" for an in-memory database in tests.
func Open(path string) (storage.JobRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening job database: %w", err)
	}

	// The driver serializes writes per connection; a single connection
	// avoids SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging job database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying job schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "sqlite-store"),
	}, nil
}

// InTx executes fn within a transaction, rolling back on error.
func (s *Store) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// UpsertJobs writes the batch in one transaction. Existing ids are replaced.
func (s *Store) UpsertJobs(ctx context.Context, jobs []core.Job) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	if len(jobs) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err := s.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertStmt)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range jobs {
			job := &jobs[i]
			if err := core.ValidateJob(job); err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				job.ID, job.Title, job.Company, job.Location,
				job.Description, job.URL, now); err != nil {
				return fmt.Errorf("upserting job %s: %w", job.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrTransactionFailed, err)
	}

	s.logger.Debug("upserted job batch", "count", len(jobs))
	return nil
}

// GetJob retrieves one job by id. Returns storage.ErrNotFound when absent.
func (s *Store) GetJob(ctx context.Context, id string) (*core.Job, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, location, description, url FROM jobs WHERE id = ?`, id)

	var job core.Job
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Description, &job.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading job %s: %w", id, err)
	}
	return &job, nil
}

// CountJobs returns the number of persisted jobs.
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrStorageClosed
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
