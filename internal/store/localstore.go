package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/models"
)

// snapshotKey is the single row under which the full record list is stored.
const snapshotKey = "jobs"

// OpenSQLite opens the on-device SQLite file backing local mode.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	return db, nil
}

// LocalStore keeps the canonical record list in memory and mirrors it into a
// SQLite blob after every mutation. The snapshot is read once at startup and
// rewritten whole on every change; a failed write is logged and otherwise
// ignored so the session keeps working on the in-memory copy.
type LocalStore struct {
	db  *sql.DB
	log logging.Logger

	mu   sync.Mutex
	jobs []models.JobApplication
}

func NewLocalStore(ctx context.Context, db *sql.DB, log logging.Logger) (*LocalStore, error) {
	s := &LocalStore{db: db, log: log}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return nil
}

func (s *LocalStore) load(ctx context.Context) error {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = ?`, snapshotKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		s.jobs = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(blob, &s.jobs); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}

// List returns the records in insertion order, newest first.
func (s *LocalStore) List(ctx context.Context) ([]models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JobApplication, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

// Create prepends the record. A missing identifier is minted client-side.
func (s *LocalStore) Create(ctx context.Context, job models.JobApplication) (models.JobApplication, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]models.JobApplication{job}, s.jobs...)
	s.flush(ctx)
	return job, nil
}

func (s *LocalStore) Update(ctx context.Context, job models.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == job.ID {
			s.jobs[i] = job
			s.flush(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			s.flush(ctx)
			return nil
		}
	}
	return nil
}

// flush rewrites the whole snapshot. Callers hold s.mu. A write failure only
// loses durability, not the session, so it is logged and swallowed.
func (s *LocalStore) flush(ctx context.Context) {
	blob, err := json.Marshal(s.jobs)
	if err != nil {
		s.log.Warn(ctx, "failed to encode snapshot", "error", err)
		return
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, snapshotKey, blob)
	if err != nil {
		s.log.Warn(ctx, "failed to write snapshot", "error", err)
	}
}
