package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/models"
)

// GormStore keeps the canonical records in Postgres. The in-memory list held
// by the tracker is a read-only mirror refreshed through Watch.
type GormStore struct {
	db   *gorm.DB
	log  logging.Logger
	poll time.Duration

	// notify carries at most one pending "something changed" signal so that
	// a burst of writes collapses into a single snapshot push.
	notify chan struct{}
}

func NewGormStore(db *gorm.DB, log logging.Logger, poll time.Duration) *GormStore {
	return &GormStore{
		db:     db,
		log:    log,
		poll:   poll,
		notify: make(chan struct{}, 1),
	}
}

// List returns every record, newest-updated first.
func (s *GormStore) List(ctx context.Context) ([]models.JobApplication, error) {
	var jobs []models.JobApplication
	err := s.db.WithContext(ctx).
		Order("date_updated DESC, id").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	return jobs, nil
}

// Create inserts the record with a server-assigned identifier; any id the
// caller set is discarded.
func (s *GormStore) Create(ctx context.Context, job models.JobApplication) (models.JobApplication, error) {
	job.ID = ""
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return models.JobApplication{}, fmt.Errorf("failed to create job application: %w", err)
	}
	s.changed()
	return job, nil
}

// Update writes all fields of job except its identifier.
func (s *GormStore) Update(ctx context.Context, job models.JobApplication) error {
	res := s.db.WithContext(ctx).
		Model(&models.JobApplication{}).
		Where("id = ?", job.ID).
		Updates(updateColumns(job))
	if res.Error != nil {
		return fmt.Errorf("failed to update job application %s: %w", job.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.changed()
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.JobApplication{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete job application %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Warn(ctx, "delete of unknown job application", "id", id)
	}
	s.changed()
	return nil
}

// Watch pushes the full result set after every mutation made through this
// store and on every poll tick, so edits made from another device still show
// up. The channel closes when ctx is cancelled.
func (s *GormStore) Watch(ctx context.Context) <-chan []models.JobApplication {
	out := make(chan []models.JobApplication, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		s.push(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.notify:
			case <-ticker.C:
			}
			s.push(ctx, out)
		}
	}()

	return out
}

func (s *GormStore) push(ctx context.Context, out chan<- []models.JobApplication) {
	jobs, err := s.List(ctx)
	if err != nil {
		// A failed refresh leaves the mirror as it was.
		s.log.Error(ctx, "watch refresh failed", "error", err)
		return
	}
	select {
	case out <- jobs:
	case <-ctx.Done():
	}
}

func (s *GormStore) changed() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// updateColumns is the field-level update payload for a record. The
// identifier is excluded: it is immutable once assigned.
func updateColumns(job models.JobApplication) map[string]any {
	return map[string]any{
		"company":         job.Company,
		"position":        job.Position,
		"salary":          job.Salary,
		"date_applied":    job.DateApplied,
		"date_updated":    job.DateUpdated,
		"channel":         job.Channel,
		"status":          job.Status,
		"contact":         job.Contact,
		"notes":           job.Notes,
		"job_description": job.JobDescription,
	}
}
