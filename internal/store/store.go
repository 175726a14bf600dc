// Package store holds the two persistence adapters behind the tracker: a
// Postgres-backed record store for cloud sync and a SQLite snapshot store for
// purely local use.
package store

import (
	"context"
	"errors"

	"github.com/pattarak/jobtracker-pro/internal/models"
)

// ErrNotFound reports an update against an identifier that no longer exists.
var ErrNotFound = errors.New("job application not found")

// Store is the persistence contract the tracker mediates against.
type Store interface {
	// List returns all records in the store's fixed order.
	List(ctx context.Context) ([]models.JobApplication, error)

	// Create persists a new record and returns it with its assigned id.
	Create(ctx context.Context, job models.JobApplication) (models.JobApplication, error)

	// Update replaces the stored fields of the record with job's id.
	// Returns ErrNotFound when no such record exists.
	Update(ctx context.Context, job models.JobApplication) error

	// Delete removes the record with the given id. Deleting an id that is
	// already gone is not an error.
	Delete(ctx context.Context, id string) error
}

// LiveStore is a Store that can push the full current result set whenever
// the underlying collection changes.
type LiveStore interface {
	Store

	// Watch delivers a snapshot of all records after every change and on a
	// periodic refresh tick. The channel is closed when ctx is cancelled,
	// which is the only way the subscription is released.
	Watch(ctx context.Context) <-chan []models.JobApplication
}
