package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/models"
)

func setupLocal(t *testing.T) (*LocalStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewLocalStore(context.Background(), db, logging.NewDefault())
	require.NoError(t, err)
	return s, db
}

func TestLocalStore_CreateMintsID(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.JobApplication{Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	second, err := s.Create(ctx, models.JobApplication{Company: "Beta", Position: "Designer"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, second.ID)
}

func TestLocalStore_CreatePrepends(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.JobApplication{ID: "old", Company: "Old Co", Position: "X"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.JobApplication{ID: "new", Company: "New Co", Position: "Y"})
	require.NoError(t, err)

	jobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}

func TestLocalStore_UpdateReplacesInPlace(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.JobApplication{ID: "1", Company: "Acme", Position: "Engineer", Status: models.StatusApplied})
	require.NoError(t, err)

	err = s.Update(ctx, models.JobApplication{ID: "1", Company: "Acme", Position: "Engineer", Status: models.StatusOffer})
	require.NoError(t, err)

	jobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.StatusOffer, jobs[0].Status)
}

func TestLocalStore_UpdateMissingID(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.JobApplication{ID: "1", Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	err = s.Update(ctx, models.JobApplication{ID: "ghost", Company: "Nope", Position: "Nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	// list unchanged
	jobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].Company)
}

func TestLocalStore_Delete(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.JobApplication{ID: "1", Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "1"))
	jobs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// deleting an id that is already gone is not an error
	require.NoError(t, s.Delete(ctx, "1"))
}

func TestLocalStore_SnapshotRoundTrip(t *testing.T) {
	s, db := setupLocal(t)
	ctx := context.Background()

	want := []models.JobApplication{
		{
			ID:             "a",
			Company:        "Acme",
			Position:       "Engineer",
			Salary:         "30K-35K",
			DateApplied:    "2025-11-18",
			DateUpdated:    "2025-11-19",
			Channel:        "JobThai",
			Status:         models.StatusInterviewed,
			Contact:        "hr@acme.example",
			Notes:          "remote friendly",
			JobDescription: "builds things",
		},
		{ID: "b", Company: "Beta", Position: "Designer", Status: models.StatusApplied},
	}
	// create in reverse so the front of the list matches want
	for i := len(want) - 1; i >= 0; i-- {
		_, err := s.Create(ctx, want[i])
		require.NoError(t, err)
	}

	// a second store over the same db must see the identical list,
	// field for field
	reopened, err := NewLocalStore(ctx, db, logging.NewDefault())
	require.NoError(t, err)

	got, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocalStore_ListReturnsCopy(t *testing.T) {
	s, _ := setupLocal(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.JobApplication{ID: "1", Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	jobs, err := s.List(ctx)
	require.NoError(t, err)
	jobs[0].Company = "Mutated"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again[0].Company)
}
