// Package tracker is the view-model of the job-application tracker: it owns
// the in-memory record list for the session, derives filtered views from the
// current search criteria, and translates create/update/delete intents into
// calls against whichever persistence adapter it was built with.
package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/models"
	"github.com/pattarak/jobtracker-pro/internal/store"
)

// ErrNoPendingDelete reports a delete confirmation with nothing staged.
// Confirming without a prior mark never mutates the list.
var ErrNoPendingDelete = errors.New("no delete is pending confirmation")

// Tracker mediates between the HTTP surface and the active store.
//
// In cloud mode (the store implements store.LiveStore) the store owns the
// canonical data: mutations are forwarded and the in-memory list is only
// replaced by the watch subscription, so a write becomes visible when its
// snapshot lands. In local mode the in-memory list is canonical and is
// re-read from the store right after each mutation.
type Tracker struct {
	store store.Store
	live  store.LiveStore // nil in local mode
	log   logging.Logger

	mu              sync.RWMutex
	records         []models.JobApplication
	searchText      string
	statusFilter    models.Status
	pendingDeleteID string
	subs            map[chan []models.JobApplication]struct{}
}

func New(st store.Store, log logging.Logger) *Tracker {
	t := &Tracker{
		store:        st,
		log:          log,
		statusFilter: models.StatusAll,
		subs:         make(map[chan []models.JobApplication]struct{}),
	}
	if ls, ok := st.(store.LiveStore); ok {
		t.live = ls
	}
	return t
}

// Run loads the record list and, in cloud mode, keeps consuming snapshot
// pushes until ctx is cancelled. It returns once the subscription is
// released, so the caller can treat its return as session teardown.
func (t *Tracker) Run(ctx context.Context) error {
	if t.live != nil {
		for snap := range t.live.Watch(ctx) {
			t.SetRecords(snap)
		}
		return nil
	}

	jobs, err := t.store.List(ctx)
	if err != nil {
		return err
	}
	t.SetRecords(jobs)
	<-ctx.Done()
	return nil
}

// SetRecords replaces the whole list. The next FilteredView already sees the
// new list. Subscribers get the fresh snapshot.
func (t *Tracker) SetRecords(jobs []models.JobApplication) {
	cp := make([]models.JobApplication, len(jobs))
	copy(cp, jobs)

	t.mu.Lock()
	t.records = cp
	subs := make([]chan []models.JobApplication, 0, len(t.subs))
	for ch := range t.subs {
		subs = append(subs, ch)
	}
	t.mu.Unlock()

	for _, ch := range subs {
		send(ch, cp)
	}
}

// send delivers the snapshot without blocking; a slow subscriber loses the
// stale snapshot it has not read yet, never the newest one.
func send(ch chan []models.JobApplication, snap []models.JobApplication) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Records returns a copy of the unfiltered list.
func (t *Tracker) Records() []models.JobApplication {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.JobApplication, len(t.records))
	copy(out, t.records)
	return out
}

// SetFilter updates the search text and status criterion.
func (t *Tracker) SetFilter(searchText string, status models.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.searchText = searchText
	if status == "" {
		status = models.StatusAll
	}
	t.statusFilter = status
}

// FilteredView applies the current criteria to the current list.
func (t *Tracker) FilteredView() []models.JobApplication {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Filter(t.records, t.searchText, t.statusFilter)
}

// Filter returns the records whose company or position contains searchText
// case-insensitively and whose status matches, StatusAll matching anything.
// Order is preserved; the input is never modified.
func Filter(jobs []models.JobApplication, searchText string, status models.Status) []models.JobApplication {
	q := strings.ToLower(searchText)
	out := make([]models.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		matchesSearch := strings.Contains(strings.ToLower(j.Company), q) ||
			strings.Contains(strings.ToLower(j.Position), q)
		matchesStatus := status == models.StatusAll || j.Status == status
		if matchesSearch && matchesStatus {
			out = append(out, j)
		}
	}
	return out
}

// Summary derives the dashboard counts from the full (unfiltered) list.
func (t *Tracker) Summary() models.Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return models.Summarize(t.records)
}

// RequestCreate persists a new record. Blank dates default to today and a
// blank status to Applied, matching the entry form's defaults. In local mode
// the identifier is minted here before the first write; in cloud mode it is
// stripped by the store and assigned remotely. On failure the list is left
// unchanged and the error is returned for display; there is no retry.
func (t *Tracker) RequestCreate(ctx context.Context, draft models.JobApplication) (models.JobApplication, error) {
	if draft.DateApplied == "" {
		draft.DateApplied = models.Today()
	}
	if draft.DateUpdated == "" {
		draft.DateUpdated = draft.DateApplied
	}
	if draft.Status == "" {
		draft.Status = models.StatusApplied
	}
	if t.live == nil && draft.ID == "" {
		draft.ID = uuid.NewString()
	}

	created, err := t.store.Create(ctx, draft)
	if err != nil {
		t.log.Error(ctx, "create failed", "company", draft.Company, "error", err)
		return models.JobApplication{}, err
	}

	t.afterMutation(ctx)
	return created, nil
}

// RequestUpdate replaces the fields of the record with job's id, stamping
// DateUpdated to today. Updating an id that no longer exists returns
// store.ErrNotFound and leaves the list unchanged.
func (t *Tracker) RequestUpdate(ctx context.Context, job models.JobApplication) (models.JobApplication, error) {
	job.DateUpdated = models.Today()

	if err := t.store.Update(ctx, job); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.log.Error(ctx, "update failed", "id", job.ID, "error", err)
		}
		return models.JobApplication{}, err
	}

	t.afterMutation(ctx)
	return job, nil
}

// MarkPendingDelete stages an identifier for confirmation. Nothing is
// removed until ConfirmDelete.
func (t *Tracker) MarkPendingDelete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDeleteID = id
}

// PendingDelete reports the currently staged identifier, if any.
func (t *Tracker) PendingDelete() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pendingDeleteID, t.pendingDeleteID != ""
}

// CancelDelete clears the staged identifier without touching the list.
func (t *Tracker) CancelDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDeleteID = ""
}

// ConfirmDelete removes the staged record and returns its id. The staged id
// is kept on failure so the confirmation can be retried.
func (t *Tracker) ConfirmDelete(ctx context.Context) (string, error) {
	t.mu.Lock()
	id := t.pendingDeleteID
	t.mu.Unlock()

	if id == "" {
		return "", ErrNoPendingDelete
	}

	if err := t.store.Delete(ctx, id); err != nil {
		t.log.Error(ctx, "delete failed", "id", id, "error", err)
		return "", err
	}

	t.mu.Lock()
	t.pendingDeleteID = ""
	t.mu.Unlock()

	t.afterMutation(ctx)
	return id, nil
}

// afterMutation refreshes the in-memory list in local mode. In cloud mode
// the watch subscription delivers the authoritative snapshot instead; there
// is no optimistic update.
func (t *Tracker) afterMutation(ctx context.Context) {
	if t.live != nil {
		return
	}
	jobs, err := t.store.List(ctx)
	if err != nil {
		t.log.Error(ctx, "refresh after mutation failed", "error", err)
		return
	}
	t.SetRecords(jobs)
}

// Subscribe registers a listener that receives the current list immediately
// and a fresh snapshot after every change. The returned cancel func must be
// called exactly once when the listener goes away.
func (t *Tracker) Subscribe() (<-chan []models.JobApplication, func()) {
	ch := make(chan []models.JobApplication, 1)

	t.mu.Lock()
	t.subs[ch] = struct{}{}
	cur := make([]models.JobApplication, len(t.records))
	copy(cur, t.records)
	t.mu.Unlock()

	ch <- cur

	cancel := func() {
		t.mu.Lock()
		delete(t.subs, ch)
		t.mu.Unlock()
	}
	return ch, cancel
}
