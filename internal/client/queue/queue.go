// Package queue is the durable log of local mutations awaiting remote
// confirmation.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// DefaultMaxAttempts bounds automatic retries of a failed entry.
const DefaultMaxAttempts = 5

// Options tune retry and retention.
type Options struct {
	// MaxAttempts is how many times a failed entry is handed out again.
	MaxAttempts int
	// KeepProcessed retains processed entries for audit instead of pruning.
	KeepProcessed bool
}

// EnqueueRequest describes a new mutation.
type EnqueueRequest struct {
	Data            any
	Table           string
	OperationType   models.OperationType
	EntityID        string
	ExpectedVersion int64
}

// Queue is the operation queue. It is safe for concurrent use.
type Queue struct {
	driver  storage.QueueStorage
	logger  *slog.Logger
	now     func() time.Time
	lastAt  time.Time
	opts    Options
	stampMu sync.Mutex
}

// New creates a queue backed by driver.
func New(driver storage.QueueStorage, opts Options, logger *slog.Logger) *Queue {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		driver: driver,
		opts:   opts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue validates req and appends it as a pending entry. Invalid requests
// are rejected with a VALIDATION_ERROR and leave the queue unchanged.
func (q *Queue) Enqueue(ctx context.Context, req EnqueueRequest) (*models.QueueEntry, error) {
	if !req.OperationType.IsValid() {
		return nil, apperrors.Validation("invalid operation type %q", req.OperationType)
	}
	if !models.IsKnownTable(req.Table) {
		return nil, apperrors.Validation("unknown table %q", req.Table)
	}
	if req.EntityID == "" {
		return nil, apperrors.Validation("entity id is required")
	}
	if req.ExpectedVersion != 0 && req.OperationType != models.OpUpdate {
		return nil, apperrors.Validation("expected version is only allowed on UPDATE")
	}

	var data json.RawMessage
	if req.Data != nil {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, err, "queue payload is not serializable")
		}
		data = raw
	}
	if (req.OperationType == models.OpCreate || req.OperationType == models.OpUpdate) && len(data) == 0 {
		return nil, apperrors.Validation("%s requires a payload", req.OperationType)
	}

	at := q.stamp()
	entry := &models.QueueEntry{
		ID:              uuid.New().String(),
		Table:           req.Table,
		OperationType:   req.OperationType,
		EntityID:        req.EntityID,
		Data:            data,
		ExpectedVersion: req.ExpectedVersion,
		Status:          models.QueuePending,
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	if err := q.driver.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue %s %s: %w", entry.OperationType, entry.EntityID, err)
	}

	q.logger.Debug("operation enqueued",
		"entry_id", entry.ID,
		"table", entry.Table,
		"operation", entry.OperationType,
		"entity_id", entry.EntityID,
	)
	return entry, nil
}

// stamp returns a creation time that never goes backwards, so ordering by
// created_at agrees with insertion order even if the wall clock jumps.
func (q *Queue) stamp() time.Time {
	q.stampMu.Lock()
	defer q.stampMu.Unlock()

	at := q.now()
	if !at.After(q.lastAt) {
		at = q.lastAt.Add(time.Microsecond)
	}
	q.lastAt = at
	return at
}

// Batch returns the entries to push: pending ones plus failed ones still
// eligible for retry, oldest first. A failed entry that is no longer
// retried automatically (conflict, attempts exhausted) holds back every
// later entry of the same record until it is retried.
func (q *Queue) Batch(ctx context.Context) ([]*models.QueueEntry, error) {
	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Before(entries[j]) })

	held := make(map[string]bool)
	batch := make([]*models.QueueEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == models.QueueProcessed {
			continue
		}
		key := e.Table + "/" + e.EntityID
		if held[key] {
			continue
		}
		if !q.eligible(e) {
			held[key] = true
			continue
		}
		batch = append(batch, e)
	}
	return batch, nil
}

func (q *Queue) eligible(e *models.QueueEntry) bool {
	switch e.Status {
	case models.QueuePending:
		return true
	case models.QueueFailed:
		return !e.Conflict && e.Attempts < q.opts.MaxAttempts
	default:
		return false
	}
}

// MarkProcessed records remote success. The entry is pruned unless the
// queue keeps processed entries.
func (q *Queue) MarkProcessed(ctx context.Context, id string) error {
	if !q.opts.KeepProcessed {
		if _, err := q.get(ctx, id); err != nil {
			return err
		}
		if err := q.driver.DeleteEntry(ctx, id); err != nil {
			return fmt.Errorf("failed to prune entry %s: %w", id, err)
		}
		return nil
	}

	return q.modify(ctx, id, func(e *models.QueueEntry) {
		e.Status = models.QueueProcessed
		e.LastError = ""
	})
}

// MarkFailed records a remote failure. conflict marks the entry as rejected
// for staleness: it is no longer retried automatically.
func (q *Queue) MarkFailed(ctx context.Context, id, reason string, conflict bool) error {
	return q.modify(ctx, id, func(e *models.QueueEntry) {
		e.Status = models.QueueFailed
		e.Attempts++
		e.LastError = reason
		e.Conflict = conflict
	})
}

// Retry puts a failed entry back to pending. force drops the expected
// version so the next push overwrites the remote record.
func (q *Queue) Retry(ctx context.Context, id string, force bool) (*models.QueueEntry, error) {
	var out *models.QueueEntry

	err := q.modifyErr(ctx, id, func(e *models.QueueEntry) error {
		if e.Status != models.QueueFailed {
			return apperrors.Validation("queue entry %s is %s, only failed entries can be retried", id, e.Status)
		}
		e.Status = models.QueuePending
		e.Attempts = 0
		e.Conflict = false
		if force {
			e.ExpectedVersion = 0
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stats counts entries per status.
func (q *Queue) Stats(ctx context.Context) (models.QueueStats, error) {
	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("failed to read queue: %w", err)
	}

	var st models.QueueStats
	for _, e := range entries {
		switch e.Status {
		case models.QueuePending:
			st.Pending++
		case models.QueueProcessed:
			st.Processed++
		case models.QueueFailed:
			st.Failed++
			if e.Conflict {
				st.Conflicts++
			}
		}
	}
	return st, nil
}

// List returns the entries with the given status, or all when status is empty.
func (q *Queue) List(ctx context.Context, status models.QueueStatus) ([]*models.QueueEntry, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.Validation("invalid queue status %q", status)
	}

	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	if status == "" {
		return entries, nil
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the number of stored entries.
func (q *Queue) Len(ctx context.Context) (int, error) {
	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read queue: %w", err)
	}
	return len(entries), nil
}

// PendingIDs returns the entity ids of table that still have unconfirmed
// entries (pending or failed).
func (q *Queue) PendingIDs(ctx context.Context, table string) (map[string]bool, error) {
	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	ids := make(map[string]bool)
	for _, e := range entries {
		if e.Table == table && e.Status != models.QueueProcessed {
			ids[e.EntityID] = true
		}
	}
	return ids, nil
}

// Prune deletes processed entries and returns how many were removed.
func (q *Queue) Prune(ctx context.Context) (int, error) {
	entries, err := q.driver.ListEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read queue: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.Status != models.QueueProcessed {
			continue
		}
		if err := q.driver.DeleteEntry(ctx, e.ID); err != nil {
			return removed, fmt.Errorf("failed to prune entry %s: %w", e.ID, err)
		}
		removed++
	}
	return removed, nil
}

func (q *Queue) get(ctx context.Context, id string) (*models.QueueEntry, error) {
	e, err := q.driver.GetEntry(ctx, id)
	if errors.Is(err, storage.ErrEntryNotFound) {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "queue entry %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entry %s: %w", id, err)
	}
	return e, nil
}

func (q *Queue) modify(ctx context.Context, id string, fn func(*models.QueueEntry)) error {
	return q.modifyErr(ctx, id, func(e *models.QueueEntry) error {
		fn(e)
		return nil
	})
}

func (q *Queue) modifyErr(ctx context.Context, id string, fn func(*models.QueueEntry) error) error {
	e, err := q.get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return err
	}
	e.UpdatedAt = q.now()

	if err := q.driver.UpdateEntry(ctx, e); err != nil {
		return fmt.Errorf("failed to update queue entry %s: %w", id, err)
	}
	return nil
}
