package engine

import (
	"context"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/queue"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// table performs the optimistic write path for one entity: local store
// first, then the queue, rolling the store back if the queue refuses.
type table[T models.Record] struct {
	store  *store.Store[T]
	queue  *queue.Queue
	kick   func()
	logger *slog.Logger
	// lww sends updates without the version they were based on.
	lww bool
}

func (t *table[T]) create(ctx context.Context, rec T) (T, error) {
	var zero T

	if err := t.store.Add(ctx, rec); err != nil {
		return zero, err
	}
	err := t.enqueue(ctx, models.OpCreate, rec.RecordID(), rec, 0, func(ctx context.Context) error {
		return t.store.HardDelete(ctx, rec.RecordID())
	})
	if err != nil {
		return zero, err
	}
	return rec, nil
}

// update applies patch locally through apply, then queues patch itself.
func (t *table[T]) update(ctx context.Context, id string, patch any, apply func(T)) (T, error) {
	var zero T

	prev, err := t.store.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	expected, err := t.expectedVersion(ctx, prev)
	if err != nil {
		return zero, err
	}

	rec, err := t.store.Update(ctx, id, func(r T) error {
		apply(r)
		return nil
	})
	if err != nil {
		return zero, err
	}
	if err := t.enqueue(ctx, models.OpUpdate, id, patch, expected, t.restore(prev)); err != nil {
		return zero, err
	}
	return rec, nil
}

func (t *table[T]) setActive(ctx context.Context, id string, active bool) (T, error) {
	var zero T

	prev, err := t.store.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	op := models.OpDeactivate
	mutate := t.store.Deactivate
	if active {
		op = models.OpActivate
		mutate = t.store.Activate
	}

	rec, err := mutate(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := t.enqueue(ctx, op, id, nil, 0, t.restore(prev)); err != nil {
		return zero, err
	}
	return rec, nil
}

func (t *table[T]) remove(ctx context.Context, id string) (string, error) {
	prev, err := t.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := t.store.HardDelete(ctx, id); err != nil {
		return "", err
	}
	if err := t.enqueue(ctx, models.OpDelete, id, nil, 0, t.restore(prev)); err != nil {
		return "", err
	}
	return id, nil
}

// expectedVersion is the version an update is conditioned on. It is zero
// (unconditional) for never-synced records, in last-writer-wins mode, and
// when earlier changes to the record are still queued: those will bump the
// server version before this update is sent.
func (t *table[T]) expectedVersion(ctx context.Context, prev T) (int64, error) {
	if t.lww || prev.RecordVersion() == 0 {
		return 0, nil
	}
	pending, err := t.queue.PendingIDs(ctx, t.store.Table())
	if err != nil {
		return 0, err
	}
	if pending[prev.RecordID()] {
		return 0, nil
	}
	return prev.RecordVersion(), nil
}

func (t *table[T]) restore(prev T) func(context.Context) error {
	return func(ctx context.Context) error {
		return t.store.Upsert(ctx, prev)
	}
}

func (t *table[T]) enqueue(ctx context.Context, op models.OperationType, id string, data any, expected int64, rollback func(context.Context) error) error {
	_, err := t.queue.Enqueue(ctx, queue.EnqueueRequest{
		Table:           t.store.Table(),
		OperationType:   op,
		EntityID:        id,
		Data:            data,
		ExpectedVersion: expected,
	})
	if err == nil {
		t.kick()
		return nil
	}

	// Local change without a queue entry would never reach the backend.
	ctx = context.WithoutCancel(ctx)
	if rbErr := rollback(ctx); rbErr != nil {
		t.logger.Error("Rollback after enqueue failure failed",
			"table", t.store.Table(), "id", id, "operation", op, "error", rbErr)
		return multierr.Append(err, apperrors.Wrap(apperrors.CodeInternal, rbErr, "rollback failed"))
	}
	return err
}
