package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/retry"
)

// PushResult reports one drain of the operation queue.
type PushResult struct {
	At        time.Time `json:"at"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	// Skipped counts entries held back because an earlier entry for the
	// same record failed in this cycle.
	Skipped int `json:"skipped"`
}

// Pusher drains the operation queue to the backend. One entry failing does
// not stop the others; at most one drain runs at a time.
type Pusher struct {
	remote  remote.Remote
	queue   OperationQueue
	tables  map[string]LocalTable
	meta    storage.MetadataStorage
	conn    Connectivity
	logger  *slog.Logger
	now     func() time.Time
	metrics *instruments
	policy  retry.Policy
	running atomic.Bool
}

func NewPusher(r remote.Remote, queue OperationQueue, tables []LocalTable, meta storage.MetadataStorage, conn Connectivity, policy retry.Policy, logger *slog.Logger) *Pusher {
	if logger == nil {
		logger = slog.Default()
	}
	if policy.Retryable == nil {
		policy.Retryable = apperrors.IsRetryable
	}
	byName := make(map[string]LocalTable, len(tables))
	for _, t := range tables {
		byName[t.Table()] = t
	}
	return &Pusher{
		remote:  r,
		queue:   queue,
		tables:  byName,
		meta:    meta,
		conn:    conn,
		policy:  policy,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		metrics: newInstruments(logger),
	}
}

// Running reports whether a drain is in progress.
func (p *Pusher) Running() bool {
	return p.running.Load()
}

// Push sends every eligible entry in queue order. It fails fast with
// ErrOffline without touching the queue when the backend is unreachable,
// and with ErrPushInProgress when another drain is running. Per-entry
// failures are recorded on the entry and counted, not returned.
func (p *Pusher) Push(ctx context.Context) (PushResult, error) {
	var result PushResult

	if !p.conn.Online() {
		return result, apperrors.ErrOffline
	}
	if !p.running.CompareAndSwap(false, true) {
		return result, apperrors.ErrPushInProgress
	}
	defer p.running.Store(false)

	ctx, span := p.metrics.tracer.Start(ctx, spanPush)
	defer span.End()

	batch, err := p.queue.Batch(ctx)
	if err != nil {
		span.RecordError(err)
		return result, fmt.Errorf("failed to read queue: %w", err)
	}
	if len(batch) == 0 {
		return result, nil
	}

	p.logger.Info("Starting push", "entries", len(batch))

	// Записи одной сущности применяются строго по порядку: после ошибки
	// остальные ждут следующего цикла.
	blocked := make(map[string]bool)
	for _, entry := range batch {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := entry.Table + "/" + entry.EntityID
		if blocked[key] {
			result.Skipped++
			continue
		}

		confirmed, err := p.send(ctx, entry)
		if err != nil {
			conflict := apperrors.HasCode(err, apperrors.CodeConflict)
			if markErr := p.queue.MarkFailed(ctx, entry.ID, err.Error(), conflict); markErr != nil {
				return result, fmt.Errorf("failed to record push failure: %w", markErr)
			}
			blocked[key] = true
			result.Failed++
			if conflict {
				p.metrics.add(ctx, p.metrics.cntConflicts, 1, entry.Table)
			}
			p.metrics.add(ctx, p.metrics.cntFailed, 1, entry.Table)
			p.logger.Warn("Push failed",
				"entry_id", entry.ID, "table", entry.Table, "entity_id", entry.EntityID,
				"operation", entry.OperationType, "conflict", conflict, "error", err)
			continue
		}

		if err := p.queue.MarkProcessed(ctx, entry.ID); err != nil {
			return result, fmt.Errorf("failed to confirm entry %s: %w", entry.ID, err)
		}
		result.Processed++
		p.metrics.add(ctx, p.metrics.cntPushed, 1, entry.Table)

		if confirmed != nil {
			p.adopt(ctx, entry, confirmed)
		}
	}

	if result.Processed > 0 {
		result.At = p.now()
		if err := p.meta.SaveTimestamp(ctx, storage.KeyLastPush, result.At); err != nil {
			return result, fmt.Errorf("failed to save push checkpoint: %w", err)
		}
	}

	span.SetAttributes(
		attribute.Int("sync.processed", result.Processed),
		attribute.Int("sync.failed", result.Failed),
		attribute.Int("sync.skipped", result.Skipped),
	)
	p.logger.Info("Push completed", "processed", result.Processed, "failed", result.Failed, "skipped", result.Skipped)
	return result, nil
}

// send performs the remote call for entry and returns the record the
// backend now holds, if it returned one.
func (p *Pusher) send(ctx context.Context, entry *models.QueueEntry) (json.RawMessage, error) {
	var confirmed json.RawMessage
	err := retry.Do(ctx, p.policy, func(ctx context.Context) error {
		var err error
		confirmed, err = p.call(ctx, entry)
		return err
	})
	return confirmed, err
}

func (p *Pusher) call(ctx context.Context, entry *models.QueueEntry) (json.RawMessage, error) {
	switch entry.OperationType {
	case models.OpCreate:
		rec, err := p.remote.Insert(ctx, entry.Table, entry.Data)
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			// Повторная отправка после потерянного ответа: запись уже есть.
			return p.remote.Update(ctx, entry.Table, entry.EntityID, entry.Data, 0)
		}
		return rec, err
	case models.OpUpdate:
		return p.remote.Update(ctx, entry.Table, entry.EntityID, entry.Data, entry.ExpectedVersion)
	case models.OpDeactivate:
		return p.remote.Update(ctx, entry.Table, entry.EntityID, activePatch(false), 0)
	case models.OpActivate:
		return p.remote.Update(ctx, entry.Table, entry.EntityID, activePatch(true), 0)
	case models.OpDelete:
		err := p.remote.Delete(ctx, entry.Table, entry.EntityID)
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	default:
		return nil, apperrors.Validation("invalid operation type %q", entry.OperationType)
	}
}

// adopt writes the backend's copy of a record locally so the version used
// for the next conditional update is current. Records with newer local
// mutations still queued keep their optimistic state.
func (p *Pusher) adopt(ctx context.Context, entry *models.QueueEntry, rec json.RawMessage) {
	local, ok := p.tables[entry.Table]
	if !ok {
		return
	}
	pending, err := p.queue.PendingIDs(ctx, entry.Table)
	if err != nil {
		p.logger.Warn("Failed to check pending entries", "table", entry.Table, "error", err)
		return
	}
	if pending[entry.EntityID] {
		return
	}
	if err := local.ApplyRemote(ctx, rec); err != nil {
		p.logger.Warn("Failed to apply confirmed record", "table", entry.Table, "error", err)
	}
}

func activePatch(active bool) json.RawMessage {
	if active {
		return json.RawMessage(`{"is_active":true}`)
	}
	return json.RawMessage(`{"is_active":false}`)
}
