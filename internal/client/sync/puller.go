package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
)

// PullResult reports one table refresh.
type PullResult struct {
	At      time.Time `json:"at"`
	Table   string    `json:"table"`
	Count   int       `json:"count"`
	Removed int       `json:"removed"`
}

// PullOptions tune a Puller.
type PullOptions struct {
	// PruneMissing drops local records absent remotely, unless the queue
	// still holds work for them.
	PruneMissing bool
	// ActiveOnly asks the backend for active records only.
	ActiveOnly bool
}

// Puller refreshes one local table from the backend. Remote wins: every
// fetched record overwrites its local copy.
type Puller struct {
	remote  remote.Remote
	local   LocalTable
	queue   OperationQueue
	meta    storage.MetadataStorage
	logger  *slog.Logger
	now     func() time.Time
	metrics *instruments
	opts    PullOptions
}

func NewPuller(r remote.Remote, local LocalTable, queue OperationQueue, meta storage.MetadataStorage, opts PullOptions, logger *slog.Logger) *Puller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Puller{
		remote:  r,
		local:   local,
		queue:   queue,
		meta:    meta,
		opts:    opts,
		logger:  logger.With("table", local.Table()),
		now:     func() time.Time { return time.Now().UTC() },
		metrics: newInstruments(logger),
	}
}

// Table returns the table the puller refreshes.
func (p *Puller) Table() string {
	return p.local.Table()
}

// Pull fetches the whole table and writes it into the local store. A failed
// fetch leaves the store and the pull checkpoint untouched.
func (p *Puller) Pull(ctx context.Context) (PullResult, error) {
	table := p.local.Table()
	ctx, span := p.metrics.tracer.Start(ctx, spanPull)
	defer span.End()
	span.SetAttributes(attribute.String("sync.table", table))

	result := PullResult{Table: table}

	records, err := p.remote.SelectAll(ctx, table, remote.Filter{ActiveOnly: p.opts.ActiveOnly})
	if err != nil {
		span.RecordError(err)
		return result, wrapRemote(err, "failed to fetch "+table)
	}

	// Проверяем все записи до первой записи в хранилище
	ids := make(map[string]bool, len(records))
	for i, raw := range records {
		id, err := recordID(raw)
		if err != nil {
			span.RecordError(err)
			return result, apperrors.Wrap(apperrors.CodeRemote, err, fmt.Sprintf("malformed %s record at index %d", table, i))
		}
		ids[id] = true
	}

	for _, raw := range records {
		if err := p.local.ApplyRemote(ctx, raw); err != nil {
			span.RecordError(err)
			return result, fmt.Errorf("failed to apply %s record: %w", table, err)
		}
		result.Count++
	}

	if p.opts.PruneMissing {
		removed, err := p.prune(ctx, ids)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		result.Removed = removed
	}

	result.At = p.now()
	if err := p.meta.SaveTimestamp(ctx, storage.LastPullKey(table), result.At); err != nil {
		return result, fmt.Errorf("failed to save pull checkpoint: %w", err)
	}

	p.metrics.add(ctx, p.metrics.cntPulled, result.Count, table)
	p.metrics.add(ctx, p.metrics.cntPruned, result.Removed, table)
	span.SetAttributes(attribute.Int("sync.pulled", result.Count), attribute.Int("sync.removed", result.Removed))

	p.logger.Info("Pulled table", "count", result.Count, "removed", result.Removed)
	return result, nil
}

func (p *Puller) prune(ctx context.Context, remoteIDs map[string]bool) (int, error) {
	localIDs, err := p.local.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list local ids: %w", err)
	}
	pending, err := p.queue.PendingIDs(ctx, p.local.Table())
	if err != nil {
		return 0, fmt.Errorf("failed to list pending ids: %w", err)
	}

	removed := 0
	for _, id := range localIDs {
		if remoteIDs[id] || pending[id] {
			continue
		}
		if err := p.local.RemoveRemote(ctx, id); err != nil {
			return removed, fmt.Errorf("failed to prune %s: %w", id, err)
		}
		removed++
	}
	return removed, nil
}

func recordID(raw json.RawMessage) (string, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	if head.ID == "" {
		return "", errors.New("record without id")
	}
	return head.ID, nil
}

// wrapRemote keeps coded errors and tags the rest as REMOTE_ERROR.
func wrapRemote(err error, message string) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Remote(err, message)
}
