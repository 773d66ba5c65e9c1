package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	gosync "sync"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
)

// Listener applies the backend change feed of one table to the local store.
// Start and Stop are idempotent.
type Listener struct {
	remote  remote.Remote
	local   LocalTable
	sub     remote.Subscription
	logger  *slog.Logger
	metrics *instruments
	mu      gosync.Mutex
}

func NewListener(r remote.Remote, local LocalTable, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		remote:  r,
		local:   local,
		logger:  logger.With("table", local.Table()),
		metrics: newInstruments(logger),
	}
}

// Start opens the subscription unless one is already live.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.live() {
		return nil
	}

	applyCtx := context.WithoutCancel(ctx)
	sub, err := l.remote.Subscribe(ctx, l.local.Table(), remote.Handlers{
		OnInsert: func(record json.RawMessage) { l.upsert(applyCtx, record) },
		OnUpdate: func(record json.RawMessage) { l.upsert(applyCtx, record) },
		OnDelete: func(id string) { l.remove(applyCtx, id) },
	})
	if err != nil {
		return wrapRemote(err, "failed to subscribe to "+l.local.Table())
	}
	l.sub = sub
	l.logger.Info("Realtime listener started")
	return nil
}

// Stop closes the subscription if one is open.
func (l *Listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sub == nil {
		return nil
	}
	sub := l.sub
	l.sub = nil
	if err := l.remote.Unsubscribe(sub); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", l.local.Table(), err)
	}
	l.logger.Info("Realtime listener stopped")
	return nil
}

// Running reports whether the change feed is open.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live()
}

func (l *Listener) live() bool {
	if l.sub == nil {
		return false
	}
	select {
	case <-l.sub.Done():
		if err := l.sub.Err(); err != nil {
			l.logger.Warn("Realtime feed ended", "error", err)
		}
		l.sub = nil
		return false
	default:
		return true
	}
}

func (l *Listener) upsert(ctx context.Context, record json.RawMessage) {
	if err := l.local.ApplyRemote(ctx, record); err != nil {
		l.logger.Warn("Failed to apply realtime change", "error", err)
		return
	}
	l.metrics.add(ctx, l.metrics.cntEvents, 1, l.local.Table())
}

func (l *Listener) remove(ctx context.Context, id string) {
	if err := l.local.RemoveRemote(ctx, id); err != nil {
		l.logger.Warn("Failed to apply realtime delete", "id", id, "error", err)
		return
	}
	l.metrics.add(ctx, l.metrics.cntEvents, 1, l.local.Table())
}
