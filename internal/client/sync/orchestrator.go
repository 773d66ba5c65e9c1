package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
)

const (
	DefaultInterval      = 5 * time.Minute
	DefaultSyncThreshold = 10 * time.Minute
)

// ErrSyncInProgress is returned by SyncFull while another full cycle runs.
var ErrSyncInProgress = apperrors.New(apperrors.CodeBusy, "sync already in progress")

// Config tunes the orchestrator. Zero fields take the defaults.
type Config struct {
	Interval      time.Duration
	SyncThreshold time.Duration
	// SyncOnStart runs a full cycle as soon as Run starts online.
	SyncOnStart bool
}

// Status is a snapshot of the sync state for display.
type Status struct {
	LastPull  time.Time `json:"last_pull"`
	LastPush  time.Time `json:"last_push"`
	LastError string    `json:"last_error,omitempty"`
	Pending   int       `json:"pending"`
	Failed    int       `json:"failed"`
	Conflicts int       `json:"conflicts"`
	Online    bool      `json:"online"`
	Syncing   bool      `json:"syncing"`
	Listening bool      `json:"listening"`
}

// FullResult reports a push followed by a pull.
type FullResult struct {
	Pulls []PullResult `json:"pulls"`
	Push  PushResult   `json:"push"`
}

// Orchestrator owns the sync lifecycle: the periodic timer, connectivity
// transitions, realtime listeners and the manual sync entry points.
type Orchestrator struct {
	pusher    *Pusher
	queue     OperationQueue
	meta      storage.MetadataStorage
	conn      Connectivity
	logger    *slog.Logger
	kick      chan struct{}
	subs      map[int]chan Status
	lastError string
	pullers   []*Puller
	listeners []*Listener
	cfg       Config
	nextSub   int
	active    atomic.Int32
	cycle     atomic.Bool
	mu        gosync.Mutex
}

func NewOrchestrator(pullers []*Puller, pusher *Pusher, listeners []*Listener, queue OperationQueue, meta storage.MetadataStorage, conn Connectivity, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.SyncThreshold <= 0 {
		cfg.SyncThreshold = DefaultSyncThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		pullers:   pullers,
		pusher:    pusher,
		listeners: listeners,
		queue:     queue,
		meta:      meta,
		conn:      conn,
		cfg:       cfg,
		logger:    logger,
		kick:      make(chan struct{}, 1),
		subs:      make(map[int]chan Status),
	}
}

// Run drives automatic sync until ctx is cancelled. While online it keeps
// the listeners open and runs push then pull every interval; going online
// triggers an immediate push, going offline stops the listeners.
func (o *Orchestrator) Run(ctx context.Context) error {
	changes, unsubscribe := o.conn.Subscribe()
	defer unsubscribe()
	defer o.stopListeners()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	startTimer := func() {
		if ticker == nil {
			ticker = time.NewTicker(o.cfg.Interval)
			tick = ticker.C
		}
	}
	stopTimer := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stopTimer()

	online := o.conn.Online()
	if online {
		o.startListeners(ctx)
		startTimer()
		if o.cfg.SyncOnStart {
			o.autoCycle(ctx)
		}
	}
	o.publish(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case up, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if up == online {
				continue
			}
			online = up
			if up {
				o.logger.Info("Connection restored")
				o.startListeners(ctx)
				startTimer()
				o.autoPush(ctx)
			} else {
				o.logger.Info("Connection lost, working offline")
				o.stopListeners()
				stopTimer()
			}
			o.publish(ctx)

		case <-tick:
			o.startListeners(ctx)
			o.autoCycle(ctx)

		case <-o.kick:
			if online {
				o.autoPush(ctx)
			}
		}
	}
}

// RequestPush asks Run to drain the queue soon. It never blocks.
func (o *Orchestrator) RequestPush() {
	select {
	case o.kick <- struct{}{}:
	default:
	}
}

// SyncPush drains the queue once.
func (o *Orchestrator) SyncPush(ctx context.Context) (PushResult, error) {
	o.active.Add(1)
	result, err := o.pusher.Push(ctx)
	o.active.Add(-1)

	o.record(ctx, err)
	return result, err
}

// SyncPull refreshes every table concurrently. The global pull checkpoint
// only advances when all tables succeed.
func (o *Orchestrator) SyncPull(ctx context.Context) ([]PullResult, error) {
	if !o.conn.Online() {
		return nil, apperrors.ErrOffline
	}

	o.active.Add(1)
	results, err := o.pullAll(ctx)
	o.active.Add(-1)

	o.record(ctx, err)
	return results, err
}

// SyncFull pushes then pulls. A failed push does not prevent the pull.
func (o *Orchestrator) SyncFull(ctx context.Context) (FullResult, error) {
	if !o.cycle.CompareAndSwap(false, true) {
		return FullResult{}, ErrSyncInProgress
	}
	defer o.cycle.Store(false)

	if !o.conn.Online() {
		return FullResult{}, apperrors.ErrOffline
	}

	o.active.Add(1)
	result, err := o.fullCycle(ctx)
	o.active.Add(-1)

	o.record(ctx, err)
	return result, err
}

func (o *Orchestrator) fullCycle(ctx context.Context) (FullResult, error) {
	var result FullResult

	push, pushErr := o.pusher.Push(ctx)
	result.Push = push
	switch {
	case errors.Is(pushErr, apperrors.ErrOffline):
		return result, pushErr
	case errors.Is(pushErr, apperrors.ErrPushInProgress):
		// Ручной push уже идёт, pull выполняем как обычно.
		pushErr = nil
	}

	pulls, pullErr := o.pullAll(ctx)
	result.Pulls = pulls
	return result, multierr.Combine(pushErr, pullErr)
}

// NeedsSync reports whether local work awaits the backend or the last
// successful push is older than threshold. A non-positive threshold uses
// the configured one.
func (o *Orchestrator) NeedsSync(ctx context.Context, threshold time.Duration) (bool, error) {
	if threshold <= 0 {
		threshold = o.cfg.SyncThreshold
	}

	stats, err := o.queue.Stats(ctx)
	if err != nil {
		return false, err
	}
	if stats.Pending > 0 || stats.Failed-stats.Conflicts > 0 {
		return true, nil
	}

	lastPush, err := o.meta.GetTimestamp(ctx, storage.KeyLastPush)
	if err != nil {
		return false, fmt.Errorf("failed to read push checkpoint: %w", err)
	}
	return lastPush.IsZero() || time.Since(lastPush) > threshold, nil
}

// Status returns the current sync state.
func (o *Orchestrator) Status(ctx context.Context) (Status, error) {
	status := Status{
		Online:    o.conn.Online(),
		Syncing:   o.active.Load() > 0 || o.pusher.Running(),
		Listening: o.listening(),
	}

	o.mu.Lock()
	status.LastError = o.lastError
	o.mu.Unlock()

	stats, err := o.queue.Stats(ctx)
	if err != nil {
		return status, err
	}
	status.Pending = stats.Pending
	status.Failed = stats.Failed
	status.Conflicts = stats.Conflicts

	if status.LastPull, err = o.meta.GetTimestamp(ctx, storage.KeyLastPull); err != nil {
		return status, err
	}
	if status.LastPush, err = o.meta.GetTimestamp(ctx, storage.KeyLastPush); err != nil {
		return status, err
	}
	return status, nil
}

// Subscribe delivers a status snapshot after every sync attempt and
// connectivity change. Slow readers only see the latest snapshot.
func (o *Orchestrator) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)

	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.mu.Unlock()

	var once gosync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (o *Orchestrator) pullAll(ctx context.Context) ([]PullResult, error) {
	results := make([]PullResult, len(o.pullers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range o.pullers {
		g.Go(func() error {
			res, err := p.Pull(gctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	if err := o.meta.SaveTimestamp(ctx, storage.KeyLastPull, time.Now().UTC()); err != nil {
		return results, fmt.Errorf("failed to save pull checkpoint: %w", err)
	}
	return results, nil
}

// autoCycle runs a timer-driven push and pull, skipping if one is running.
func (o *Orchestrator) autoCycle(ctx context.Context) {
	if _, err := o.SyncFull(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		o.logger.Warn("Automatic sync failed", "error", err)
	}
}

func (o *Orchestrator) autoPush(ctx context.Context) {
	if _, err := o.SyncPush(ctx); err != nil && !errors.Is(err, apperrors.ErrPushInProgress) {
		o.logger.Warn("Automatic push failed", "error", err)
	}
}

func (o *Orchestrator) startListeners(ctx context.Context) {
	for _, l := range o.listeners {
		if err := l.Start(ctx); err != nil {
			o.logger.Warn("Failed to start realtime listener", "table", l.local.Table(), "error", err)
		}
	}
}

func (o *Orchestrator) stopListeners() {
	for _, l := range o.listeners {
		if err := l.Stop(); err != nil {
			o.logger.Warn("Failed to stop realtime listener", "table", l.local.Table(), "error", err)
		}
	}
}

func (o *Orchestrator) listening() bool {
	if len(o.listeners) == 0 {
		return false
	}
	for _, l := range o.listeners {
		if !l.Running() {
			return false
		}
	}
	return true
}

// record keeps the last error and notifies subscribers.
func (o *Orchestrator) record(ctx context.Context, err error) {
	o.mu.Lock()
	switch {
	case err == nil:
		o.lastError = ""
	case errors.Is(err, apperrors.ErrPushInProgress), errors.Is(err, ErrSyncInProgress):
	default:
		o.lastError = err.Error()
	}
	o.mu.Unlock()

	o.publish(ctx)
}

func (o *Orchestrator) publish(ctx context.Context) {
	o.mu.Lock()
	empty := len(o.subs) == 0
	o.mu.Unlock()
	if empty {
		return
	}

	status, err := o.Status(ctx)
	if err != nil {
		o.logger.Warn("Failed to read sync status", "error", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ch := range o.subs {
		// Оставляем только последний снимок.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- status:
		default:
		}
	}
}
