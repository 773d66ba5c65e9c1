// Package engine assembles the offline-first sync engine and exposes it to
// the UI as a facade whose calls return Result values.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	apiclient "github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/api"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/auth"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/network"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/queue"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage/boltdb"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	clientsync "github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/sync"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/config"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/retry"
)

// Deps are the collaborators of an Engine. Open builds them from config;
// tests wire their own.
type Deps struct {
	Addresses *store.Store[*models.Address]
	Orders    *store.Store[*models.Order]
	Queue     *queue.Queue
	Sync      *clientsync.Orchestrator
	Monitor   *network.Monitor
	Auth      auth.Service
	// Closer releases the local database, if the engine owns it.
	Closer io.Closer
	Logger *slog.Logger
	// LastWriterWins sends updates unconditionally.
	LastWriterWins bool
	// Offline disables connectivity probes.
	Offline bool
}

// Engine is the sync engine of one device.
type Engine struct {
	addresses *table[*models.Address]
	orders    *table[*models.Order]
	queue     *queue.Queue
	sync      *clientsync.Orchestrator
	monitor   *network.Monitor
	auth      auth.Service
	closer    io.Closer
	logger    *slog.Logger
	offline   bool
}

// New wires an engine from explicit dependencies.
func New(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		queue:   deps.Queue,
		sync:    deps.Sync,
		monitor: deps.Monitor,
		auth:    deps.Auth,
		closer:  deps.Closer,
		logger:  logger,
		offline: deps.Offline,
	}
	e.addresses = &table[*models.Address]{
		store:  deps.Addresses,
		queue:  deps.Queue,
		kick:   deps.Sync.RequestPush,
		logger: logger,
		lww:    deps.LastWriterWins,
	}
	e.orders = &table[*models.Order]{
		store:  deps.Orders,
		queue:  deps.Queue,
		kick:   deps.Sync.RequestPush,
		logger: logger,
		lww:    deps.LastWriterWins,
	}
	if deps.Offline && deps.Monitor != nil {
		deps.Monitor.SetOnline(false)
	}
	return e
}

// Open builds the whole engine from cfg: local database, stores, queue,
// API client, connectivity monitor and sync components.
func Open(ctx context.Context, cfg *config.Client, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	addresses := store.New(db, store.AddressSchema(), logger)
	orders := store.New(db, store.OrderSchema(), logger)
	q := queue.New(db, queue.Options{
		MaxAttempts:   cfg.Sync.MaxAttempts,
		KeepProcessed: cfg.Sync.KeepProcessed,
	}, logger)

	// The client asks the session for a token on every call, and the
	// session logs in through the client.
	var session auth.Service
	client := apiclient.NewClient(cfg.ServerURL,
		apiclient.WithPageSize(cfg.Sync.PageSize),
		apiclient.WithTokenSource(func(ctx context.Context) (string, error) {
			return session.Token(ctx)
		}),
	)
	session = auth.NewService(client, db, logger)

	monitor := network.NewMonitor(client, cfg.Sync.ProbeInterval, logger.With("component", "network"))

	tables := []clientsync.LocalTable{addresses, orders}
	syncLogger := logger.With("component", "sync")

	pullers := make([]*clientsync.Puller, 0, len(tables))
	listeners := make([]*clientsync.Listener, 0, len(tables))
	for _, t := range tables {
		pullers = append(pullers, clientsync.NewPuller(client, t, q, db,
			clientsync.PullOptions{PruneMissing: cfg.Sync.PruneMissing}, syncLogger))
		listeners = append(listeners, clientsync.NewListener(client, t, syncLogger))
	}
	pusher := clientsync.NewPusher(client, q, tables, db, monitor,
		retry.Policy{Attempts: cfg.Sync.CallAttempts, Retryable: apperrors.IsRetryable}, syncLogger)

	orchestrator := clientsync.NewOrchestrator(pullers, pusher, listeners, q, db, monitor, clientsync.Config{
		Interval:      cfg.Sync.Interval,
		SyncThreshold: cfg.Sync.StaleAfter,
		SyncOnStart:   !cfg.Sync.SkipInitialSync,
	}, syncLogger)

	return New(Deps{
		Addresses:      addresses,
		Orders:         orders,
		Queue:          q,
		Sync:           orchestrator,
		Monitor:        monitor,
		Auth:           session,
		Closer:         db,
		Logger:         logger,
		LastWriterWins: cfg.Sync.LastWriterWins,
		Offline:        cfg.Offline,
	}), nil
}

// Run drives connectivity probing and automatic sync until ctx is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if !e.offline && e.monitor != nil {
		g.Go(func() error { return e.monitor.Run(ctx) })
	}
	g.Go(func() error { return e.sync.Run(ctx) })
	return g.Wait()
}

// Probe checks connectivity once, so one-shot commands know whether the
// backend is reachable without starting Run.
func (e *Engine) Probe(ctx context.Context) bool {
	if e.offline || e.monitor == nil {
		return false
	}
	return e.monitor.Probe(ctx)
}

// SetOnline forces the connectivity state.
func (e *Engine) SetOnline(online bool) {
	if e.monitor != nil {
		e.monitor.SetOnline(online)
	}
}

// Subscribe delivers sync status snapshots until cancel is called.
func (e *Engine) Subscribe() (<-chan clientsync.Status, func()) {
	return e.sync.Subscribe()
}

// Close releases the local database.
func (e *Engine) Close() error {
	var err error
	if e.closer != nil {
		err = multierr.Append(err, e.closer.Close())
	}
	return err
}
