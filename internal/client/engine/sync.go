package engine

import (
	"context"
	"errors"
	"time"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	clientsync "github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/sync"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// ErrNotLoggedIn is returned by Session without a stored session.
var ErrNotLoggedIn = apperrors.New(apperrors.CodeAuth, "not logged in")

// SyncPull refreshes every table from the backend.
func (e *Engine) SyncPull(ctx context.Context) Result[[]clientsync.PullResult] {
	return run(e, "sync pull", func() ([]clientsync.PullResult, error) {
		return e.sync.SyncPull(ctx)
	})
}

// SyncPush drains the operation queue. Offline it fails with "offline"
// and leaves the queue untouched.
func (e *Engine) SyncPush(ctx context.Context) Result[clientsync.PushResult] {
	return run(e, "sync push", func() (clientsync.PushResult, error) {
		return e.sync.SyncPush(ctx)
	})
}

// SyncFull pushes then pulls.
func (e *Engine) SyncFull(ctx context.Context) Result[clientsync.FullResult] {
	return run(e, "sync full", func() (clientsync.FullResult, error) {
		return e.sync.SyncFull(ctx)
	})
}

func (e *Engine) GetSyncStatus(ctx context.Context) Result[clientsync.Status] {
	return run(e, "sync status", func() (clientsync.Status, error) {
		return e.sync.Status(ctx)
	})
}

// NeedsSync reports pending work or a last push older than threshold
// (zero means the configured threshold).
func (e *Engine) NeedsSync(ctx context.Context, threshold time.Duration) Result[bool] {
	return run(e, "needs sync", func() (bool, error) {
		return e.sync.NeedsSync(ctx, threshold)
	})
}

// QueueEntries lists queue entries with the given status ("" for all).
func (e *Engine) QueueEntries(ctx context.Context, status string) Result[[]*models.QueueEntry] {
	return run(e, "list queue", func() ([]*models.QueueEntry, error) {
		return e.queue.List(ctx, models.QueueStatus(status))
	})
}

// RetryQueueEntry re-queues a failed entry. force resends it without its
// expected version, overwriting the remote record.
func (e *Engine) RetryQueueEntry(ctx context.Context, id string, force bool) Result[*models.QueueEntry] {
	return run(e, "retry queue entry", func() (*models.QueueEntry, error) {
		entry, err := e.queue.Retry(ctx, id, force)
		if err != nil {
			return nil, err
		}
		e.sync.RequestPush()
		return entry, nil
	})
}

// Register creates an operator account on the backend. Data is the user id.
func (e *Engine) Register(ctx context.Context, username, password, role string) Result[string] {
	return run(e, "register", func() (string, error) {
		return e.auth.Register(ctx, username, password, role)
	})
}

func (e *Engine) Login(ctx context.Context, username, password string) Result[*storage.AuthData] {
	return run(e, "login", func() (*storage.AuthData, error) {
		session, err := e.auth.Login(ctx, username, password)
		if err != nil {
			return nil, err
		}
		e.sync.RequestPush()
		return session, nil
	})
}

func (e *Engine) Logout(ctx context.Context) Result[bool] {
	return run(e, "logout", func() (bool, error) {
		if err := e.auth.Logout(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Session returns the stored session.
func (e *Engine) Session(ctx context.Context) Result[*storage.AuthData] {
	return run(e, "session", func() (*storage.AuthData, error) {
		session, err := e.auth.Session(ctx)
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotLoggedIn
		}
		return session, err
	})
}
