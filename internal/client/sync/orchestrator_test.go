package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

func TestOrchestrator_SyncFullPushesBeforePulling(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.enqueue(t, models.OpCreate, "a1", addr("a1", "Cotonou"))

	var calls []string
	env.remote.InsertFunc = func(_ context.Context, _ string, record json.RawMessage) (json.RawMessage, error) {
		calls = append(calls, "push")
		return withVersion(t, record, 1), nil
	}
	env.remote.SelectAllFunc = func(context.Context, string, remote.Filter) ([]json.RawMessage, error) {
		calls = append(calls, "pull")
		return []json.RawMessage{rawAddr(t, "a1", "Cotonou", 1)}, nil
	}

	o := env.orchestrator(Config{})
	result, err := o.SyncFull(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"push", "pull"}, calls)
	assert.Equal(t, 1, result.Push.Processed)
	require.Len(t, result.Pulls, 1)
	assert.Equal(t, 1, result.Pulls[0].Count)

	status, err := o.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.LastPull.IsZero())
	assert.False(t, status.LastPush.IsZero())
	assert.False(t, status.Syncing)
	assert.Empty(t, status.LastError)
}

func TestOrchestrator_SyncFullPullsDespitePushFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.enqueue(t, models.OpCreate, "a1", addr("a1", "Cotonou"))

	env.remote.InsertFunc = func(context.Context, string, json.RawMessage) (json.RawMessage, error) {
		return nil, apperrors.Validation("bad record")
	}
	env.remote.SelectAllFunc = func(context.Context, string, remote.Filter) ([]json.RawMessage, error) {
		return nil, errors.New("gateway timeout")
	}

	o := env.orchestrator(Config{})
	result, err := o.SyncFull(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, result.Push.Failed)
	assert.Len(t, env.remote.SelectAllCalls(), 1)

	status, err := o.Status(ctx)
	require.NoError(t, err)
	assert.Contains(t, status.LastError, "gateway timeout")
	assert.True(t, status.LastPull.IsZero())
	assert.Equal(t, 1, status.Failed)
}

func TestOrchestrator_OfflineManualSync(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.conn = newFakeConn(false)
	o := env.orchestrator(Config{})

	_, err := o.SyncFull(ctx)
	assert.ErrorIs(t, err, apperrors.ErrOffline)
	_, err = o.SyncPull(ctx)
	assert.ErrorIs(t, err, apperrors.ErrOffline)
	_, err = o.SyncPush(ctx)
	assert.ErrorIs(t, err, apperrors.ErrOffline)

	assert.Empty(t, env.remote.SelectAllCalls())
}

func TestOrchestrator_SyncFullRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)
	o := env.orchestrator(Config{})
	o.cycle.Store(true)

	_, err := o.SyncFull(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestOrchestrator_NeedsSync(t *testing.T) {
	ctx := context.Background()

	t.Run("never pushed", func(t *testing.T) {
		env := newTestEnv(t)
		needs, err := env.orchestrator(Config{}).NeedsSync(ctx, 0)
		require.NoError(t, err)
		assert.True(t, needs)
	})

	t.Run("recent push and empty queue", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.driver.SaveTimestamp(ctx, storage.KeyLastPush, time.Now()))
		needs, err := env.orchestrator(Config{}).NeedsSync(ctx, 0)
		require.NoError(t, err)
		assert.False(t, needs)
	})

	t.Run("stale push", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.driver.SaveTimestamp(ctx, storage.KeyLastPush, time.Now().Add(-11*time.Minute)))
		needs, err := env.orchestrator(Config{}).NeedsSync(ctx, 0)
		require.NoError(t, err)
		assert.True(t, needs)

		needs, err = env.orchestrator(Config{}).NeedsSync(ctx, time.Hour)
		require.NoError(t, err)
		assert.False(t, needs)
	})

	t.Run("pending work", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.driver.SaveTimestamp(ctx, storage.KeyLastPush, time.Now()))
		env.enqueue(t, models.OpDelete, "a1", nil)
		needs, err := env.orchestrator(Config{}).NeedsSync(ctx, 0)
		require.NoError(t, err)
		assert.True(t, needs)
	})
}

func TestOrchestrator_RunFollowsConnectivity(t *testing.T) {
	env := newTestEnv(t)
	env.conn = newFakeConn(false)
	wireFeed(env)

	env.remote.InsertFunc = func(_ context.Context, _ string, record json.RawMessage) (json.RawMessage, error) {
		return record, nil
	}
	env.enqueue(t, models.OpCreate, "a1", addr("a1", "Cotonou"))

	listener := NewListener(env.remote, env.addresses, nil)
	o := env.orchestrator(Config{Interval: time.Hour}, listener)

	statuses, cancelStatus := o.Subscribe()
	defer cancelStatus()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	first := <-statuses
	assert.False(t, first.Online)
	assert.Empty(t, env.remote.InsertCalls(), "nothing is pushed while offline")

	env.conn.Set(true)
	require.Eventually(t, func() bool {
		return len(env.remote.InsertCalls()) == 1 && listener.Running()
	}, 2*time.Second, 10*time.Millisecond)

	env.conn.Set(false)
	require.Eventually(t, func() bool {
		return len(env.remote.UnsubscribeCalls()) == 1 && !listener.Running()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestOrchestrator_RequestPush(t *testing.T) {
	env := newTestEnv(t)
	env.remote.InsertFunc = func(_ context.Context, _ string, record json.RawMessage) (json.RawMessage, error) {
		return record, nil
	}

	o := env.orchestrator(Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	env.enqueue(t, models.OpCreate, "a1", addr("a1", "Cotonou"))
	o.RequestPush()
	o.RequestPush()

	require.Eventually(t, func() bool {
		return len(env.remote.InsertCalls()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestOrchestrator_SubscribeCancel(t *testing.T) {
	env := newTestEnv(t)
	o := env.orchestrator(Config{})

	ch, cancel := o.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
}
