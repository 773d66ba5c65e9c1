package sync

import (
	"context"
	"encoding/json"
	"path/filepath"
	gosync "sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/queue"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/remote"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/storage/boltdb"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/store"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/retry"
)

// fakeConn is a switchable connectivity source.
type fakeConn struct {
	subs   []chan bool
	online atomic.Bool
	mu     gosync.Mutex
}

func newFakeConn(online bool) *fakeConn {
	c := &fakeConn{}
	c.online.Store(online)
	return c
}

func (c *fakeConn) Online() bool { return c.online.Load() }

func (c *fakeConn) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 8)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch, func() {}
}

func (c *fakeConn) Set(online bool) {
	c.online.Store(online)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		ch <- online
	}
}

type testEnv struct {
	driver    *boltdb.Storage
	addresses *store.Store[*models.Address]
	queue     *queue.Queue
	remote    *remote.RemoteMock
	conn      *fakeConn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testEnv{
		driver:    db,
		addresses: store.New(db, store.AddressSchema(), nil),
		queue:     queue.New(db, queue.Options{}, nil),
		remote:    &remote.RemoteMock{},
		conn:      newFakeConn(true),
	}
}

func (e *testEnv) pusher() *Pusher {
	return NewPusher(e.remote, e.queue, []LocalTable{e.addresses}, e.driver, e.conn, retry.Policy{Attempts: 1}, nil)
}

func (e *testEnv) puller(opts PullOptions) *Puller {
	return NewPuller(e.remote, e.addresses, e.queue, e.driver, opts, nil)
}

func (e *testEnv) orchestrator(cfg Config, listeners ...*Listener) *Orchestrator {
	return NewOrchestrator([]*Puller{e.puller(PullOptions{})}, e.pusher(), listeners, e.queue, e.driver, e.conn, cfg, nil)
}

func (e *testEnv) enqueue(t *testing.T, op models.OperationType, id string, data any) *models.QueueEntry {
	t.Helper()
	entry, err := e.queue.Enqueue(context.Background(), queue.EnqueueRequest{
		Table:         models.TableAddresses,
		OperationType: op,
		EntityID:      id,
		Data:          data,
	})
	require.NoError(t, err)
	return entry
}

func addr(id, commune string) *models.Address {
	return models.NewAddress(id, models.AddressInput{Department: "Littoral", Commune: commune})
}

func rawAddr(t *testing.T, id, commune string, version int64) json.RawMessage {
	t.Helper()
	a := addr(id, commune)
	a.Version = version
	raw, err := json.Marshal(a)
	require.NoError(t, err)
	return raw
}

// withVersion returns record with its version set, as the backend would.
func withVersion(t *testing.T, record json.RawMessage, version int64) json.RawMessage {
	t.Helper()
	var a models.Address
	require.NoError(t, json.Unmarshal(record, &a))
	a.Version = version
	raw, err := json.Marshal(&a)
	require.NoError(t, err)
	return raw
}

func idOf(t *testing.T, record json.RawMessage) string {
	t.Helper()
	id, err := recordID(record)
	require.NoError(t, err)
	return id
}

func queueUpdate(id string, expectedVersion int64) queue.EnqueueRequest {
	return queue.EnqueueRequest{
		Table:           models.TableAddresses,
		OperationType:   models.OpUpdate,
		EntityID:        id,
		Data:            map[string]string{"commune": "Cotonou"},
		ExpectedVersion: expectedVersion,
	}
}

var storeAll = store.ListOptions{IncludeInactive: true}
