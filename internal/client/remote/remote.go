// Package remote defines the contract of the backend the sync engine talks
// to. Payloads are raw JSON records; typing happens in the local store.
package remote

import (
	"context"
	"encoding/json"
)

//go:generate moq -out remote_mock.go . Remote Subscription

// Remote is the backend: bulk read, writes and a change feed per table.
type Remote interface {
	// SelectAll returns every record of table matching filter.
	SelectAll(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error)

	// Insert creates record and returns the stored version.
	Insert(ctx context.Context, table string, record json.RawMessage) (json.RawMessage, error)

	// Update merges patch into the record. A positive expectedVersion makes
	// the write conditional: a stale version fails with a CONFLICT error.
	Update(ctx context.Context, table, id string, patch json.RawMessage, expectedVersion int64) (json.RawMessage, error)

	// Delete removes the record. A missing record yields a NOT_FOUND error.
	Delete(ctx context.Context, table, id string) error

	// Subscribe opens the change feed of table. Handlers are called from the
	// subscription goroutine, one event at a time.
	Subscribe(ctx context.Context, table string, handlers Handlers) (Subscription, error)

	// Unsubscribe closes the feed. Closing twice is not an error.
	Unsubscribe(sub Subscription) error
}

// Filter narrows SelectAll.
type Filter struct {
	// ActiveOnly skips soft-deactivated records.
	ActiveOnly bool
}

// Handlers receive change events. Nil handlers ignore the event kind.
type Handlers struct {
	OnInsert func(record json.RawMessage)
	OnUpdate func(record json.RawMessage)
	OnDelete func(id string)
}

// Subscription is an open change feed.
type Subscription interface {
	Table() string
	// Done is closed when the feed ends, by Unsubscribe or by a transport error.
	Done() <-chan struct{}
	// Err returns the transport error that ended the feed, if any.
	Err() error
}

// ChangeType is the kind of a change event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Dispatch routes a change event to the matching handler.
func (h Handlers) Dispatch(kind ChangeType, id string, record json.RawMessage) {
	switch kind {
	case ChangeInsert:
		if h.OnInsert != nil {
			h.OnInsert(record)
		}
	case ChangeUpdate:
		if h.OnUpdate != nil {
			h.OnUpdate(record)
		}
	case ChangeDelete:
		if h.OnDelete != nil {
			h.OnDelete(id)
		}
	}
}
